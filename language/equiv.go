// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package language

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// Equivalences holds the configured sets of interchangeable trigger
// words for derivation generation: when any member of a set occurs,
// derivations are produced for every member.
type Equivalences struct {
	sets  [][]string
	index map[string]int
}

// NewEquivalences builds the lookup structure. A word may occur in
// one set only; a later occurrence is ignored.
func NewEquivalences(sets [][]string) *Equivalences {
	ans := &Equivalences{
		sets:  sets,
		index: make(map[string]int),
	}
	for i, set := range sets {
		for _, w := range set {
			if _, ok := ans.index[w]; !ok {
				ans.index[w] = i
			}
		}
	}
	return ans
}

// LoadEquivalences reads equivalence sets from a JSON file of the
// form [["Ital", "Italan"], ...].
func LoadEquivalences(path string) (*Equivalences, error) {
	rawData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load equivalence sets: %w", err)
	}
	var sets [][]string
	if err := sonic.Unmarshal(rawData, &sets); err != nil {
		return nil, fmt.Errorf("failed to parse equivalence sets %s: %w", path, err)
	}
	return NewEquivalences(sets), nil
}

// ClassOf returns all members of the word's equivalence set, or just
// the word itself when it belongs to none. The word is always the
// first element of the answer.
func (eq *Equivalences) ClassOf(word string) []string {
	i, ok := eq.index[word]
	if !ok {
		return []string{word}
	}
	ans := make([]string, 0, len(eq.sets[i]))
	ans = append(ans, word)
	for _, w := range eq.sets[i] {
		if w != word {
			ans = append(ans, w)
		}
	}
	return ans
}

// Size returns the number of configured sets.
func (eq *Equivalences) Size() int {
	return len(eq.sets)
}
