// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package morpho

import "context"

// Analyzer note codes attached by the morphological analyzer to
// analyses of proper names.
const (
	NoteGivenName = "jG"
	NoteSurname   = "jS"
	NoteLocation  = "jL"
)

// TaggedForm is a single inflected form of a paradigm.
type TaggedForm struct {
	Form string `json:"form"`
	Tag  Tag    `json:"tag"`
}

// Analysis is one candidate morphological reading of a surface word:
// its lemma, the tag of the surface form itself, the identifier of the
// inflection paradigm and all forms the paradigm generates. Forms are
// carried inline so that case-form generation needs no further
// analyzer round trips.
type Analysis struct {
	Lemma    string       `json:"lemma"`
	Tag      Tag          `json:"tag"`
	Paradigm string       `json:"paradigm"`
	Note     string       `json:"note,omitempty"`
	Forms    []TaggedForm `json:"forms"`
}

// WordInfo groups all candidate analyses of one surface word.
// An empty Analyses slice means the analyzer does not know the word.
type WordInfo struct {
	Word     string     `json:"word"`
	Analyses []Analysis `json:"analyses"`
}

// Known tests whether at least one analysis is available.
func (wi WordInfo) Known() bool {
	return len(wi.Analyses) > 0
}

// DerivedWord is a word derived from a base lemma (e.g. a possessive
// adjective or a feminine counterpart), labeled with the derivation
// type code the analyzer assigned to the relation.
type DerivedWord struct {
	Word string `json:"word"`
	Type string `json:"type"`
	Note string `json:"note,omitempty"`
}

// Analyzer provides morphological analyses for surface words and
// derivation relations for lemmas. Implementations must treat their
// own failure as "no analyses available": a batch that partially
// fails returns the successfully analyzed words plus a non-nil error
// and the caller degrades the missing words to unknown tokens.
type Analyzer interface {

	// Analyze performs a batched analysis of the provided surface words.
	// Words the analyzer does not know are present in the result with
	// an empty analysis list.
	Analyze(ctx context.Context, words []string) (map[string]WordInfo, error)

	// Derivations returns all words derived from the provided lemma.
	Derivations(ctx context.Context, lemma string) ([]DerivedWord, error)
}
