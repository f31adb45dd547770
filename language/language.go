// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package language

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"namegen/common"
	"namegen/grammar"

	"github.com/rs/zerolog/log"
)

const dfltGrammarTimeoutMs = 60000

// Conf describes one language directory: the four kind-specific
// grammars (under a grammars/ subdirectory), the title vocabulary and
// the equivalence sets for derivation generation.
type Conf struct {
	Code            string `json:"code"`
	Directory       string `json:"directory"`
	GrammarMale     string `json:"grammarMale"`
	GrammarFemale   string `json:"grammarFemale"`
	GrammarLocation string `json:"grammarLocations"`
	GrammarEvents   string `json:"grammarEvents"`
	TitlesFile      string `json:"titlesFile"`
	EquivalenceFile string `json:"equivalenceFile"`

	// GrammarTimeoutMs limits a single matching run; negative
	// disables the limit, zero means the default (60000).
	GrammarTimeoutMs int `json:"grammarTimeoutMs"`
}

func (conf *Conf) Validate(context string) error {
	if conf.Code == "" {
		return fmt.Errorf("%s.code is missing", context)
	}
	if conf.Directory == "" {
		return fmt.Errorf("%s.directory is missing", context)
	}
	for key, v := range map[string]string{
		"grammarMale":      conf.GrammarMale,
		"grammarFemale":    conf.GrammarFemale,
		"grammarLocations": conf.GrammarLocation,
		"grammarEvents":    conf.GrammarEvents,
		"titlesFile":       conf.TitlesFile,
	} {
		if v == "" {
			return fmt.Errorf("%s.%s is missing", context, key)
		}
	}
	return nil
}

// Timeout returns the configured grammar timeout as a duration
// (zero = no limit).
func (conf *Conf) Timeout() time.Duration {
	if conf.GrammarTimeoutMs < 0 {
		return 0
	}
	if conf.GrammarTimeoutMs == 0 {
		return dfltGrammarTimeoutMs * time.Millisecond
	}
	return time.Duration(conf.GrammarTimeoutMs) * time.Millisecond
}

// Language bundles everything needed to process names of one language.
// Immutable after Load and shared read-only by all workers.
type Language struct {
	Code         string
	Male         *grammar.Grammar
	Female       *grammar.Grammar
	Locations    *grammar.Grammar
	Events       *grammar.Grammar
	Titles       []string
	Equivalences *Equivalences
	Lex          *grammar.Lex

	timeout time.Duration
}

// Load reads all data files of one language. Any failure is a
// configuration error.
func Load(conf *Conf) (*Language, error) {
	grammarsPath := filepath.Join(conf.Directory, "grammars")
	ans := &Language{
		Code:    conf.Code,
		timeout: conf.Timeout(),
	}
	var err error
	if ans.Male, err = grammar.Load(filepath.Join(grammarsPath, conf.GrammarMale)); err != nil {
		return nil, err
	}
	if ans.Female, err = grammar.Load(filepath.Join(grammarsPath, conf.GrammarFemale)); err != nil {
		return nil, err
	}
	if ans.Locations, err = grammar.Load(filepath.Join(grammarsPath, conf.GrammarLocation)); err != nil {
		return nil, err
	}
	if ans.Events, err = grammar.Load(filepath.Join(grammarsPath, conf.GrammarEvents)); err != nil {
		return nil, err
	}
	if ans.Titles, err = readTitles(filepath.Join(conf.Directory, conf.TitlesFile)); err != nil {
		return nil, err
	}
	if conf.EquivalenceFile != "" {
		ans.Equivalences, err = LoadEquivalences(filepath.Join(conf.Directory, conf.EquivalenceFile))
		if err != nil {
			return nil, err
		}

	} else {
		ans.Equivalences = NewEquivalences(nil)
	}
	ans.Lex = grammar.NewLex(ans.Titles)
	log.Info().
		Str("language", conf.Code).
		Int("titles", len(ans.Titles)).
		Dur("grammarTimeout", ans.timeout).
		Msg("loaded language data")
	return ans, nil
}

// Timeout is the matching time budget for this language's grammars.
func (lang *Language) Timeout() time.Duration {
	return lang.timeout
}

// GrammarFor selects the grammar matching a (complete) name kind.
func (lang *Language) GrammarFor(kind common.NameKind) (*grammar.Grammar, error) {
	switch kind.MainType() {
	case common.MainTypeLocation:
		return lang.Locations, nil
	case common.MainTypeEvent:
		return lang.Events, nil
	case common.MainTypePerson:
		switch kind.Gender() {
		case common.GenderMale:
			return lang.Male, nil
		case common.GenderFemale:
			return lang.Female, nil
		}
		return nil, fmt.Errorf("cannot select grammar for person kind without gender: %s", kind)
	}
	return nil, fmt.Errorf("cannot select grammar for kind: %s", kind)
}

// MatchOptions creates crawler options using this language's timeout.
func (lang *Language) MatchOptions(unknownClasses []grammar.WordClass) grammar.MatchOptions {
	return grammar.MatchOptions{
		Timeout:        lang.timeout,
		UnknownClasses: unknownClasses,
	}
}

// readTitles loads the title vocabulary: whitespace-separated items,
// '#' starts a comment.
func readTitles(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load titles: %w", err)
	}
	defer f.Close()
	var ans []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		content, _, _ := strings.Cut(scanner.Text(), "#")
		ans = append(ans, strings.Fields(content)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to load titles: %w", err)
	}
	return ans, nil
}

// AnalyzedWords collects the distinct words of a batch of names so
// the analyzer can be primed with a single call.
func AnalyzedWords(names []string) []string {
	seen := make(map[string]bool)
	var ans []string
	for _, n := range names {
		words, _ := grammar.SplitName(n)
		for _, w := range words {
			if !seen[w] {
				seen[w] = true
				ans = append(ans, w)
			}
		}
	}
	return ans
}
