// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package filters

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/czcorpus/cnc-gokit/collections"
	"golang.org/x/text/unicode/runenames"
)

// LangUnknown is the language tag treated as equivalent to an empty
// language field of an input record.
const LangUnknown = "UNKNOWN"

// Conf configures input record filtering. Every restriction is
// optional; an absent one admits everything.
type Conf struct {

	// Languages is an allow-list of language tags. The UNKNOWN tag
	// also admits records with an empty language field.
	Languages []string `json:"languages"`

	// NameRegex must match the whole name text.
	NameRegex string `json:"nameRegex"`

	// AllowedAlphaChars lists every alphabetic character a name may
	// contain (non-alphabetic characters are always admitted).
	AllowedAlphaChars string `json:"allowedAlphaChars"`

	// Script is a substring required in the Unicode character name of
	// every alphabetic character, e.g. "LATIN".
	Script string `json:"script"`
}

func (conf *Conf) Validate(context string) error {
	if conf.NameRegex != "" {
		if _, err := regexp.Compile(conf.NameRegex); err != nil {
			return fmt.Errorf("%s.nameRegex is invalid: %w", context, err)
		}
	}
	return nil
}

// NamesFilter decides which input records enter the inflection
// pipeline. Safe for concurrent use.
type NamesFilter struct {
	languages    []string
	nameRx       *regexp.Regexp
	allowedAlpha map[rune]bool
	script       string
}

// NewNamesFilter compiles the configured restrictions. The
// configuration must have passed Validate.
func NewNamesFilter(conf *Conf) *NamesFilter {
	ans := &NamesFilter{
		languages: conf.Languages,
		script:    strings.ToUpper(conf.Script),
	}
	if conf.NameRegex != "" {
		ans.nameRx = regexp.MustCompile("^(?:" + conf.NameRegex + ")$")
	}
	if conf.AllowedAlphaChars != "" {
		ans.allowedAlpha = make(map[rune]bool)
		for _, r := range conf.AllowedAlphaChars {
			ans.allowedAlpha[r] = true
		}
	}
	return ans
}

// AcceptsLanguage tests the record's language against the allow-list.
func (f *NamesFilter) AcceptsLanguage(lang string) bool {
	if len(f.languages) == 0 {
		return true
	}
	if lang == "" {
		lang = LangUnknown
	}
	return collections.SliceContains(f.languages, lang)
}

// AcceptsName tests the name text against the regex, the allowed
// alphabet and the required script.
func (f *NamesFilter) AcceptsName(name string) bool {
	if f.nameRx != nil && !f.nameRx.MatchString(name) {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			continue
		}
		if f.allowedAlpha != nil && !f.allowedAlpha[r] {
			return false
		}
		if f.script != "" && !strings.Contains(runenames.Name(r), f.script) {
			return false
		}
	}
	return true
}

// Accepts combines the language and name restrictions.
func (f *NamesFilter) Accepts(name, lang string) bool {
	return f.AcceptsLanguage(lang) && f.AcceptsName(name)
}
