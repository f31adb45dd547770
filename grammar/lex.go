// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package grammar

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"namegen/morpho"
)

// TokenType is the lexical classification of a word token, decided
// from its surface text alone (no morphology involved).
type TokenType int

const (
	TokenWord TokenType = iota
	TokenInitial
	TokenRoman
	TokenNumber
	TokenTitle
)

func (tt TokenType) String() string {
	switch tt {
	case TokenInitial:
		return "initial"
	case TokenRoman:
		return "roman"
	case TokenNumber:
		return "number"
	case TokenTitle:
		return "title"
	}
	return "word"
}

// Token is a single word of a name along with its lexical type and
// candidate morphological analyses.
type Token struct {
	Word string
	Type TokenType
	Info morpho.WordInfo
}

// Known tests whether the morphological analyzer knows the word.
func (t Token) Known() bool {
	return t.Info.Known()
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '–' || r == ','
}

// SplitName breaks a name into word tokens and the separator strings
// between them. It always holds that len(separators) == len(words)-1
// (or both are empty); separators are kept verbatim so the original
// text can be reproduced from the parts. Besides separator characters,
// a boundary between a digit run and a letter run also splits the text,
// yielding an empty separator there. A dot never starts a word; it
// sticks to the preceding word (initials, ordinals, abbreviations).
func SplitName(name string) ([]string, []string) {
	var words, separators []string
	var word, sep strings.Builder
	prev := rune(0)

	flushWord := func() {
		if word.Len() > 0 {
			if len(words) > 0 {
				separators = append(separators, sep.String())
			}
			sep.Reset()
			words = append(words, word.String())
			word.Reset()
		}
	}

	for _, r := range name {
		switch {
		case isSeparator(r):
			flushWord()
			if len(words) > 0 {
				sep.WriteRune(r)
			}
		case word.Len() > 0 && r != '.' && prev != '.' &&
			unicode.IsDigit(r) != unicode.IsDigit(prev):
			flushWord()
			word.WriteRune(r)
		default:
			word.WriteRune(r)
		}
		prev = r
	}
	flushWord()
	return words, separators
}

var romanNumberRx = regexp.MustCompile(`^[IVXLCDM]+\.?$`)

// Lex classifies word tokens and attaches their analyses.
type Lex struct {
	titles map[string]bool
}

// NewLex creates a classifier with the provided title vocabulary
// (academic degrees and similar, matched case-insensitively).
func NewLex(titles []string) *Lex {
	titleSet := make(map[string]bool, len(titles))
	for _, t := range titles {
		titleSet[strings.ToLower(t)] = true
	}
	return &Lex{titles: titleSet}
}

func isNumber(word string) bool {
	digits := 0
	for i, r := range word {
		if unicode.IsDigit(r) {
			digits++
			continue
		}
		if r == '.' && i == len(word)-1 {
			continue
		}
		return false
	}
	return digits > 0
}

func isInitial(word string) bool {
	r, size := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r) && word[size:] == "."
}

func (lex *Lex) classify(word string) TokenType {
	switch {
	case lex.titles[strings.ToLower(word)]:
		return TokenTitle
	case isInitial(word):
		return TokenInitial
	case romanNumberRx.MatchString(word):
		return TokenRoman
	case isNumber(word):
		return TokenNumber
	}
	return TokenWord
}

// Tokens splits a name and classifies the resulting words. The
// analyses map comes from the morphological analyzer; words missing
// from it (or present with no analyses) become unknown tokens.
func (lex *Lex) Tokens(name string, analyses map[string]morpho.WordInfo) ([]Token, []string) {
	words, separators := SplitName(name)
	tokens := make([]Token, len(words))
	for i, w := range words {
		tokens[i] = Token{
			Word: w,
			Type: lex.classify(w),
			Info: analyses[w],
		}
	}
	return tokens, separators
}
