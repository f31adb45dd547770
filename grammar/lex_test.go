// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package grammar

import (
	"testing"

	"namegen/morpho"

	"github.com/stretchr/testify/assert"
)

func TestSplitNameSimple(t *testing.T) {
	words, seps := SplitName("Leonardo da Vinci")
	assert.Equal(t, []string{"Leonardo", "da", "Vinci"}, words)
	assert.Equal(t, []string{" ", " "}, seps)
}

func TestSplitNameKeepsSeparatorsVerbatim(t *testing.T) {
	words, seps := SplitName("Frýdek-Místek,  Ostrava – Poruba")
	assert.Equal(t, []string{"Frýdek", "Místek", "Ostrava", "Poruba"}, words)
	assert.Equal(t, []string{"-", ",  ", " – "}, seps)
}

func TestSplitNameDigitBoundary(t *testing.T) {
	words, seps := SplitName("Kolo14hora")
	assert.Equal(t, []string{"Kolo", "14", "hora"}, words)
	assert.Equal(t, []string{"", ""}, seps)
}

func TestSplitNameTrailingDotSticksToWord(t *testing.T) {
	words, seps := SplitName("J. A. Komenský")
	assert.Equal(t, []string{"J.", "A.", "Komenský"}, words)
	assert.Equal(t, []string{" ", " "}, seps)
}

func TestSplitNameOrdinalKeepsDot(t *testing.T) {
	words, _ := SplitName("Bitva 1866.")
	assert.Equal(t, []string{"Bitva", "1866."}, words)
}

func TestSplitNameEmpty(t *testing.T) {
	words, seps := SplitName("")
	assert.Empty(t, words)
	assert.Empty(t, seps)
}

func TestSplitNameLeadingTrailingSeparators(t *testing.T) {
	words, seps := SplitName("  Praha ")
	assert.Equal(t, []string{"Praha"}, words)
	assert.Empty(t, seps)
}

func TestClassify(t *testing.T) {
	lex := NewLex([]string{"MUDr.", "Ing."})
	assert.Equal(t, TokenTitle, lex.classify("mudr."))
	assert.Equal(t, TokenTitle, lex.classify("Ing."))
	assert.Equal(t, TokenInitial, lex.classify("J."))
	assert.Equal(t, TokenInitial, lex.classify("Č."))
	assert.Equal(t, TokenRoman, lex.classify("IV."))
	assert.Equal(t, TokenRoman, lex.classify("XIV"))
	assert.Equal(t, TokenNumber, lex.classify("1866"))
	assert.Equal(t, TokenNumber, lex.classify("14."))
	assert.Equal(t, TokenWord, lex.classify("Komenský"))
	assert.Equal(t, TokenWord, lex.classify("praha"))
}

func TestTokensAttachAnalyses(t *testing.T) {
	lex := NewLex(nil)
	analyses := map[string]morpho.WordInfo{
		"Praha": {
			Word: "Praha",
			Analyses: []morpho.Analysis{
				{Lemma: "Praha", Tag: morpho.Tag{POS: morpho.POSNoun}},
			},
		},
	}
	tokens, seps := lex.Tokens("Praha Xyzzy", analyses)
	assert.Len(t, tokens, 2)
	assert.Equal(t, []string{" "}, seps)
	assert.True(t, tokens[0].Known())
	assert.False(t, tokens[1].Known())
}
