// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package grammar

import (
	"regexp"
	"testing"
	"time"

	"namegen/morpho"

	"github.com/stretchr/testify/assert"
)

func nounTerm(mark Mark, gender morpho.Gender) *Terminal {
	return &Terminal{
		Class: ClassNoun,
		Mark:  mark,
		Constraint: morpho.Tag{
			POS:    morpho.POSNoun,
			Gender: gender,
			Case:   morpho.Nominative,
		},
		Inflect: true,
	}
}

func nounAnalysis(lemma string, gender morpho.Gender) morpho.Analysis {
	return morpho.Analysis{
		Lemma: lemma,
		Tag: morpho.Tag{
			POS:    morpho.POSNoun,
			Gender: gender,
			Number: morpho.NumberSingular,
			Case:   morpho.Nominative,
		},
		Paradigm: lemma + "-pdgm",
	}
}

func wordToken(word string, analyses ...morpho.Analysis) Token {
	return Token{
		Word: word,
		Type: TokenWord,
		Info: morpho.WordInfo{Word: word, Analyses: analyses},
	}
}

func TestAnalyseSingleWord(t *testing.T) {
	gr := &Grammar{
		Flexible: true,
		Productions: []Production{
			{Name: "loc", Segments: []Segment{{Terminal: nounTerm(MarkLocation, 0)}}},
		},
	}
	res := gr.Analyse([]Token{wordToken("Praha", nounAnalysis("Praha", morpho.GenderFeminine))}, MatchOptions{})
	assert.False(t, res.TimedOut)
	assert.Len(t, res.Derivations, 1)
	assert.Equal(t, "loc", res.Derivations[0].Production.Name)
	assert.Equal(t, MarkLocation, res.Derivations[0].Bindings[0].Mark())
}

func TestAnalyseLengthMismatch(t *testing.T) {
	gr := &Grammar{
		Productions: []Production{
			{Name: "loc", Segments: []Segment{{Terminal: nounTerm(MarkLocation, 0)}}},
		},
	}
	res := gr.Analyse(
		[]Token{
			wordToken("Hradec", nounAnalysis("Hradec", morpho.GenderInanimate)),
			wordToken("Králové", nounAnalysis("Králová", morpho.GenderFeminine)),
		},
		MatchOptions{},
	)
	assert.Empty(t, res.Derivations)
}

func TestAnalyseDistinctAnalysesYieldDistinctDerivations(t *testing.T) {
	gr := &Grammar{
		Productions: []Production{
			{Name: "loc", Segments: []Segment{{Terminal: nounTerm(MarkLocation, 0)}}},
		},
	}
	res := gr.Analyse(
		[]Token{wordToken(
			"Most",
			nounAnalysis("Most", morpho.GenderInanimate),
			nounAnalysis("most", morpho.GenderInanimate),
		)},
		MatchOptions{},
	)
	assert.Len(t, res.Derivations, 2)
}

func TestAnalyseDeduplicatesAcrossProductions(t *testing.T) {
	gr := &Grammar{
		Productions: []Production{
			{Name: "a", Segments: []Segment{{Terminal: nounTerm(MarkLocation, 0)}}},
			{Name: "b", Segments: []Segment{{Terminal: nounTerm(MarkLocation, morpho.GenderFeminine)}}},
		},
	}
	res := gr.Analyse([]Token{wordToken("Praha", nounAnalysis("Praha", morpho.GenderFeminine))}, MatchOptions{})
	assert.Len(t, res.Derivations, 1)
	assert.Equal(t, "a", res.Derivations[0].Production.Name)
}

func TestAnalyseLiteralBindsByExactSurface(t *testing.T) {
	gr := &Grammar{
		Productions: []Production{
			{Name: "p", Segments: []Segment{
				{Terminal: nounTerm(MarkGivenName, 0)},
				{Literal: &Literal{Text: "da", Mark: MarkPrepos}},
				{Terminal: nounTerm(MarkSurname, 0)},
			}},
		},
	}
	tokens := []Token{
		wordToken("Leonardo", nounAnalysis("Leonardo", morpho.GenderMasculine)),
		wordToken("da"),
		wordToken("Vinci", nounAnalysis("Vinci", morpho.GenderMasculine)),
	}
	res := gr.Analyse(tokens, MatchOptions{})
	assert.Len(t, res.Derivations, 1)
	assert.Equal(t, MarkPrepos, res.Derivations[0].Bindings[1].Mark())
	assert.False(t, res.Derivations[0].HasUnknown())

	tokens[1].Word = "Da"
	res = gr.Analyse(tokens, MatchOptions{})
	assert.Empty(t, res.Derivations)
}

func TestAnalyseUnknownFallback(t *testing.T) {
	gr := &Grammar{
		Productions: []Production{
			{Name: "loc", Segments: []Segment{{
				Terminal: &Terminal{
					Class:      ClassNoun,
					Mark:       MarkLocation,
					Constraint: morpho.Tag{POS: morpho.POSNoun},
					Regex:      regexp.MustCompile(`^(?:[A-ZÁ-Ž].*)$`),
					Inflect:    true,
				},
			}}},
		},
	}
	unknown := []Token{wordToken("Xyzzy")}

	res := gr.Analyse(unknown, MatchOptions{})
	assert.Empty(t, res.Derivations, "no fallback classes configured")

	res = gr.Analyse(unknown, MatchOptions{UnknownClasses: []WordClass{ClassNoun}})
	assert.Len(t, res.Derivations, 1)
	assert.True(t, res.Derivations[0].HasUnknown())

	res = gr.Analyse([]Token{wordToken("xyzzy")}, MatchOptions{UnknownClasses: []WordClass{ClassNoun}})
	assert.Empty(t, res.Derivations, "regex still applies to unknown words")
}

func TestAnalysePrefersFullyAnalyzed(t *testing.T) {
	fallbackNoun := &Terminal{
		Class:      ClassNoun,
		Mark:       MarkSurname,
		Constraint: morpho.Tag{POS: morpho.POSNoun},
		Inflect:    true,
	}
	gr := &Grammar{
		Productions: []Production{
			{Name: "with-prep", Segments: []Segment{
				{Terminal: nounTerm(MarkGivenName, 0)},
				{Literal: &Literal{Text: "da", Mark: MarkPrepos}},
			}},
			{Name: "two-nouns", Segments: []Segment{
				{Terminal: nounTerm(MarkGivenName, 0)},
				{Terminal: fallbackNoun},
			}},
		},
	}
	// "da" has no analyses: the first production binds it as a literal,
	// the second would need the unknown-word fallback
	tokens := []Token{
		wordToken("Leonardo", nounAnalysis("Leonardo", morpho.GenderMasculine)),
		wordToken("da"),
	}
	res := gr.Analyse(tokens, MatchOptions{UnknownClasses: []WordClass{ClassNoun}})
	assert.Len(t, res.Derivations, 1)
	assert.Equal(t, "with-prep", res.Derivations[0].Production.Name)
	assert.False(t, res.Derivations[0].HasUnknown())
}

func TestAnalyseLexicalTerminals(t *testing.T) {
	gr := &Grammar{
		Productions: []Production{
			{Name: "ruler", Segments: []Segment{
				{Terminal: nounTerm(MarkGivenName, 0)},
				{Terminal: &Terminal{Class: ClassRoman, Mark: MarkRoman}},
			}},
		},
	}
	tokens := []Token{
		wordToken("Karel", nounAnalysis("Karel", morpho.GenderMasculine)),
		{Word: "IV.", Type: TokenRoman},
	}
	res := gr.Analyse(tokens, MatchOptions{})
	assert.Len(t, res.Derivations, 1)
	assert.Equal(t, MarkRoman, res.Derivations[0].Bindings[1].Mark())
	assert.False(t, res.Derivations[0].HasUnknown())
}

func TestAnalyseTimeoutReturnsPartialResults(t *testing.T) {
	gr := &Grammar{
		Productions: []Production{
			{Name: "a", Segments: []Segment{{Terminal: nounTerm(MarkLocation, 0)}}},
			{Name: "b", Segments: []Segment{{Terminal: nounTerm(MarkLocation, morpho.GenderFeminine)}}},
		},
	}
	tokens := []Token{wordToken("Praha", nounAnalysis("Praha", morpho.GenderFeminine))}

	full := gr.Analyse(tokens, MatchOptions{})
	assert.False(t, full.TimedOut)

	hit := gr.Analyse(tokens, MatchOptions{Timeout: time.Nanosecond})
	assert.True(t, hit.TimedOut)
	assert.LessOrEqual(t, len(hit.Derivations), len(full.Derivations))
	for i, d := range hit.Derivations {
		assert.Equal(t, full.Derivations[i].signature(), d.signature())
	}
}

func TestAnalyseSmallerBudgetYieldsPrefixOfLarger(t *testing.T) {
	gr := &Grammar{
		Productions: []Production{
			{Name: "a", Segments: []Segment{{Terminal: nounTerm(MarkLocation, 0)}}},
			{Name: "b", Segments: []Segment{{Terminal: nounTerm(MarkLocation, morpho.GenderFeminine)}}},
			{Name: "c", Segments: []Segment{{Terminal: nounTerm(MarkLocation, morpho.GenderInanimate)}}},
		},
	}
	tokens := []Token{wordToken(
		"Olomouc",
		nounAnalysis("Olomouc", morpho.GenderFeminine),
		nounAnalysis("Olomouc", morpho.GenderInanimate),
	)}

	large := gr.Analyse(tokens, MatchOptions{Timeout: time.Hour})
	assert.False(t, large.TimedOut)

	small := gr.Analyse(tokens, MatchOptions{Timeout: time.Nanosecond})
	assert.True(t, small.TimedOut)
	assert.LessOrEqual(t, len(small.Derivations), len(large.Derivations))
	for i, d := range small.Derivations {
		assert.Equal(t, large.Derivations[i].signature(), d.signature())
	}
}

func TestAnalyseDeterministicOrder(t *testing.T) {
	gr := &Grammar{
		Productions: []Production{
			{Name: "fem", Segments: []Segment{{Terminal: nounTerm(MarkLocation, morpho.GenderFeminine)}}},
			{Name: "any", Segments: []Segment{{Terminal: nounTerm(MarkLocation, 0)}}},
		},
	}
	tokens := []Token{wordToken(
		"Olomouc",
		nounAnalysis("Olomouc", morpho.GenderFeminine),
		nounAnalysis("Olomouc", morpho.GenderInanimate),
	)}
	first := gr.Analyse(tokens, MatchOptions{})
	for i := 0; i < 10; i++ {
		again := gr.Analyse(tokens, MatchOptions{})
		assert.Equal(t, len(first.Derivations), len(again.Derivations))
		for j := range first.Derivations {
			assert.Equal(t, first.Derivations[j].signature(), again.Derivations[j].signature())
		}
	}
	assert.Len(t, first.Derivations, 2)
	assert.Equal(t, "fem", first.Derivations[0].Production.Name)
}
