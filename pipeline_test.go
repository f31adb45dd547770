// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"namegen/common"
	"namegen/config"
	"namegen/filters"
	"namegen/generate"
	"namegen/grammar"
	"namegen/language"
	"namegen/morpho"
	"namegen/name"

	"github.com/stretchr/testify/assert"
)

type fakeAnalyzer struct {
	words   map[string]morpho.WordInfo
	derived map[string][]morpho.DerivedWord
}

func (fa *fakeAnalyzer) Analyze(ctx context.Context, words []string) (map[string]morpho.WordInfo, error) {
	ans := make(map[string]morpho.WordInfo, len(words))
	for _, w := range words {
		if info, ok := fa.words[w]; ok {
			ans[w] = info

		} else {
			ans[w] = morpho.WordInfo{Word: w}
		}
	}
	return ans, nil
}

func (fa *fakeAnalyzer) Derivations(ctx context.Context, lemma string) ([]morpho.DerivedWord, error) {
	return fa.derived[lemma], nil
}

// nounInfo builds a word analysis with one form per case
// (word1, word2, ... word7).
func nounInfo(word string, gender morpho.Gender) morpho.WordInfo {
	baseTag := morpho.Tag{
		POS:    morpho.POSNoun,
		Gender: gender,
		Number: morpho.NumberSingular,
		Case:   morpho.Nominative,
	}
	forms := make([]morpho.TaggedForm, 0, morpho.NumCases)
	for i, c := range morpho.AllCases() {
		tag := baseTag
		tag.Case = c
		forms = append(forms, morpho.TaggedForm{Form: fmt.Sprintf("%s%d", word, i+1), Tag: tag})
	}
	return morpho.WordInfo{
		Word: word,
		Analyses: []morpho.Analysis{
			{Lemma: word, Tag: baseTag, Paradigm: word + "-pdgm", Forms: forms},
		},
	}
}

func singleNounGrammar(mark grammar.Mark, gender morpho.Gender) *grammar.Grammar {
	return &grammar.Grammar{
		Flexible: true,
		Productions: []grammar.Production{
			{
				Name: "single",
				Segments: []grammar.Segment{
					{Terminal: &grammar.Terminal{
						Class:      grammar.ClassNoun,
						Mark:       mark,
						Constraint: morpho.Tag{POS: morpho.POSNoun, Gender: gender, Case: morpho.Nominative},
						Inflect:    true,
					}},
				},
			},
		},
	}
}

func testLanguage() *language.Language {
	return &language.Language{
		Code:         "cs",
		Male:         singleNounGrammar(grammar.MarkSurname, morpho.GenderMasculine),
		Female:       singleNounGrammar(grammar.MarkSurname, morpho.GenderFeminine),
		Locations:    singleNounGrammar(grammar.MarkLocation, 0),
		Events:       singleNounGrammar(grammar.MarkEvent, 0),
		Equivalences: language.NewEquivalences(nil),
		Lex:          grammar.NewLex(nil),
	}
}

func testPipeline(fa *fakeAnalyzer, gen generate.Generator, matching *config.MatchingConf) *Pipeline {
	if matching == nil {
		matching = &config.MatchingConf{}
	}
	return NewPipeline(testLanguage(), fa, filters.NewNamesFilter(&filters.Conf{}), gen, matching)
}

func mustKind(t *testing.T, v string) common.NameKind {
	kind, err := common.ParseNameKind(v)
	assert.NoError(t, err)
	return kind
}

func TestPipelineInflectsLocation(t *testing.T) {
	fa := &fakeAnalyzer{words: map[string]morpho.WordInfo{
		"Praha": nounInfo("Praha", morpho.GenderFeminine),
	}}
	p := testPipeline(fa, nil, nil)

	res, err := p.Process(context.Background(), name.Name{Text: "Praha", Kind: mustKind(t, "L")})
	assert.NoError(t, err)
	assert.True(t, res.Matched)
	assert.False(t, res.TimedOut)
	assert.Len(t, res.Lines, 1)

	fields := strings.Split(res.Lines[0], "\t")
	assert.Equal(t, "Praha", fields[0])
	assert.Equal(t, "L", fields[2])
	caseForms := strings.Split(fields[3], "|")
	assert.Len(t, caseForms, morpho.NumCases)
	assert.Equal(t, "Praha1[k1gFnSc1]#L", caseForms[0])
	assert.Equal(t, "Praha7[k1gFnSc7]#L", caseForms[6])
	assert.Equal(
		t,
		[]WordRole{{Word: "Praha", Mark: grammar.MarkLocation, Tag: "k1gFnSc1"}},
		res.Words,
	)
}

func TestPipelineGuessesGenderBySuffix(t *testing.T) {
	fa := &fakeAnalyzer{words: map[string]morpho.WordInfo{
		"Nováková": nounInfo("Nováková", morpho.GenderFeminine),
	}}
	p := testPipeline(fa, nil, nil)

	res, err := p.Process(context.Background(), name.Name{Text: "Nováková", Kind: mustKind(t, "P:::")})
	assert.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Len(t, res.Lines, 1)
	assert.Equal(t, "P:::F", strings.Split(res.Lines[0], "\t")[2])
}

func TestPipelineGuessesGenderByGrammar(t *testing.T) {
	fa := &fakeAnalyzer{words: map[string]morpho.WordInfo{
		"Novák": nounInfo("Novák", morpho.GenderMasculine),
	}}
	p := testPipeline(fa, nil, nil)

	res, err := p.Process(context.Background(), name.Name{Text: "Novák", Kind: mustKind(t, "P:::")})
	assert.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Len(t, res.Lines, 1)
	assert.Equal(t, "P:::M", strings.Split(res.Lines[0], "\t")[2])
}

func TestPipelineUnmatchedRecord(t *testing.T) {
	fa := &fakeAnalyzer{}
	p := testPipeline(fa, nil, nil)

	res, err := p.Process(context.Background(), name.Name{Text: "Úplněneznámé", Kind: mustKind(t, "L")})
	assert.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Empty(t, res.Lines)
	assert.Len(t, res.UnknownWords, 1)
	assert.Equal(t, "Úplněneznámé", res.UnknownWords[0].Word)
	assert.Equal(t, grammar.MarkUnknown, res.UnknownWords[0].Mark)
}

func TestPipelineUnmatchedRecordIncludeNoMorphs(t *testing.T) {
	fa := &fakeAnalyzer{}
	p := testPipeline(fa, nil, &config.MatchingConf{IncludeNoMorphs: true})

	res, err := p.Process(context.Background(), name.Name{Text: "Úplněneznámé", Kind: mustKind(t, "L")})
	assert.NoError(t, err)
	assert.Equal(t, []string{"Úplněneznámé\t\tL\t"}, res.Lines)
}

func TestPipelineFilterRejection(t *testing.T) {
	fa := &fakeAnalyzer{words: map[string]morpho.WordInfo{
		"Praha": nounInfo("Praha", morpho.GenderFeminine),
	}}
	p := NewPipeline(
		testLanguage(),
		fa,
		filters.NewNamesFilter(&filters.Conf{Languages: []string{"de"}}),
		nil,
		&config.MatchingConf{},
	)
	res, err := p.Process(context.Background(), name.Name{Text: "Praha", Language: "cs", Kind: mustKind(t, "L")})
	assert.NoError(t, err)
	assert.True(t, res.Rejected)
	assert.Empty(t, res.Lines)
}

func TestPipelineWholeNamesOnly(t *testing.T) {
	// nominative only, the remaining six cases cannot be generated
	info := nounInfo("Praha", morpho.GenderFeminine)
	info.Analyses[0].Forms = info.Analyses[0].Forms[:1]
	fa := &fakeAnalyzer{words: map[string]morpho.WordInfo{"Praha": info}}

	p := testPipeline(fa, nil, &config.MatchingConf{WholeNamesOnly: true})
	res, err := p.Process(context.Background(), name.Name{Text: "Praha", Kind: mustKind(t, "L")})
	assert.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Empty(t, res.Lines)

	p = testPipeline(fa, nil, nil)
	res, err = p.Process(context.Background(), name.Name{Text: "Praha", Kind: mustKind(t, "L")})
	assert.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Len(t, res.Lines, 1)
}

func TestPipelineDerivedRecords(t *testing.T) {
	fa := &fakeAnalyzer{
		words: map[string]morpho.WordInfo{
			"Novák":    nounInfo("Novák", morpho.GenderMasculine),
			"Novákův":  nounInfo("Novákův", morpho.GenderMasculine),
			"Nováková": nounInfo("Nováková", morpho.GenderFeminine),
		},
		derived: map[string][]morpho.DerivedWord{
			"Novák": {
				{Word: "Novákův", Type: "1"},
				{Word: "Nováková", Type: "2", Note: "přechýlení"},
			},
		},
	}
	gen := generate.NewDerivedForms(&generate.Conf{}, fa, language.NewEquivalences(nil))
	p := testPipeline(fa, gen, nil)

	res, err := p.Process(context.Background(), name.Name{Text: "Novák", Kind: mustKind(t, "P:::M")})
	assert.NoError(t, err)
	assert.Len(t, res.Lines, 3)

	assert.True(t, strings.HasPrefix(res.Lines[1], "Novákův\t\tP:::M\t"))
	assert.True(t, strings.HasSuffix(res.Lines[1], "\t1"))
	assert.NotContains(t, res.Lines[1], "#", "derived records carry no word-role marks")

	// the feminine counterpart gets its gender guessed anew
	assert.True(t, strings.HasPrefix(res.Lines[2], "Nováková\t\tP:::F\t"))
	assert.True(t, strings.HasSuffix(res.Lines[2], "\t2#přechýlení"))
}

func TestPipelineGeneratedRecordsOnly(t *testing.T) {
	fa := &fakeAnalyzer{
		words: map[string]morpho.WordInfo{
			"Novák":   nounInfo("Novák", morpho.GenderMasculine),
			"Novákův": nounInfo("Novákův", morpho.GenderMasculine),
		},
		derived: map[string][]morpho.DerivedWord{
			"Novák": {{Word: "Novákův", Type: "1"}},
		},
	}
	gen := generate.NewDerivedForms(&generate.Conf{}, fa, language.NewEquivalences(nil))
	p := testPipeline(fa, gen, nil).GeneratedRecordsOnly()

	res, err := p.Process(context.Background(), name.Name{Text: "Novák", Kind: mustKind(t, "P:::M")})
	assert.NoError(t, err)
	assert.Len(t, res.Lines, 1)
	assert.True(t, strings.HasPrefix(res.Lines[0], "Novákův\t"))
}
