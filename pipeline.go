// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package main

import (
	"context"
	"strings"

	"namegen/common"
	"namegen/config"
	"namegen/filters"
	"namegen/generate"
	"namegen/grammar"
	"namegen/language"
	"namegen/morpho"
	"namegen/name"

	"github.com/rs/zerolog/log"
)

// femaleSurnameSuffixes are surname endings which identify a person
// record as female without consulting the grammars.
var femaleSurnameSuffixes = []string{"ová", "cká", "ská"}

// WordRole classifies one word of a matched name for the auxiliary
// word-list outputs of a batch run. Tag is the lntrf tag of the
// selected analysis (empty for words matched without one).
type WordRole struct {
	Word string
	Mark grammar.Mark
	Tag  string
}

// UnknownWord is a word the analyzer does not know, together with the
// record it appeared in.
type UnknownWord struct {
	Word   string
	Mark   grammar.Mark
	Record name.Name
}

// RecordResult is the outcome of processing one input record.
type RecordResult struct {

	// Lines holds the finished output records (the inflected input
	// record plus any generated ones)
	Lines []string

	// Words lists the word roles of all accepted derivations
	Words []WordRole

	// UnknownWords lists words the analyzer does not know, whether or
	// not the record matched
	UnknownWords []UnknownWord

	Matched  bool
	Rejected bool
	TimedOut bool
}

// Pipeline processes name records: morphological analysis, grammar
// matching, case-form generation and new-record generation. It is
// stateless apart from its (read-only) collaborators and safe for
// concurrent use.
type Pipeline struct {
	lang      *language.Language
	analyzer  morpho.Analyzer
	filter    *filters.NamesFilter
	generator generate.Generator
	matching  *config.MatchingConf

	// generatedOnly suppresses the source records so only generated
	// ones are emitted (the derivate action)
	generatedOnly bool
}

// GeneratedRecordsOnly makes the pipeline emit only records produced
// by its generators, not the inflected source records.
func (p *Pipeline) GeneratedRecordsOnly() *Pipeline {
	p.generatedOnly = true
	return p
}

func NewPipeline(
	lang *language.Language,
	analyzer morpho.Analyzer,
	filter *filters.NamesFilter,
	generator generate.Generator,
	matching *config.MatchingConf,
) *Pipeline {
	if generator == nil {
		generator = generate.Nope{}
	}
	return &Pipeline{
		lang:      lang,
		analyzer:  analyzer,
		filter:    filter,
		generator: generator,
		matching:  matching,
	}
}

// guessGender resolves the gender of an incomplete person record:
// first by typical female surname endings, then by trying both person
// grammars and accepting the gender if exactly one of them matches.
func (p *Pipeline) guessGender(tokens []grammar.Token) common.Gender {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Type != grammar.TokenWord {
			continue
		}
		for _, suffix := range femaleSurnameSuffixes {
			if strings.HasSuffix(tokens[i].Word, suffix) {
				return common.GenderFemale
			}
		}
		break
	}
	opts := p.lang.MatchOptions(p.matching.UnknownClasses())
	maleOK := len(p.lang.Male.Analyse(tokens, opts).Derivations) > 0
	femaleOK := len(p.lang.Female.Analyse(tokens, opts).Derivations) > 0
	if maleOK != femaleOK {
		if maleOK {
			return common.GenderMale
		}
		return common.GenderFemale
	}
	return common.GenderUnknown
}

// stripMarks removes the word-role tags from generated morphs. Records
// produced by derivation generation carry words whose roles no longer
// correspond to the original match.
func stripMarks(morphs []name.NameMorph) {
	for mi := range morphs {
		for wi := range morphs[mi].Words {
			morphs[mi].Words[wi].Mark = grammar.MarkUnknown
			morphs[mi].Words[wi].UnknownAnalysis = false
		}
	}
}

// Process runs one record through the whole pipeline. An error is
// returned only for malformed records; analysis failures and unmatched
// names produce a (possibly empty) result.
func (p *Pipeline) Process(ctx context.Context, rec name.Name) (RecordResult, error) {
	var res RecordResult
	if !p.filter.Accepts(rec.Text, rec.Language) {
		res.Rejected = true
		p.appendEmptyRecord(&res, rec)
		return res, nil
	}
	words, _ := grammar.SplitName(rec.Text)
	if len(words) == 0 {
		p.appendEmptyRecord(&res, rec)
		return res, nil
	}
	analyses, err := p.analyzer.Analyze(ctx, words)
	if err != nil {
		// partial analyses are still usable; unanalyzed words degrade
		// to unknown tokens
		log.Warn().Err(err).Str("name", rec.Text).Msg("analysis failed")
	}
	tokens, separators := p.lang.Lex.Tokens(rec.Text, analyses)

	kind := rec.Kind
	if kind.IsPerson() && !kind.IsComplete() {
		kind = kind.WithGender(p.guessGender(tokens))
	}
	gr, err := p.lang.GrammarFor(kind)
	if err != nil {
		collectUnknownTokens(&res, tokens, rec)
		p.appendEmptyRecord(&res, rec)
		return res, nil
	}

	match := gr.Analyse(tokens, p.lang.MatchOptions(p.matching.UnknownClasses()))
	res.TimedOut = match.TimedOut
	derivs := match.Derivations
	if p.matching.PriorityFiltration() {
		derivs = grammar.FilterByPriority(derivs)
	}

	emitted := make(map[string]bool)
	outRec := rec.WithKind(kind)
	for _, d := range derivs {
		morphs, _ := name.Morphs(d, separators, gr.Flexible)
		if len(morphs) == 0 {
			continue
		}
		if p.matching.WholeNamesOnly && gr.Flexible && len(morphs) < morpho.NumCases {
			continue
		}
		res.Matched = true
		for _, b := range d.Bindings {
			role := WordRole{Word: b.Token.Word, Mark: b.Mark()}
			if b.Analysis != nil {
				role.Tag = b.Analysis.Tag.String()
			}
			res.Words = append(res.Words, role)
			if b.Unknown {
				res.UnknownWords = append(res.UnknownWords, UnknownWord{
					Word:   b.Token.Word,
					Mark:   b.Mark(),
					Record: outRec,
				})
			}
		}
		if outRec.DerivType != "" {
			stripMarks(morphs)
		}
		if !p.generatedOnly {
			appendLine(&res.Lines, emitted, outRec.OutputRecord(name.JoinMorphs(morphs)))
		}

		generated, err := p.generator.Generate(ctx, outRec, d, separators, morphs)
		if err != nil {
			log.Warn().Err(err).Str("name", rec.Text).Msg("record generation failed")
		}
		for _, g := range generated {
			if g.Morphs != nil {
				appendLine(&res.Lines, emitted, g.Name.OutputRecord(name.JoinMorphs(g.Morphs)))
				continue
			}
			sub, err := p.processDerived(ctx, g.Name)
			if err != nil {
				log.Warn().Err(err).Str("name", g.Name.Text).Msg("failed to inflect generated record")
				continue
			}
			for _, line := range sub.Lines {
				appendLine(&res.Lines, emitted, line)
			}
			res.TimedOut = res.TimedOut || sub.TimedOut
		}
	}
	if !res.Matched {
		collectUnknownTokens(&res, tokens, rec)
		p.appendEmptyRecord(&res, rec)
	}
	return res, nil
}

// collectUnknownTokens reports unanalyzed words of a record which did
// not match; their role within the name is undetermined.
func collectUnknownTokens(res *RecordResult, tokens []grammar.Token, rec name.Name) {
	for _, t := range tokens {
		if t.Type == grammar.TokenWord && !t.Known() {
			res.UnknownWords = append(res.UnknownWords, UnknownWord{
				Word:   t.Word,
				Mark:   grammar.MarkUnknown,
				Record: rec,
			})
		}
	}
}

// processDerived inflects a record produced by derivation generation.
// The gender is guessed anew (a derived feminine surname no longer
// fits the source record's male grammar) and no further generation
// takes place.
func (p *Pipeline) processDerived(ctx context.Context, rec name.Name) (RecordResult, error) {
	sub := &Pipeline{
		lang:      p.lang,
		analyzer:  p.analyzer,
		filter:    p.filter,
		generator: generate.Nope{},
		matching:  p.matching,
	}
	if rec.Kind.IsPerson() {
		rec = rec.WithKind(rec.Kind.WithGender(common.GenderUnknown))
	}
	return sub.Process(ctx, rec)
}

func (p *Pipeline) appendEmptyRecord(res *RecordResult, rec name.Name) {
	if p.matching.IncludeNoMorphs && !p.generatedOnly {
		res.Lines = append(res.Lines, rec.OutputRecord(""))
	}
}

func appendLine(lines *[]string, emitted map[string]bool, line string) {
	if emitted[line] {
		return
	}
	emitted[line] = true
	*lines = append(*lines, line)
}
