// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package generate

import (
	"context"
	"unicode/utf8"

	"namegen/grammar"
	"namegen/name"
)

// AbbrevPrepositions produces an additional record with every mid-name
// preposition longer than one character abbreviated to its first
// letter plus a dot ("Nové Město na Moravě" -> "Nové Město n. Moravě").
type AbbrevPrepositions struct {
	allowedKinds []string
}

func NewAbbrevPrepositions(allowedKinds []string) *AbbrevPrepositions {
	return &AbbrevPrepositions{allowedKinds: allowedKinds}
}

func (g *AbbrevPrepositions) kindAllowed(rec name.Name) bool {
	for _, pattern := range g.allowedKinds {
		if rec.Kind.MatchesPattern(pattern) {
			return true
		}
	}
	return false
}

func abbreviate(form string) string {
	r, _ := utf8.DecodeRuneInString(form)
	return string(r) + "."
}

// eligible tests whether the word at a mid-name position is an
// abbreviatable preposition.
func eligible(wf name.WordForms, pos, numWords int) bool {
	return pos > 0 && pos < numWords-1 &&
		wf.Mark == grammar.MarkPrepos &&
		len(wf.Alternatives) > 0 &&
		utf8.RuneCountInString(wf.Alternatives[0].Form) > 1
}

func (g *AbbrevPrepositions) Generate(
	ctx context.Context,
	rec name.Name,
	d grammar.Derivation,
	separators []string,
	morphs []name.NameMorph,
) ([]Generated, error) {
	if len(morphs) == 0 || len(d.Bindings) <= 2 || !g.kindAllowed(rec) {
		return nil, nil
	}
	numWords := len(d.Bindings)
	hasPrep := false
	for i, wf := range morphs[0].Words {
		if eligible(wf, i, numWords) {
			hasPrep = true
			break
		}
	}
	if !hasPrep {
		return nil, nil
	}

	newWords := make([]string, numWords)
	for i, b := range d.Bindings {
		newWords[i] = b.Token.Word
	}
	newMorphs := make([]name.NameMorph, len(morphs))
	for mi, m := range morphs {
		words := make([]name.WordForms, len(m.Words))
		for i, wf := range m.Words {
			if !eligible(wf, i, numWords) {
				words[i] = wf
				continue
			}
			alts := make([]name.FormAlt, 0, len(wf.Alternatives))
			printed := make(map[string]bool)
			for _, alt := range wf.Alternatives {
				short := abbreviate(alt.Form)
				if printed[short] {
					continue
				}
				printed[short] = true
				alts = append(alts, name.FormAlt{Form: short, Tag: alt.Tag})
			}
			words[i] = name.WordForms{
				Alternatives:    alts,
				Mark:            grammar.MarkPreposAbbr,
				UnknownAnalysis: wf.UnknownAnalysis,
			}
			if mi == 0 {
				newWords[i] = alts[0].Form
			}
		}
		newMorphs[mi] = name.NameMorph{Case: m.Case, Words: words, Separators: m.Separators}
	}

	newRec := rec
	newRec.Text = rebuildText(newWords, separators)
	return []Generated{{Name: newRec, Morphs: newMorphs}}, nil
}
