// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package generate

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"namegen/grammar"
	"namegen/language"
	"namegen/morpho"
	"namegen/name"

	"github.com/rs/zerolog/log"
)

// DerivedForms produces new person-name records from words derived by
// the morphological analyzer (possessive adjectives, feminine
// counterparts, ...): "Masaryk" -> "Masarykův", "Masaryková". The
// produced records carry no forms; they are inflected through the
// normal pipeline. Only single-word names are expanded (one countable
// word; titles, initials and roman numerals do not count).
type DerivedForms struct {
	analyzer     morpho.Analyzer
	equivalences *language.Equivalences

	// allowed maps a derivation-type code to a required note (empty =
	// any note); nil admits all types
	allowed      map[string]string
	lemmaCapital bool
}

func NewDerivedForms(
	conf *Conf,
	analyzer morpho.Analyzer,
	equivalences *language.Equivalences,
) *DerivedForms {
	ans := &DerivedForms{
		analyzer:     analyzer,
		equivalences: equivalences,
		lemmaCapital: conf.DerivationLemmaCapital,
	}
	if len(conf.DerivationTypes) > 0 {
		ans.allowed = make(map[string]string)
		for _, dt := range conf.DerivationTypes {
			code, note, _ := strings.Cut(dt, "#")
			ans.allowed[code] = note
		}
	}
	return ans
}

func (g *DerivedForms) typeAllowed(dw morpho.DerivedWord) bool {
	if g.allowed == nil {
		return true
	}
	note, ok := g.allowed[dw.Type]
	return ok && (note == "" || note == dw.Note)
}

func countable(mark grammar.Mark) bool {
	switch mark {
	case grammar.MarkGivenName, grammar.MarkSurname, grammar.MarkLocation,
		grammar.MarkEvent, grammar.MarkAlias, grammar.MarkUnknown:
		return true
	}
	return false
}

func firstUpper(v string) bool {
	r, _ := utf8.DecodeRuneInString(v)
	return unicode.IsUpper(r)
}

func (g *DerivedForms) Generate(
	ctx context.Context,
	rec name.Name,
	d grammar.Derivation,
	separators []string,
	morphs []name.NameMorph,
) ([]Generated, error) {
	if !rec.Kind.IsPerson() {
		return nil, nil
	}
	srcIdx := -1
	for i, b := range d.Bindings {
		if countable(b.Mark()) {
			if srcIdx != -1 {
				// multi-word names are not expanded
				return nil, nil
			}
			srcIdx = i
		}
	}
	if srcIdx == -1 {
		return nil, nil
	}
	srcWord := d.Bindings[srcIdx].Token.Word

	var ans []Generated
	seen := make(map[string]bool)
	for _, member := range g.equivalences.ClassOf(srcWord) {
		if g.lemmaCapital && !firstUpper(member) {
			continue
		}
		derived, err := g.analyzer.Derivations(ctx, member)
		if err != nil {
			log.Warn().Err(err).Str("lemma", member).Msg("failed to obtain derived words")
			continue
		}
		for _, dw := range derived {
			if !g.typeAllowed(dw) {
				continue
			}
			derivType := dw.Type
			if dw.Note != "" {
				derivType += "#" + dw.Note
			}
			key := dw.Word + "\t" + derivType
			if seen[key] {
				continue
			}
			seen[key] = true

			words := make([]string, len(d.Bindings))
			for i, b := range d.Bindings {
				words[i] = b.Token.Word
			}
			words[srcIdx] = dw.Word

			newRec := rec
			newRec.Text = rebuildText(words, separators)
			newRec.DerivType = derivType
			ans = append(ans, Generated{Name: newRec})
		}
	}
	return ans, nil
}
