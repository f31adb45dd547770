// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"

	"namegen/grammar"
	"namegen/name"
)

// Conf configures the new-name generators applied to every
// successfully inflected record.
type Conf struct {

	// AbbrevPrepositions enables generation of additional records with
	// mid-name prepositions abbreviated ("na" -> "n.").
	AbbrevPrepositions bool `json:"abbrevPrepositions"`

	// AbbrevPrepositionsOn lists the kind patterns the preposition
	// abbreviation applies to (e.g. "L", "E", "M").
	AbbrevPrepositionsOn []string `json:"abbrevPrepositionsOn"`

	// DerivationTypes lists the allowed derivation-type codes for the
	// derivate action, optionally with a required note ("2#jméno
	// přechýlené"). Empty means all types are allowed.
	DerivationTypes []string `json:"derivationTypes"`

	// DerivationLemmaCapital requires derivation source lemmas to
	// start with an upper-case letter.
	DerivationLemmaCapital bool `json:"derivationLemmaCapital"`
}

func (conf *Conf) Validate(context string) error {
	for _, dt := range conf.DerivationTypes {
		if strings.TrimSpace(dt) == "" {
			return fmt.Errorf("%s.derivationTypes contains an empty item", context)
		}
	}
	return nil
}

// Generated is one record produced by a generator. When Morphs is nil
// the record carries no ready-made forms and must be inflected through
// the normal pipeline (derivation generation); otherwise the forms are
// complete (preposition abbreviation).
type Generated struct {
	Name   name.Name
	Morphs []name.NameMorph
}

// Generator derives additional name records from an inflected one.
type Generator interface {
	Generate(
		ctx context.Context,
		rec name.Name,
		d grammar.Derivation,
		separators []string,
		morphs []name.NameMorph,
	) ([]Generated, error)
}

// Nope generates nothing.
type Nope struct{}

func (Nope) Generate(
	ctx context.Context,
	rec name.Name,
	d grammar.Derivation,
	separators []string,
	morphs []name.NameMorph,
) ([]Generated, error) {
	return nil, nil
}

// Multi chains generators, concatenating their outputs.
type Multi []Generator

func (m Multi) Generate(
	ctx context.Context,
	rec name.Name,
	d grammar.Derivation,
	separators []string,
	morphs []name.NameMorph,
) ([]Generated, error) {
	var ans []Generated
	for _, g := range m {
		items, err := g.Generate(ctx, rec, d, separators, morphs)
		if err != nil {
			return ans, err
		}
		ans = append(ans, items...)
	}
	return ans, nil
}

// rebuildText joins words with their separators back into name text.
func rebuildText(words []string, separators []string) string {
	var sb strings.Builder
	for i, w := range words {
		sb.WriteString(w)
		if i < len(separators) {
			sb.WriteString(separators[i])
		}
	}
	return sb.String()
}
