// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package morpho

import (
	"fmt"
	"strings"
)

// Case is one of the seven grammatical cases.
type Case int

const (
	Nominative   Case = 1
	Genitive     Case = 2
	Dative       Case = 3
	Accusative   Case = 4
	Vocative     Case = 5
	Locative     Case = 6
	Instrumental Case = 7

	NumCases = 7
)

func (c Case) Valid() bool {
	return c >= Nominative && c <= Instrumental
}

func (c Case) String() string {
	return fmt.Sprintf("c%d", int(c))
}

// AllCases lists the cases in their output order (1st to 7th).
func AllCases() []Case {
	return []Case{
		Nominative, Genitive, Dative, Accusative,
		Vocative, Locative, Instrumental,
	}
}

// POS is a word class in the lntrf encoding (k1 = noun, k2 = adjective, ...).
type POS byte

const (
	POSUnknown      POS = 0
	POSNoun         POS = '1'
	POSAdjective    POS = '2'
	POSPronoun      POS = '3'
	POSNumeral      POS = '4'
	POSVerb         POS = '5'
	POSAdverb       POS = '6'
	POSPreposition  POS = '7'
	POSConjunction  POS = '8'
	POSParticle     POS = '9'
	POSInterjection POS = '0'
	POSAbbreviation POS = 'A'
)

// Gender is a grammatical gender in the lntrf encoding.
type Gender byte

const (
	GenderNone      Gender = 0
	GenderMasculine Gender = 'M' // masculine animate
	GenderInanimate Gender = 'I' // masculine inanimate
	GenderFeminine  Gender = 'F'
	GenderNeuter    Gender = 'N'
)

// Valid tests whether g is one of the declared gender codes
// (the unset GenderNone does not qualify).
func (g Gender) Valid() bool {
	switch g {
	case GenderMasculine, GenderInanimate, GenderFeminine, GenderNeuter:
		return true
	}
	return false
}

// Number is a grammatical number in the lntrf encoding.
type Number byte

const (
	NumberNone     Number = 0
	NumberSingular Number = 'S'
	NumberPlural   Number = 'P'
	NumberDual     Number = 'D'
)

// Valid tests whether n is one of the declared number codes
// (the unset NumberNone does not qualify).
func (n Number) Valid() bool {
	switch n {
	case NumberSingular, NumberPlural, NumberDual:
		return true
	}
	return false
}

// Tag is a morphological tag in the lntrf encoding, e.g. k1gMnSc1.
// Absent categories are zero-valued and omitted on output. Analyzer
// notes (jG, jS, ...) are deliberately not part of the tag; they are
// kept separately on Analysis so that printed tags are note-free.
type Tag struct {
	POS    POS
	Gender Gender
	Number Number
	Case   Case
}

// ParseTag decodes an lntrf tag string. Category markers may come
// in any order; unknown markers are rejected.
func ParseTag(v string) (Tag, error) {
	var tag Tag
	rest := v
	for len(rest) > 0 {
		if len(rest) < 2 {
			return Tag{}, fmt.Errorf("truncated lntrf tag: %s", v)
		}
		marker, val := rest[0], rest[1]
		switch marker {
		case 'k':
			tag.POS = POS(val)
		case 'g':
			tag.Gender = Gender(val)
		case 'n':
			tag.Number = Number(val)
		case 'c':
			if val < '1' || val > '7' {
				return Tag{}, fmt.Errorf("invalid case in lntrf tag: %s", v)
			}
			tag.Case = Case(val - '0')
		default:
			return Tag{}, fmt.Errorf("unknown category %q in lntrf tag: %s", marker, v)
		}
		rest = rest[2:]
	}
	return tag, nil
}

func (t Tag) String() string {
	var sb strings.Builder
	if t.POS != POSUnknown {
		sb.WriteByte('k')
		sb.WriteByte(byte(t.POS))
	}
	if t.Gender != GenderNone {
		sb.WriteByte('g')
		sb.WriteByte(byte(t.Gender))
	}
	if t.Number != NumberNone {
		sb.WriteByte('n')
		sb.WriteByte(byte(t.Number))
	}
	if t.Case.Valid() {
		sb.WriteString(t.Case.String())
	}
	return sb.String()
}

// Matches tests whether the tag satisfies a constraint tag. Zero-valued
// categories of the constraint match anything.
func (t Tag) Matches(constraint Tag) bool {
	if constraint.POS != POSUnknown && t.POS != constraint.POS {
		return false
	}
	if constraint.Gender != GenderNone && t.Gender != constraint.Gender {
		return false
	}
	if constraint.Number != NumberNone && t.Number != constraint.Number {
		return false
	}
	if constraint.Case.Valid() && t.Case != constraint.Case {
		return false
	}
	return true
}

// MatchesIgnoringCase is like Matches with the constraint's case
// requirement dropped. Used when generating all seven case forms
// from an analysis selected for a specific case.
func (t Tag) MatchesIgnoringCase(constraint Tag) bool {
	constraint.Case = 0
	return t.Matches(constraint)
}
