// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package common

import (
	"fmt"
	"strings"
)

// MainType is the top-level class of a name.
type MainType string

const (
	MainTypePerson   MainType = "P"
	MainTypeLocation MainType = "L"
	MainTypeEvent    MainType = "E"
)

// Gender is a person's grammatical gender as encoded in a kind code.
type Gender string

const (
	GenderMale    Gender = "M"
	GenderFemale  Gender = "F"
	GenderUnknown Gender = ""
)

const (
	kindLevelMainType = 0
	kindLevelGender   = 3
	numKindLevels     = 4
)

// NameKind is a parsed kind code as found in the third input column.
// Location and event names use a plain "L" / "E" code, person names
// use the four-level format
// <P>:<subtype F/G>:<reserved>:<gender F/M>, e.g. "P:::M".
// Levels other than the main type and the gender are kept verbatim
// for output but are not interpreted.
type NameKind struct {
	levels []string
}

// ParseNameKind validates and parses a kind code.
func ParseNameKind(v string) (NameKind, error) {
	levels := strings.Split(v, ":")
	switch MainType(levels[kindLevelMainType]) {
	case MainTypeLocation, MainTypeEvent:
		if len(levels) != 1 {
			return NameKind{}, fmt.Errorf("invalid kind code: %s", v)
		}
	case MainTypePerson:
		if len(levels) != numKindLevels {
			return NameKind{}, fmt.Errorf("invalid kind code: %s", v)
		}
		switch Gender(levels[kindLevelGender]) {
		case GenderMale, GenderFemale, GenderUnknown:
		default:
			return NameKind{}, fmt.Errorf("invalid gender in kind code: %s", v)
		}
	default:
		return NameKind{}, fmt.Errorf("unknown kind code: %s", v)
	}
	return NameKind{levels: levels}, nil
}

func (k NameKind) MainType() MainType {
	if k.IsZero() {
		return ""
	}
	return MainType(k.levels[kindLevelMainType])
}

func (k NameKind) IsPerson() bool {
	return k.MainType() == MainTypePerson
}

// Gender returns the person's gender. For non-person kinds it
// is always GenderUnknown.
func (k NameKind) Gender() Gender {
	if !k.IsPerson() || len(k.levels) <= kindLevelGender {
		return GenderUnknown
	}
	return Gender(k.levels[kindLevelGender])
}

// IsComplete tests whether the kind carries enough information to
// select a grammar (i.e. person kinds must have a gender).
func (k NameKind) IsComplete() bool {
	if k.IsZero() {
		return false
	}
	return !k.IsPerson() || k.Gender() != GenderUnknown
}

// WithGender returns a copy of the kind with the gender level replaced.
func (k NameKind) WithGender(g Gender) NameKind {
	levels := make([]string, numKindLevels)
	copy(levels, k.levels)
	levels[kindLevelGender] = string(g)
	return NameKind{levels: levels}
}

// PersonKind creates a person kind with the provided gender.
func PersonKind(g Gender) NameKind {
	return NameKind{levels: []string{string(MainTypePerson), "", "", string(g)}}
}

// MatchesPattern tests the kind against an allow-list entry. Besides
// the full kind code, the patterns "P" (any person) and "M"/"F"
// (person of the given gender) are understood.
func (k NameKind) MatchesPattern(pattern string) bool {
	if k.IsZero() {
		return false
	}
	switch pattern {
	case string(MainTypePerson):
		return k.IsPerson()
	case string(GenderMale), string(GenderFemale):
		return k.IsPerson() && k.Gender() == Gender(pattern)
	}
	return k.String() == pattern
}

func (k NameKind) IsZero() bool {
	return len(k.levels) == 0
}

func (k NameKind) String() string {
	return strings.Join(k.levels, ":")
}
