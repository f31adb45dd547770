// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package grammar

import (
	"fmt"
	"os"
	"regexp"

	"namegen/morpho"

	"github.com/bytedance/sonic"
)

// WordClass identifies which kind of word token a terminal accepts.
// Morphological classes (noun, adjective, pronoun, numeral) are
// checked against the token's candidate analyses; lexical classes
// (roman, initial, title, number) are decided by the token classifier
// alone and carry no morphology.
type WordClass string

const (
	ClassNoun      WordClass = "noun"
	ClassAdjective WordClass = "adjective"
	ClassPronoun   WordClass = "pronoun"
	ClassNumeral   WordClass = "numeral"
	ClassRoman     WordClass = "roman"
	ClassInitial   WordClass = "initial"
	ClassTitle     WordClass = "title"
	ClassNumber    WordClass = "number"
)

// POS returns the lntrf word class required from a candidate analysis,
// or morpho.POSUnknown for lexical classes.
func (wc WordClass) POS() morpho.POS {
	switch wc {
	case ClassNoun:
		return morpho.POSNoun
	case ClassAdjective:
		return morpho.POSAdjective
	case ClassPronoun:
		return morpho.POSPronoun
	case ClassNumeral:
		return morpho.POSNumeral
	}
	return morpho.POSUnknown
}

// Morphological tests whether the class requires analyses to match.
func (wc WordClass) Morphological() bool {
	return wc.POS() != morpho.POSUnknown
}

func (wc WordClass) Valid() bool {
	switch wc {
	case ClassNoun, ClassAdjective, ClassPronoun, ClassNumeral,
		ClassRoman, ClassInitial, ClassTitle, ClassNumber:
		return true
	}
	return false
}

// Mark identifies the role of a word within a name. It is appended
// to every word in the generated case forms (after the '#' character)
// so downstream consumers can tell e.g. given names from surnames.
type Mark string

const (
	MarkGivenName  Mark = "G"
	MarkSurname    Mark = "S"
	MarkLocation   Mark = "L"
	MarkEvent      Mark = "E"
	MarkTitle      Mark = "T"
	MarkInitial    Mark = "I"
	MarkRoman      Mark = "R"
	MarkPrepos     Mark = "P"
	MarkPreposAbbr Mark = "7"
	MarkAlias      Mark = "A"
	MarkUnknown    Mark = "U"
)

func (m Mark) Valid() bool {
	switch m {
	case MarkGivenName, MarkSurname, MarkLocation, MarkEvent, MarkTitle,
		MarkInitial, MarkRoman, MarkPrepos, MarkPreposAbbr, MarkAlias, MarkUnknown:
		return true
	}
	return false
}

// Terminal is a grammar segment which must bind to a word token.
type Terminal struct {
	Class WordClass
	Mark  Mark

	// Constraint is the agreement requirement (gender/number/case)
	// a candidate analysis must satisfy. Its POS field is derived
	// from Class.
	Constraint morpho.Tag

	// Regex optionally restricts the surface text. It is the only
	// admissible check for tokens without analyses.
	Regex *regexp.Regexp

	// Priority ranks competing derivations; lower is preferred.
	Priority int

	// Inflect tells whether the bound word produces case forms.
	Inflect bool
}

// Literal is a grammar segment producing fixed, non-inflecting text.
// A word token binds to it by exact surface equality.
type Literal struct {
	Text string
	Mark Mark
}

// Segment is either a Terminal or a Literal, never both.
type Segment struct {
	Terminal *Terminal
	Literal  *Literal
}

// Production is an ordered sequence of segments. It matches a token
// sequence only when every word token aligns to exactly one segment,
// in order, with no gaps.
type Production struct {
	Name     string
	Segments []Segment
}

// Grammar holds all productions for one name kind. It is immutable
// after Load and safe for concurrent use.
type Grammar struct {
	// Flexible distinguishes inflecting grammars from ones for
	// non-inflecting languages where only the base form is wanted.
	Flexible bool

	Productions []Production
}

type terminalJSON struct {
	Class    string `json:"class"`
	Mark     string `json:"mark"`
	Gender   string `json:"gender"`
	Number   string `json:"number"`
	Case     int    `json:"case"`
	Regex    string `json:"regex"`
	Priority int    `json:"priority"`
	Inflect  *bool  `json:"inflect"`
}

type literalJSON struct {
	Text string `json:"text"`
	Mark string `json:"mark"`
}

type segmentJSON struct {
	Terminal *terminalJSON `json:"terminal"`
	Literal  *literalJSON  `json:"literal"`
}

type productionJSON struct {
	Name     string        `json:"name"`
	Segments []segmentJSON `json:"segments"`
}

type grammarJSON struct {
	Flexible    bool             `json:"flexible"`
	Productions []productionJSON `json:"productions"`
}

func compileTerminal(data *terminalJSON) (*Terminal, error) {
	class := WordClass(data.Class)
	if !class.Valid() {
		return nil, fmt.Errorf("unknown terminal class: %s", data.Class)
	}
	mark := Mark(data.Mark)
	if !mark.Valid() {
		return nil, fmt.Errorf("unknown terminal mark: %s", data.Mark)
	}
	term := &Terminal{
		Class:    class,
		Mark:     mark,
		Priority: data.Priority,
		Inflect:  class.Morphological(),
	}
	if data.Inflect != nil {
		term.Inflect = *data.Inflect
	}
	term.Constraint.POS = class.POS()
	if data.Gender != "" {
		g := morpho.Gender(data.Gender[0])
		if len(data.Gender) > 1 || !g.Valid() {
			return nil, fmt.Errorf("invalid terminal gender: %s", data.Gender)
		}
		term.Constraint.Gender = g
	}
	if data.Number != "" {
		n := morpho.Number(data.Number[0])
		if len(data.Number) > 1 || !n.Valid() {
			return nil, fmt.Errorf("invalid terminal number: %s", data.Number)
		}
		term.Constraint.Number = n
	}
	if data.Case != 0 {
		c := morpho.Case(data.Case)
		if !c.Valid() {
			return nil, fmt.Errorf("invalid terminal case: %d", data.Case)
		}
		term.Constraint.Case = c
	}
	if data.Regex != "" {
		rx, err := regexp.Compile("^(?:" + data.Regex + ")$")
		if err != nil {
			return nil, fmt.Errorf("invalid terminal regex: %w", err)
		}
		term.Regex = rx
	}
	return term, nil
}

func compile(data *grammarJSON) (*Grammar, error) {
	if len(data.Productions) == 0 {
		return nil, fmt.Errorf("grammar has no productions")
	}
	gr := &Grammar{
		Flexible:    data.Flexible,
		Productions: make([]Production, len(data.Productions)),
	}
	for i, pd := range data.Productions {
		if len(pd.Segments) == 0 {
			return nil, fmt.Errorf("production %d (%s) has no segments", i, pd.Name)
		}
		prod := Production{
			Name:     pd.Name,
			Segments: make([]Segment, len(pd.Segments)),
		}
		for j, sd := range pd.Segments {
			switch {
			case sd.Terminal != nil && sd.Literal != nil:
				return nil, fmt.Errorf(
					"production %d (%s), segment %d: both terminal and literal", i, pd.Name, j)
			case sd.Terminal != nil:
				term, err := compileTerminal(sd.Terminal)
				if err != nil {
					return nil, fmt.Errorf("production %d (%s), segment %d: %w", i, pd.Name, j, err)
				}
				prod.Segments[j] = Segment{Terminal: term}
			case sd.Literal != nil:
				if sd.Literal.Text == "" {
					return nil, fmt.Errorf(
						"production %d (%s), segment %d: empty literal", i, pd.Name, j)
				}
				mark := Mark(sd.Literal.Mark)
				if sd.Literal.Mark == "" {
					mark = MarkPrepos
				}
				if !mark.Valid() {
					return nil, fmt.Errorf(
						"production %d (%s), segment %d: unknown literal mark: %s",
						i, pd.Name, j, sd.Literal.Mark)
				}
				prod.Segments[j] = Segment{Literal: &Literal{Text: sd.Literal.Text, Mark: mark}}
			default:
				return nil, fmt.Errorf(
					"production %d (%s), segment %d: neither terminal nor literal", i, pd.Name, j)
			}
		}
		gr.Productions[i] = prod
	}
	return gr, nil
}

// Load reads and validates a grammar file. A malformed grammar is a
// configuration error; no partial load is ever returned.
func Load(path string) (*Grammar, error) {
	rawData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load grammar %s: %w", path, err)
	}
	var data grammarJSON
	if err := sonic.Unmarshal(rawData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse grammar %s: %w", path, err)
	}
	gr, err := compile(&data)
	if err != nil {
		return nil, fmt.Errorf("invalid grammar %s: %w", path, err)
	}
	return gr, nil
}
