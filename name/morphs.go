// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package name

import (
	"strings"

	"namegen/grammar"
	"namegen/morpho"
)

// zero-width space; marks a word boundary which had no separator
// character in the original text (e.g. a digit/letter boundary)
const emptySeparator = "\u200b"

// unknownAnalysisFlag is appended to the word-type tag of words which
// passed through the matching without any morphological analysis.
const unknownAnalysisFlag = "E"

// FormAlt is one alternative form of a word for one case. Tag is nil
// for words emitted verbatim (literals, lexical tokens, unknowns).
type FormAlt struct {
	Form string
	Tag  *morpho.Tag
}

// WordForms groups the alternative forms of one word for one case.
type WordForms struct {
	Alternatives    []FormAlt
	Mark            grammar.Mark
	UnknownAnalysis bool
}

func (wf WordForms) writeTo(sb *strings.Builder) {
	tag := ""
	if wf.Mark != grammar.MarkUnknown {
		tag = "#" + string(wf.Mark)
		if wf.UnknownAnalysis {
			tag += unknownAnalysisFlag
		}
	}
	for i, alt := range wf.Alternatives {
		if i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(alt.Form)
		if alt.Tag != nil {
			sb.WriteByte('[')
			sb.WriteString(alt.Tag.String())
			sb.WriteByte(']')
		}
		sb.WriteString(tag)
	}
}

// NameMorph is the inflected form of a whole name for one case.
type NameMorph struct {
	Case       morpho.Case
	Words      []WordForms
	Separators []string
}

// String renders the case form: word alternatives joined by '/', each
// tagged `[lntrf]#Mark`, separators reproduced verbatim with the
// zero-width space standing in for empty ones.
func (nm NameMorph) String() string {
	var sb strings.Builder
	for i, wf := range nm.Words {
		wf.writeTo(&sb)
		if i < len(nm.Separators) {
			if sep := nm.Separators[i]; sep != "" {
				sb.WriteString(sep)
			} else {
				sb.WriteString(emptySeparator)
			}
		}
	}
	return sb.String()
}

// MissingCase reports a word for which no form in some case could be
// generated (the whole case form is then left out).
type MissingCase struct {
	Word string
	Case morpho.Case
	Mark grammar.Mark
}

// inflectedForms lists the paradigm forms usable for the bound word:
// all forms agreeing with the selected analysis in everything but case.
// Order follows the paradigm, which keeps the output deterministic.
func inflectedForms(b grammar.Binding) []morpho.TaggedForm {
	ans := make([]morpho.TaggedForm, 0, len(b.Analysis.Forms))
	for _, f := range b.Analysis.Forms {
		if f.Tag.MatchesIgnoringCase(b.Analysis.Tag) {
			ans = append(ans, f)
		}
	}
	return ans
}

func inflects(b grammar.Binding) bool {
	return b.Segment.Terminal != nil && b.Segment.Terminal.Inflect && b.Analysis != nil
}

// Morphs generates the case forms of one derivation. With a flexible
// grammar it attempts all seven cases and keeps those for which every
// word has at least one form; a non-flexible grammar produces the
// nominative only. The second return value lists the (word, case)
// pairs which prevented a case from being generated.
func Morphs(d grammar.Derivation, separators []string, flexible bool) ([]NameMorph, []MissingCase) {
	wordForms := make([][]morpho.TaggedForm, len(d.Bindings))
	for i, b := range d.Bindings {
		if inflects(b) {
			wordForms[i] = inflectedForms(b)
		}
	}

	cases := morpho.AllCases()
	if !flexible {
		cases = cases[:1]
	}

	var morphs []NameMorph
	var missing []MissingCase
	for _, c := range cases {
		words := make([]WordForms, 0, len(d.Bindings))
		complete := true
		for i, b := range d.Bindings {
			if !inflects(b) {
				words = append(words, WordForms{
					Alternatives:    []FormAlt{{Form: b.Token.Word}},
					Mark:            b.Mark(),
					UnknownAnalysis: b.Unknown,
				})
				continue
			}
			wf := WordForms{Mark: b.Mark()}
			printed := make(map[string]bool)
			for fi := range wordForms[i] {
				f := &wordForms[i][fi]
				if f.Tag.Case != c {
					continue
				}
				// tags are printed without analyzer notes, so distinct
				// paradigm entries may render identically
				key := f.Form + "[" + f.Tag.String() + "]"
				if printed[key] {
					continue
				}
				printed[key] = true
				wf.Alternatives = append(wf.Alternatives, FormAlt{Form: f.Form, Tag: &f.Tag})
			}
			if len(wf.Alternatives) == 0 {
				missing = append(missing, MissingCase{Word: b.Token.Word, Case: c, Mark: b.Mark()})
				complete = false
				continue
			}
			words = append(words, wf)
		}
		if complete {
			morphs = append(morphs, NameMorph{Case: c, Words: words, Separators: separators})
		}
	}
	if !flexible {
		missing = nil
	}
	return morphs, missing
}

// JoinMorphs renders the output forms field: case forms joined by '|'.
func JoinMorphs(morphs []NameMorph) string {
	ans := make([]string, len(morphs))
	for i, m := range morphs {
		ans[i] = m.String()
	}
	return strings.Join(ans, "|")
}
