// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package grammar

import (
	"errors"
	"strings"
	"time"

	"namegen/morpho"
)

// ErrNotInLanguage reports that no production of the grammar matches
// the token sequence.
var ErrNotInLanguage = errors.New("name not in language")

// Binding records which segment a word token matched and, for
// morphological terminals, which of the token's analyses was selected.
// Analysis is nil for literals, lexical terminals and unknown words.
type Binding struct {
	Token    Token
	Segment  *Segment
	Analysis *morpho.Analysis

	// Unknown is set when the token had no analyses and was admitted
	// through the unknown-word fallback.
	Unknown bool
}

// Mark returns the role mark of the matched segment.
func (b Binding) Mark() Mark {
	if b.Segment.Terminal != nil {
		return b.Segment.Terminal.Mark
	}
	return b.Segment.Literal.Mark
}

// Priority returns the matched terminal's rank (lower is preferred);
// literals rank 0.
func (b Binding) Priority() int {
	if b.Segment.Terminal != nil {
		return b.Segment.Terminal.Priority
	}
	return 0
}

// Derivation is one complete alignment of the token sequence with a
// production. Distinct analysis selections yield distinct derivations.
type Derivation struct {
	Production *Production
	Bindings   []Binding
}

// HasUnknown tests whether any word was admitted without analyses.
func (d Derivation) HasUnknown() bool {
	for _, b := range d.Bindings {
		if b.Unknown {
			return true
		}
	}
	return false
}

// signature identifies the derivation by its effective bindings,
// ignoring which production produced them. Two productions aligning
// the same analyses with the same marks describe the same reading.
func (d Derivation) signature() string {
	var sb strings.Builder
	for _, b := range d.Bindings {
		sb.WriteString(string(b.Mark()))
		sb.WriteByte(':')
		switch {
		case b.Analysis != nil:
			sb.WriteString(b.Analysis.Lemma)
			sb.WriteByte('|')
			sb.WriteString(b.Analysis.Tag.String())
			sb.WriteByte('|')
			sb.WriteString(b.Analysis.Paradigm)
		case b.Unknown:
			sb.WriteString("?" + b.Token.Word)
		default:
			sb.WriteString("=" + b.Token.Word)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// MatchOptions tunes a single matching run.
type MatchOptions struct {

	// Timeout limits the wall-clock time of the whole run; zero or
	// negative disables the limit. The deadline is sampled before
	// each production attempt, so a hit run still returns the
	// derivations found so far.
	Timeout time.Duration

	// UnknownClasses lists the terminal classes which may bind words
	// the analyzer does not know. Empty means no fallback at all.
	UnknownClasses []WordClass
}

func (opts MatchOptions) admitsUnknown(class WordClass) bool {
	for _, c := range opts.UnknownClasses {
		if c == class {
			return true
		}
	}
	return false
}

// Result is the outcome of matching one token sequence.
type Result struct {
	Derivations []Derivation
	TimedOut    bool
}

type candidate struct {
	analysis *morpho.Analysis
	unknown  bool
}

// candidatesFor lists the admissible ways a token can bind to a
// segment. An empty slice means the alignment fails at this position.
func candidatesFor(seg *Segment, token Token, opts MatchOptions) []candidate {
	if seg.Literal != nil {
		if token.Word == seg.Literal.Text {
			return []candidate{{}}
		}
		return nil
	}
	term := seg.Terminal
	if !term.Class.Morphological() {
		if token.Type.String() != string(term.Class) {
			return nil
		}
		if term.Regex != nil && !term.Regex.MatchString(token.Word) {
			return nil
		}
		return []candidate{{}}
	}
	if !token.Known() {
		if token.Type != TokenWord || !opts.admitsUnknown(term.Class) {
			return nil
		}
		if term.Regex != nil && !term.Regex.MatchString(token.Word) {
			return nil
		}
		return []candidate{{unknown: true}}
	}
	if token.Type != TokenWord {
		return nil
	}
	if term.Regex != nil && !term.Regex.MatchString(token.Word) {
		return nil
	}
	var cands []candidate
	for i := range token.Info.Analyses {
		a := &token.Info.Analyses[i]
		if a.Tag.Matches(term.Constraint) {
			cands = append(cands, candidate{analysis: a})
		}
	}
	return cands
}

// matchProduction enumerates all alignments of the tokens with one
// production using an explicit backtracking stack, appending each
// complete alignment through emit.
func matchProduction(prod *Production, tokens []Token, opts MatchOptions, emit func(Derivation)) {
	if len(prod.Segments) != len(tokens) {
		return
	}

	type frame struct {
		cands []candidate
		idx   int
	}
	stack := make([]frame, 0, len(tokens))

	push := func() bool {
		pos := len(stack)
		cands := candidatesFor(&prod.Segments[pos], tokens[pos], opts)
		if len(cands) == 0 {
			return false
		}
		stack = append(stack, frame{cands: cands})
		return true
	}

	if !push() {
		return
	}
	for len(stack) > 0 {
		if len(stack) == len(tokens) {
			bindings := make([]Binding, len(tokens))
			for pos := range stack {
				c := stack[pos].cands[stack[pos].idx]
				bindings[pos] = Binding{
					Token:    tokens[pos],
					Segment:  &prod.Segments[pos],
					Analysis: c.analysis,
					Unknown:  c.unknown,
				}
			}
			emit(Derivation{Production: prod, Bindings: bindings})

		} else if push() {
			continue
		}
		// backtrack to the deepest frame with an untried candidate
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			top.idx++
			if top.idx < len(top.cands) {
				break
			}
			stack = stack[:len(stack)-1]
		}
	}
}

// Analyse matches the token sequence against all productions of the
// grammar. Results are deterministic: derivations come in production
// order, duplicate readings produced by different productions are kept
// once (first wins), and whenever at least one derivation covers all
// words with real analyses, derivations relying on the unknown-word
// fallback are discarded.
func (gr *Grammar) Analyse(tokens []Token, opts MatchOptions) Result {
	var res Result
	if len(tokens) == 0 {
		return res
	}
	var deadline time.Time
	if opts.Timeout > 0 {
		deadline = time.Now().Add(opts.Timeout)
	}
	seen := make(map[string]bool)
	fullyAnalyzed := false
	for pi := range gr.Productions {
		if !deadline.IsZero() && time.Now().After(deadline) {
			res.TimedOut = true
			break
		}
		matchProduction(&gr.Productions[pi], tokens, opts, func(d Derivation) {
			sig := d.signature()
			if seen[sig] {
				return
			}
			seen[sig] = true
			if !d.HasUnknown() {
				fullyAnalyzed = true
			}
			res.Derivations = append(res.Derivations, d)
		})
	}
	if fullyAnalyzed {
		kept := res.Derivations[:0]
		for _, d := range res.Derivations {
			if !d.HasUnknown() {
				kept = append(kept, d)
			}
		}
		res.Derivations = kept
	}
	return res
}
