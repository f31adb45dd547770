// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package grammar

// FilterByPriority prunes competing derivations position by position:
// at each word position only the derivations whose matched terminal
// carries the best (lowest) rank among the still surviving derivations
// are kept. The filter is idempotent and never empties a non-empty
// input; derivations of unequal length are left untouched by positions
// they do not have.
func FilterByPriority(derivs []Derivation) []Derivation {
	if len(derivs) < 2 {
		return derivs
	}
	maxLen := 0
	for _, d := range derivs {
		if len(d.Bindings) > maxLen {
			maxLen = len(d.Bindings)
		}
	}
	surviving := derivs
	for pos := 0; pos < maxLen; pos++ {
		best := 0
		found := false
		for _, d := range surviving {
			if pos >= len(d.Bindings) {
				continue
			}
			p := d.Bindings[pos].Priority()
			if !found || p < best {
				best = p
				found = true
			}
		}
		if !found {
			continue
		}
		kept := make([]Derivation, 0, len(surviving))
		for _, d := range surviving {
			if pos >= len(d.Bindings) || d.Bindings[pos].Priority() == best {
				kept = append(kept, d)
			}
		}
		surviving = kept
	}
	return surviving
}
