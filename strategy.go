package krona

import (
	"fmt"
	"slices"
)

// Strategy proposes raw to canonical mappings for the symbols of a Universe.
//
// Strategies run in sequence. Each one receives the suggestions found by the
// strategies before it and returns its own, which lets a later strategy skip
// symbols an earlier one already resolved. A Strategy must be deterministic.
type Strategy interface {
	Name() string
	Suggest(u *Universe, found []Suggestion) []Suggestion
}

// Arbiter is a Strategy that also reports conflicts among suggestions.
//
// Conflicts receives every suggestion of the plan with its current status
// and returns the conflicts indexed by raw symbol.
type Arbiter interface {
	Strategy
	Conflicts(suggestions []Suggestion) map[string]Conflict
}

// MatchingOptions tune the default strategies.
type MatchingOptions struct {
	// MinConfidence is the lowest fuzzy score still reported as a suggestion.
	MinConfidence float64
	// ConflictEpsilon is the confidence gap under which two candidates are
	// considered equally likely.
	ConflictEpsilon float64
}

// DefaultMatchingOptions returns the options used when none are configured.
func DefaultMatchingOptions() MatchingOptions {
	return MatchingOptions{MinConfidence: 0.6, ConflictEpsilon: 0.05}
}

// DefaultStrategies returns the identity, fuzzy and conflict strategies, in
// that order.
func DefaultStrategies(opts MatchingOptions) []Strategy {
	return []Strategy{
		IdentityStrategy{},
		FuzzyMatchStrategy{MinConfidence: opts.MinConfidence},
		ConflictDetectionStrategy{Epsilon: opts.ConflictEpsilon},
	}
}

// IdentityStrategy groups symbols that share an ISIN, directly or through
// other symbols of the group. Each group elects its most descriptive symbol
// as canonical and every other member is mapped to it with full confidence.
type IdentityStrategy struct{}

func (IdentityStrategy) Name() string { return "identity" }

func (s IdentityStrategy) Suggest(u *Universe, _ []Suggestion) []Suggestion {
	parent := make(map[string]string)
	var root func(string) string
	root = func(x string) string {
		p, ok := parent[x]
		if !ok || p == x {
			return x
		}
		r := root(p)
		parent[x] = r
		return r
	}
	owner := make(map[string]string) // ISIN -> first symbol carrying it
	for o := range u.All() {
		for _, isin := range o.ISINs {
			first, ok := owner[isin]
			if !ok {
				owner[isin] = o.Symbol
				continue
			}
			if a, b := root(first), root(o.Symbol); a != b {
				// lexicographically smaller root keeps the runs deterministic.
				if b < a {
					a, b = b, a
				}
				parent[b] = a
			}
		}
	}

	groups := make(map[string][]Observation)
	var roots []string
	for o := range u.All() {
		r := root(o.Symbol)
		if _, ok := groups[r]; !ok {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], o)
	}

	var out []Suggestion
	for _, r := range roots {
		members := groups[r]
		if len(members) < 2 {
			continue
		}
		canonical := members[0]
		for _, m := range members[1:] {
			if moreDescriptive(m, canonical) {
				canonical = m
			}
		}
		for _, m := range members {
			if m.Symbol == canonical.Symbol {
				continue
			}
			isin := commonISIN(m, canonical)
			if isin == "" {
				// linked through another member.
				for _, other := range members {
					if other.Symbol != m.Symbol {
						if isin = commonISIN(m, other); isin != "" {
							break
						}
					}
				}
			}
			out = append(out, NewSuggestion(s.Name(), m.Symbol, canonical.Symbol, 1, fmt.Sprintf("shared ISIN %s", isin)))
		}
	}
	return out
}

func commonISIN(a, b Observation) string {
	for _, isin := range a.ISINs {
		if slices.Contains(b.ISINs, isin) {
			return isin
		}
	}
	return ""
}
