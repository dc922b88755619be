package krona

import "fmt"

// FuzzyMatchStrategy pairs symbols whose names are similar, as scored by
// Similarity. Symbols already mapped by an earlier strategy are skipped, so
// only canonical symbols and unresolved ones are compared.
//
// In each pair the less descriptive symbol is mapped to the more descriptive
// one. Both sides carrying disjoint ISINs is the mark of an ISIN change after
// a corporate action, and the rationale says so.
type FuzzyMatchStrategy struct {
	MinConfidence float64
}

func (FuzzyMatchStrategy) Name() string { return "fuzzy" }

func (s FuzzyMatchStrategy) Suggest(u *Universe, found []Suggestion) []Suggestion {
	resolved := make(map[string]bool, len(found))
	for _, f := range found {
		resolved[f.Symbol] = true
	}
	var candidates []Observation
	for o := range u.All() {
		if !resolved[o.Symbol] {
			candidates = append(candidates, o)
		}
	}

	var out []Suggestion
	for i, a := range candidates {
		for _, b := range candidates[i+1:] {
			score := Similarity(a.Symbol, b.Symbol)
			if score <= 0 || score < s.MinConfidence {
				continue
			}
			raw, canonical := a, b
			if moreDescriptive(a, b) {
				raw, canonical = b, a
			}
			rationale := fmt.Sprintf("similar names (%.0f%%)", score*100)
			if sharesNoISIN(raw, canonical) {
				rationale = fmt.Sprintf("ISIN change on %s", canonical.FirstSeen)
			}
			out = append(out, NewSuggestion(s.Name(), raw.Symbol, canonical.Symbol, score, rationale))
		}
	}
	return out
}
