package krona

import (
	"maps"
	"slices"
	"strings"
)

// MappingPlan is the outcome of a mapper run: the suggestions of every
// strategy, the accepted mapping from raw to canonical symbols, and the
// conflicts that need a human decision.
//
// A plan is only modified through its Mapper. Use Clone to keep a snapshot
// that later reviews will not touch.
type MappingPlan struct {
	mapping     map[string]string
	suggestions []Suggestion // sorted with compareSuggestions
	conflicts   map[string]Conflict
}

func newPlan(suggestions []Suggestion) *MappingPlan {
	slices.SortStableFunc(suggestions, compareSuggestions)
	return &MappingPlan{
		mapping:     make(map[string]string),
		suggestions: suggestions,
		conflicts:   make(map[string]Conflict),
	}
}

// Mapping returns a copy of the accepted raw to canonical mapping.
func (p *MappingPlan) Mapping() map[string]string { return maps.Clone(p.mapping) }

// Lookup returns the canonical symbol symbol was directly mapped to.
func (p *MappingPlan) Lookup(symbol string) (string, bool) {
	c, ok := p.mapping[symbol]
	return c, ok
}

// Canonicalize returns the canonical symbol of a raw symbol, following
// chained mappings. Unmapped symbols are their own canonical.
func (p *MappingPlan) Canonicalize(symbol string) string {
	seen := map[string]bool{symbol: true}
	for {
		next, ok := p.mapping[symbol]
		if !ok || seen[next] {
			return symbol
		}
		seen[next] = true
		symbol = next
	}
}

// reaches reports whether following the mapping from symbol leads to target.
func (p *MappingPlan) reaches(symbol, target string) bool {
	seen := make(map[string]bool)
	for !seen[symbol] {
		if symbol == target {
			return true
		}
		seen[symbol] = true
		next, ok := p.mapping[symbol]
		if !ok {
			return false
		}
		symbol = next
	}
	return false
}

// Suggestions returns all suggestions, ordered by raw symbol then by
// decreasing confidence.
func (p *MappingPlan) Suggestions() []Suggestion { return slices.Clone(p.suggestions) }

// SuggestionsFor returns the suggestions for a raw symbol, best first.
func (p *MappingPlan) SuggestionsFor(symbol string) []Suggestion {
	var out []Suggestion
	for _, s := range p.suggestions {
		if s.Symbol == symbol {
			out = append(out, s)
		}
	}
	return out
}

// Pending returns suggestions still waiting for a decision.
func (p *MappingPlan) Pending() []Suggestion { return p.withStatus(Pending) }

// Accepted returns suggestions that made it into the mapping.
func (p *MappingPlan) Accepted() []Suggestion { return p.withStatus(Accepted) }

// Declined returns rejected suggestions.
func (p *MappingPlan) Declined() []Suggestion { return p.withStatus(Declined) }

func (p *MappingPlan) withStatus(status SuggestionStatus) []Suggestion {
	var out []Suggestion
	for _, s := range p.suggestions {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out
}

// Suggestion finds a suggestion by ID. The id can also be the ShortID.
func (p *MappingPlan) Suggestion(id string) (Suggestion, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return Suggestion{}, false
	}
	for _, s := range p.suggestions {
		if s.ID.String() == id || s.ShortID() == id {
			return s, true
		}
	}
	return Suggestion{}, false
}

// Conflicts returns the conflicts ordered by raw symbol.
func (p *MappingPlan) Conflicts() []Conflict {
	out := make([]Conflict, 0, len(p.conflicts))
	for _, symbol := range slices.Sorted(maps.Keys(p.conflicts)) {
		out = append(out, p.conflicts[symbol])
	}
	return out
}

// Conflict returns the conflict reported for symbol, if any.
func (p *MappingPlan) Conflict(symbol string) (Conflict, bool) {
	c, ok := p.conflicts[symbol]
	return c, ok
}

// Decisions returns the accepted and declined pairs, sorted by symbol then
// canonical.
func (p *MappingPlan) Decisions() []Decision {
	var out []Decision
	for _, s := range p.suggestions {
		if s.Status == Accepted || s.Status == Declined {
			out = append(out, Decision{Symbol: s.Symbol, Canonical: s.Canonical, Status: s.Status})
		}
	}
	slices.SortFunc(out, compareDecisions)
	return out
}

// Clone returns a deep copy of the plan.
func (p *MappingPlan) Clone() *MappingPlan {
	conflicts := make(map[string]Conflict, len(p.conflicts))
	for k, c := range p.conflicts {
		c.Candidates = slices.Clone(c.Candidates)
		c.Contenders = slices.Clone(c.Contenders)
		conflicts[k] = c
	}
	return &MappingPlan{
		mapping:     maps.Clone(p.mapping),
		suggestions: slices.Clone(p.suggestions),
		conflicts:   conflicts,
	}
}

// find returns the index of the (symbol, canonical) suggestion or -1.
func (p *MappingPlan) find(symbol, canonical string) int {
	return slices.IndexFunc(p.suggestions, func(s Suggestion) bool {
		return s.Symbol == symbol && s.Canonical == canonical
	})
}

// insert adds s at its sorted position and returns its index.
func (p *MappingPlan) insert(s Suggestion) int {
	i, _ := slices.BinarySearchFunc(p.suggestions, s, compareSuggestions)
	// land after equal elements to keep insertion order among them.
	for i < len(p.suggestions) && compareSuggestions(p.suggestions[i], s) == 0 {
		i++
	}
	p.suggestions = slices.Insert(p.suggestions, i, s)
	return i
}

// accepted reports whether symbol already has an accepted mapping.
func (p *MappingPlan) accepted(symbol string) bool {
	_, ok := p.mapping[symbol]
	return ok
}
