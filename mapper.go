package krona

import (
	"fmt"
	"slices"
)

// Mapper runs the strategies over a transaction list and keeps the resulting
// MappingPlan along with the decisions taken on it.
//
// Decisions survive a new BuildPlan: every accepted or declined pair of the
// previous plan is replayed onto the new one, even when no strategy proposes
// it anymore. Use Restore to seed a Mapper with decisions saved earlier.
//
// A Mapper is not safe for concurrent use.
type Mapper struct {
	strategies []Strategy
	plan       *MappingPlan
}

// NewMapper returns a Mapper running strategies in order. With no strategy,
// the DefaultStrategies are used.
func NewMapper(strategies ...Strategy) *Mapper {
	if len(strategies) == 0 {
		strategies = DefaultStrategies(DefaultMatchingOptions())
	}
	return &Mapper{strategies: strategies, plan: newPlan(nil)}
}

// Plan returns the current plan. It is never nil.
func (m *Mapper) Plan() *MappingPlan { return m.plan }

// BuildPlan runs every strategy over the symbols of txs and replaces the
// current plan with the result.
func (m *Mapper) BuildPlan(txs []Transaction) *MappingPlan {
	u := NewUniverse(txs)
	var found []Suggestion
	for _, s := range m.strategies {
		for _, sg := range s.Suggest(u, slices.Clone(found)) {
			if sg.Symbol == "" || sg.Canonical == "" || sg.Symbol == sg.Canonical {
				continue
			}
			sg.ID = SuggestionID(sg.Symbol, sg.Canonical)
			sg.Status = Pending
			found = merge(found, sg)
		}
	}

	plan := newPlan(found)
	for _, d := range m.plan.Decisions() {
		i := plan.find(d.Symbol, d.Canonical)
		if i < 0 {
			i = plan.insert(manualSuggestion(d.Symbol, d.Canonical))
		}
		plan.suggestions[i].Status = d.Status
		if d.Status == Accepted {
			plan.mapping[d.Symbol] = d.Canonical
		}
	}
	m.plan = plan
	m.detectConflicts()
	return plan
}

// merge adds sg to found, keeping only the most confident suggestion for a
// given pair. On equal confidence the earlier strategy wins.
func merge(found []Suggestion, sg Suggestion) []Suggestion {
	i := slices.IndexFunc(found, func(f Suggestion) bool { return f.Symbol == sg.Symbol && f.Canonical == sg.Canonical })
	switch {
	case i < 0:
		return append(found, sg)
	case sg.Confidence > found[i].Confidence:
		found[i] = sg
	}
	return found
}

func manualSuggestion(symbol, canonical string) Suggestion {
	return NewSuggestion(ManualStrategy, symbol, canonical, 1, "defined by user")
}

// detectConflicts recomputes the conflicts of the current plan.
func (m *Mapper) detectConflicts() {
	conflicts := make(map[string]Conflict)
	for _, s := range m.strategies {
		a, ok := s.(Arbiter)
		if !ok {
			continue
		}
		for symbol, c := range a.Conflicts(m.plan.Suggestions()) {
			if prev, ok := conflicts[symbol]; ok {
				for _, other := range c.Contenders {
					if !slices.Contains(prev.Contenders, other) {
						prev.Contenders = append(prev.Contenders, other)
					}
				}
				slices.Sort(prev.Contenders)
				c = prev
			}
			conflicts[symbol] = c
		}
	}
	m.plan.conflicts = conflicts
}

// Accept maps symbol to canonical. The pair must be a suggestion of the
// plan. Accepting the pair already accepted does nothing.
func (m *Mapper) Accept(symbol, canonical string) error {
	i := m.plan.find(symbol, canonical)
	if i < 0 {
		return fmt.Errorf("%w: %s -> %s", ErrUnknownSuggestion, symbol, canonical)
	}
	if err := m.canAccept(symbol, canonical); err != nil {
		return err
	}
	m.accept(i)
	return nil
}

func (m *Mapper) canAccept(symbol, canonical string) error {
	if current, ok := m.plan.Lookup(symbol); ok && current != canonical {
		return fmt.Errorf("%w: %s is already mapped to %s", ErrSuggestionFinalized, symbol, current)
	}
	if symbol == canonical || m.plan.reaches(canonical, symbol) {
		return fmt.Errorf("%w: %s -> %s leads back to %s", ErrCircularMapping, symbol, canonical, symbol)
	}
	return nil
}

func (m *Mapper) accept(i int) {
	sg := &m.plan.suggestions[i]
	sg.Status = Accepted
	m.plan.mapping[sg.Symbol] = sg.Canonical
	m.detectConflicts()
}

// Decline rejects the suggestion mapping symbol to canonical. The mapping is
// left unchanged; an accepted suggestion cannot be declined.
func (m *Mapper) Decline(symbol, canonical string) error {
	i := m.plan.find(symbol, canonical)
	if i < 0 {
		return fmt.Errorf("%w: %s -> %s", ErrUnknownSuggestion, symbol, canonical)
	}
	if m.plan.suggestions[i].Status == Accepted {
		return fmt.Errorf("%w: %s -> %s", ErrSuggestionFinalized, symbol, canonical)
	}
	m.plan.suggestions[i].Status = Declined
	m.detectConflicts()
	return nil
}

// ResolveConflict accepts canonical for symbol and declines every other
// pending suggestion for symbol.
func (m *Mapper) ResolveConflict(symbol, canonical string) error {
	if err := m.Accept(symbol, canonical); err != nil {
		return err
	}
	for i, sg := range m.plan.suggestions {
		if sg.Symbol == symbol && sg.Canonical != canonical && sg.Status == Pending {
			m.plan.suggestions[i].Status = Declined
		}
	}
	m.detectConflicts()
	return nil
}

// Map accepts a mapping from symbol to canonical whether or not a strategy
// proposed it.
func (m *Mapper) Map(symbol, canonical string) error {
	if m.plan.find(symbol, canonical) >= 0 {
		return m.Accept(symbol, canonical)
	}
	if err := m.canAccept(symbol, canonical); err != nil {
		return err
	}
	m.accept(m.plan.insert(manualSuggestion(symbol, canonical)))
	return nil
}

// AutoAccept accepts the best suggestion of every symbol that has no
// mapping and no conflict yet, provided it is pending, at least threshold
// confident and strictly better than the best suggestion leading elsewhere.
// Accepting a mapping can settle the conflict of another symbol, so symbols
// are visited again until nothing more is accepted. It returns the accepted
// suggestions.
func (m *Mapper) AutoAccept(threshold float64) []Suggestion {
	var accepted []Suggestion
	for {
		n := len(accepted)
		for _, symbol := range m.openSymbols() {
			if sg, ok := m.autoAccept(symbol, threshold); ok {
				accepted = append(accepted, sg)
			}
		}
		if len(accepted) == n {
			return accepted
		}
	}
}

func (m *Mapper) autoAccept(symbol string, threshold float64) (Suggestion, bool) {
	if _, conflicted := m.plan.Conflict(symbol); conflicted || m.plan.accepted(symbol) {
		return Suggestion{}, false
	}
	var active []Suggestion
	for _, sg := range m.plan.SuggestionsFor(symbol) {
		if sg.Status != Declined {
			active = append(active, sg)
		}
	}
	if len(active) == 0 {
		return Suggestion{}, false
	}
	top := active[0]
	if top.Status != Pending || top.Confidence < threshold {
		return Suggestion{}, false
	}
	target := m.plan.Canonicalize(top.Canonical)
	for _, other := range active[1:] {
		if m.plan.Canonicalize(other.Canonical) != target && other.Confidence >= top.Confidence {
			return Suggestion{}, false
		}
	}
	if err := m.Accept(top.Symbol, top.Canonical); err != nil {
		return Suggestion{}, false // would close a cycle, left for review
	}
	top.Status = Accepted
	return top, true
}

// openSymbols returns the raw symbols of the plan without a mapping.
func (m *Mapper) openSymbols() []string {
	var out []string
	for _, sg := range m.plan.suggestions {
		if !m.plan.accepted(sg.Symbol) && !slices.Contains(out, sg.Symbol) {
			out = append(out, sg.Symbol)
		}
	}
	return out
}

// Canonicalize returns the canonical symbol for a raw symbol under the
// current plan.
func (m *Mapper) Canonicalize(symbol string) string { return m.plan.Canonicalize(symbol) }

// Restore replaces the current plan with the given decisions, typically
// loaded with LoadMappings. They are replayed onto the next BuildPlan.
func (m *Mapper) Restore(decisions []Decision) error {
	saved := m.plan
	m.plan = newPlan(nil)
	for _, d := range decisions {
		var err error
		switch d.Status {
		case Accepted:
			err = m.Map(d.Symbol, d.Canonical)
		case Declined:
			if m.plan.find(d.Symbol, d.Canonical) < 0 {
				m.plan.insert(manualSuggestion(d.Symbol, d.Canonical))
			}
			err = m.Decline(d.Symbol, d.Canonical)
		default:
			err = fmt.Errorf("decision %s -> %s has status %q", d.Symbol, d.Canonical, d.Status)
		}
		if err != nil {
			m.plan = saved
			return err
		}
	}
	return nil
}
