package krona

import (
	"iter"
	"maps"
	"slices"
)

// Portfolio holds one Position per canonical symbol.
type Portfolio struct {
	positions map[string]*Position
}

// NewPortfolio returns an empty portfolio.
func NewPortfolio() *Portfolio {
	return &Portfolio{positions: make(map[string]*Position)}
}

// position returns the position on symbol, creating it if needed.
func (pf *Portfolio) position(symbol string, method CostBasisMethod) *Position {
	p, ok := pf.positions[symbol]
	if !ok {
		p = NewPosition(symbol, method)
		pf.positions[symbol] = p
	}
	return p
}

// Position returns the position on a canonical symbol.
func (pf *Portfolio) Position(symbol string) (*Position, bool) {
	p, ok := pf.positions[symbol]
	return p, ok
}

// Len returns the number of positions.
func (pf *Portfolio) Len() int { return len(pf.positions) }

// Symbols returns the canonical symbols in lexicographic order.
func (pf *Portfolio) Symbols() []string { return slices.Sorted(maps.Keys(pf.positions)) }

// All iterates over positions in lexicographic symbol order.
func (pf *Portfolio) All() iter.Seq2[string, *Position] {
	return func(yield func(string, *Position) bool) {
		for _, s := range pf.Symbols() {
			if !yield(s, pf.positions[s]) {
				return
			}
		}
	}
}

// Open returns the open positions in lexicographic symbol order.
func (pf *Portfolio) Open() []*Position {
	var out []*Position
	for _, p := range pf.All() {
		if p.IsOpen() {
			out = append(out, p)
		}
	}
	return out
}

// RealizedPnL returns the realized gains of all positions, per currency.
func (pf *Portfolio) RealizedPnL() map[string]Money {
	totals := make(map[string]Money)
	for _, p := range pf.All() {
		if p.Currency() == "" {
			continue
		}
		totals[p.Currency()] = totals[p.Currency()].Add(p.RealizedPnL())
	}
	return totals
}
