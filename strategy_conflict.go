package krona

import (
	"cmp"
	"slices"
	"strings"
)

// ConflictDetectionStrategy proposes nothing. It reports the raw symbols
// whose mapping is ambiguous:
//
//   - the two best candidates of a symbol are within Epsilon of each other,
//   - or several raw symbols have an uncertain best candidate on the same
//     canonical with confidences within Epsilon of each other.
//
// Candidates are compared by the canonical they resolve to through the
// accepted mappings, so two candidates already mapped together count once.
// Declined suggestions are ignored and symbols with an accepted mapping are
// never in conflict.
type ConflictDetectionStrategy struct {
	Epsilon float64
}

func (ConflictDetectionStrategy) Name() string { return "conflict" }

func (ConflictDetectionStrategy) Suggest(*Universe, []Suggestion) []Suggestion { return nil }

func (s ConflictDetectionStrategy) Conflicts(suggestions []Suggestion) map[string]Conflict {
	mapping := make(map[string]string)
	for _, sg := range suggestions {
		if sg.Status == Accepted {
			mapping[sg.Symbol] = sg.Canonical
		}
	}
	resolve := func(symbol string) string {
		seen := map[string]bool{symbol: true}
		for {
			next, ok := mapping[symbol]
			if !ok || seen[next] {
				return symbol
			}
			seen[next] = true
			symbol = next
		}
	}

	// best candidate per canonical, for each raw symbol still open.
	candidates := make(map[string][]Candidate)
	var symbols []string
	for _, sg := range suggestions {
		if _, settled := mapping[sg.Symbol]; settled || sg.Status == Declined {
			continue
		}
		target := resolve(sg.Canonical)
		if target == sg.Symbol {
			continue
		}
		list, seen := candidates[sg.Symbol]
		if !seen {
			symbols = append(symbols, sg.Symbol)
		}
		if i := slices.IndexFunc(list, func(c Candidate) bool { return c.Canonical == target }); i >= 0 {
			list[i].Confidence = max(list[i].Confidence, sg.Confidence)
			continue
		}
		candidates[sg.Symbol] = append(list, Candidate{Canonical: target, Confidence: sg.Confidence})
	}
	slices.Sort(symbols)
	for _, list := range candidates {
		slices.SortFunc(list, func(a, b Candidate) int {
			if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
				return c
			}
			return strings.Compare(a.Canonical, b.Canonical)
		})
	}

	conflicts := make(map[string]Conflict)
	for _, symbol := range symbols {
		list := candidates[symbol]
		if len(list) >= 2 && s.close(list[0].Confidence, list[1].Confidence) {
			conflicts[symbol] = Conflict{Symbol: symbol, Candidates: list}
		}
	}

	type bid struct {
		symbol     string
		confidence float64
	}
	bids := make(map[string][]bid)
	var canonicals []string
	for _, symbol := range symbols {
		top := candidates[symbol][0]
		if top.Confidence >= 1 {
			continue
		}
		if _, ok := bids[top.Canonical]; !ok {
			canonicals = append(canonicals, top.Canonical)
		}
		bids[top.Canonical] = append(bids[top.Canonical], bid{symbol, top.Confidence})
	}
	for _, canonical := range canonicals {
		list := bids[canonical]
		if len(list) < 2 {
			continue
		}
		best := slices.MaxFunc(list, func(a, b bid) int { return cmp.Compare(a.confidence, b.confidence) }).confidence
		var rivals []string
		for _, b := range list {
			if s.close(best, b.confidence) {
				rivals = append(rivals, b.symbol)
			}
		}
		if len(rivals) < 2 {
			continue
		}
		for _, symbol := range rivals {
			c, ok := conflicts[symbol]
			if !ok {
				c = Conflict{Symbol: symbol, Candidates: candidates[symbol]}
			}
			for _, other := range rivals {
				if other != symbol && !slices.Contains(c.Contenders, other) {
					c.Contenders = append(c.Contenders, other)
				}
			}
			slices.Sort(c.Contenders)
			conflicts[symbol] = c
		}
	}
	return conflicts
}

// close reports whether two confidences are too near to pick one.
func (s ConflictDetectionStrategy) close(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d == 0 || d < s.Epsilon
}
