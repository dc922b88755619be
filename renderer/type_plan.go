package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/krona"
)

// PlanReport is the view of a mapping plan under review.
type PlanReport struct {
	Mapping   []PlanMapping    `json:"mapping"`
	Pending   []PlanSuggestion `json:"pending"`
	Conflicts []PlanConflict   `json:"conflicts"`
	Declined  []PlanSuggestion `json:"declined"`
}

// PlanMapping is an accepted raw symbol and where it finally resolves.
type PlanMapping struct {
	Symbol    string `json:"symbol"`
	Canonical string `json:"canonical"`
}

type PlanSuggestion struct {
	ID         string `json:"id"`
	Symbol     string `json:"symbol"`
	Canonical  string `json:"canonical"`
	Confidence string `json:"confidence"`
	Strategy   string `json:"strategy"`
	Rationale  string `json:"rationale"`
}

type PlanConflict struct {
	Symbol     string `json:"symbol"`
	Candidates string `json:"candidates"`
	Contenders string `json:"contenders"`
}

// NewPlanReport creates the view of plan.
func NewPlanReport(plan *krona.MappingPlan) *PlanReport {
	r := &PlanReport{
		Mapping:   make([]PlanMapping, 0),
		Pending:   make([]PlanSuggestion, 0),
		Conflicts: make([]PlanConflict, 0),
		Declined:  make([]PlanSuggestion, 0),
	}
	mapping := plan.Mapping()
	for _, symbol := range sortedKeys(mapping) {
		r.Mapping = append(r.Mapping, PlanMapping{Symbol: cell(symbol), Canonical: cell(plan.Canonicalize(symbol))})
	}
	for _, s := range plan.Pending() {
		r.Pending = append(r.Pending, newPlanSuggestion(s))
	}
	for _, s := range plan.Declined() {
		r.Declined = append(r.Declined, newPlanSuggestion(s))
	}
	for _, c := range plan.Conflicts() {
		candidates := make([]string, len(c.Candidates))
		for i, cd := range c.Candidates {
			candidates[i] = fmt.Sprintf("%s (%s)", cd.Canonical, percent(cd.Confidence))
		}
		r.Conflicts = append(r.Conflicts, PlanConflict{
			Symbol:     cell(c.Symbol),
			Candidates: cell(strings.Join(candidates, ", ")),
			Contenders: cell(strings.Join(c.Contenders, ", ")),
		})
	}
	return r
}

func newPlanSuggestion(s krona.Suggestion) PlanSuggestion {
	return PlanSuggestion{
		ID:         s.ShortID(),
		Symbol:     cell(s.Symbol),
		Canonical:  cell(s.Canonical),
		Confidence: percent(s.Confidence),
		Strategy:   s.Strategy,
		Rationale:  cell(s.Rationale),
	}
}

func percent(v float64) string { return fmt.Sprintf("%.0f%%", v*100) }
