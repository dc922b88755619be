package renderer

import (
	"github.com/etnz/krona"
	"github.com/etnz/krona/date"
)

// PortfolioReport is the view of a processing run.
// Numbers are kept as exact decimal types so that templates can use their
// renderers (String, SignedString).
type PortfolioReport struct {
	Positions []PortfolioPosition `json:"positions"`
	Totals    []PortfolioTotal    `json:"totals"`
	Failures  []PortfolioFailure  `json:"failures"`
	// Pending is the number of suggestions waiting for review.
	Pending int `json:"pending"`
	// Conflicts is the number of symbols with an ambiguous mapping.
	Conflicts int `json:"conflicts"`
}

// PortfolioPosition is one line of the positions table.
type PortfolioPosition struct {
	Symbol      string               `json:"symbol"`
	Status      krona.PositionStatus `json:"status"`
	Quantity    krona.Quantity       `json:"quantity"`
	AverageCost krona.Money          `json:"averageCost"`
	CostBasis   krona.Money          `json:"costBasis"`
	Realized    krona.Money          `json:"realized"`
	Dividends   krona.Money          `json:"dividends"`
	Fees        krona.Money          `json:"fees"`
	OpenedAt    date.Date            `json:"openedAt"`
	ClosedAt    date.Date            `json:"closedAt"`
}

// PortfolioTotal is the realized gain in one currency.
type PortfolioTotal struct {
	Currency string      `json:"currency"`
	Realized krona.Money `json:"realized"`
}

// PortfolioFailure is a transaction that could not be applied.
type PortfolioFailure struct {
	Index   int             `json:"index"`
	Symbol  string          `json:"symbol"`
	Date    date.Date       `json:"date"`
	Action  krona.Action    `json:"action"`
	Kind    krona.ErrorKind `json:"kind"`
	Message string          `json:"message"`
}

// NewPortfolioReport creates the view of a processing run.
func NewPortfolioReport(res *krona.Result) *PortfolioReport {
	r := &PortfolioReport{
		Positions: make([]PortfolioPosition, 0, res.Portfolio.Len()),
		Totals:    make([]PortfolioTotal, 0),
		Failures:  make([]PortfolioFailure, 0, len(res.Failures)),
		Pending:   len(res.Plan.Pending()),
		Conflicts: len(res.Plan.Conflicts()),
	}
	for symbol, p := range res.Portfolio.All() {
		if len(p.History()) == 0 {
			continue
		}
		r.Positions = append(r.Positions, PortfolioPosition{
			Symbol:      cell(symbol),
			Status:      p.Status(),
			Quantity:    p.Quantity(),
			AverageCost: p.AverageCost(),
			CostBasis:   p.CostBasis(),
			Realized:    p.RealizedPnL(),
			Dividends:   p.Dividends(),
			Fees:        p.Fees(),
			OpenedAt:    p.OpenedAt(),
			ClosedAt:    p.ClosedAt(),
		})
	}
	totals := res.Portfolio.RealizedPnL()
	for _, cur := range sortedKeys(totals) {
		r.Totals = append(r.Totals, PortfolioTotal{Currency: cur, Realized: totals[cur]})
	}
	for _, f := range res.Failures {
		r.Failures = append(r.Failures, PortfolioFailure{
			Index:   f.Index,
			Symbol:  cell(f.Symbol),
			Date:    f.Transaction.Date,
			Action:  f.Transaction.Action,
			Kind:    f.Kind(),
			Message: cell(f.Err.Error()),
		})
	}
	return r
}
