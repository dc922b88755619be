package renderer

import (
	"slices"
	"strings"

	"github.com/etnz/krona"
	"github.com/etnz/krona/date"
)

// HistoryReport is the view of a position history, with the raw broker
// symbol of every transaction for audit.
type HistoryReport struct {
	Symbol       string               `json:"symbol"`
	Status       krona.PositionStatus `json:"status"`
	Quantity     krona.Quantity       `json:"quantity"`
	Realized     krona.Money          `json:"realized"`
	Transactions []HistoryTransaction `json:"transactions"`
}

type HistoryTransaction struct {
	Date     date.Date      `json:"date"`
	Broker   string         `json:"broker"`
	Symbol   string         `json:"symbol"`
	Action   krona.Action   `json:"action"`
	Quantity krona.Quantity `json:"quantity"`
	Price    krona.Money    `json:"price"`
	Fees     krona.Money    `json:"fees"`
}

// NewHistoryReport creates the view of a position history.
func NewHistoryReport(p *krona.Position) *HistoryReport {
	r := &HistoryReport{
		Symbol:       cell(p.Symbol()),
		Status:       p.Status(),
		Quantity:     p.Quantity(),
		Realized:     p.RealizedPnL(),
		Transactions: make([]HistoryTransaction, 0, len(p.History())),
	}
	for _, tx := range p.History() {
		r.Transactions = append(r.Transactions, HistoryTransaction{
			Date:     tx.Date,
			Broker:   cell(tx.Broker),
			Symbol:   cell(tx.Symbol),
			Action:   tx.Action,
			Quantity: tx.Quantity,
			Price:    tx.Price,
			Fees:     tx.Fees,
		})
	}
	return r
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, strings.Compare)
	return keys
}
