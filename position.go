package krona

import (
	"fmt"
	"slices"

	"github.com/etnz/krona/date"
)

// PositionStatus is the state of a Position.
type PositionStatus string

const (
	Open   PositionStatus = "open"
	Closed PositionStatus = "closed"
)

// Position is the holding of one instrument, identified by its canonical
// symbol, across its whole lifetime.
//
// A new position is Closed with zero quantity. A buy opens it, a sell of the
// whole quantity closes it, and a later buy reopens it with a fresh cost
// basis while the realized gains carry forward.
//
// Apply is the only way to change a position.
type Position struct {
	symbol   string
	method   CostBasisMethod
	currency string
	status   PositionStatus
	quantity Quantity
	cost     Money        // of the held quantity, fees included
	average  Money        // kept after a close
	lots     lots         // FIFO only
	split    *Transaction // first leg of a split, waiting for the second
	realized Money
	dividend Money
	fees     Money
	history  []Transaction
	openedAt date.Date
	closedAt date.Date
}

// NewPosition returns an empty position on symbol.
func NewPosition(symbol string, method CostBasisMethod) *Position {
	return &Position{symbol: symbol, method: method, status: Closed}
}

func (p *Position) Symbol() string          { return p.symbol }
func (p *Position) Method() CostBasisMethod { return p.method }
func (p *Position) Status() PositionStatus  { return p.status }
func (p *Position) IsOpen() bool            { return p.status == Open }
func (p *Position) Quantity() Quantity      { return p.quantity }

// Currency returns the currency of the position, set by its first
// transaction.
func (p *Position) Currency() string { return p.currency }

// AverageCost returns the cost per held unit, fees included.
func (p *Position) AverageCost() Money { return p.average.In(p.currency) }

// RealizedPnL returns the gains crystallized over the whole lifetime of the
// position: sells, dividends and fees.
func (p *Position) RealizedPnL() Money { return p.realized.In(p.currency) }

// Dividends returns the total dividends received, net of their fees.
func (p *Position) Dividends() Money { return p.dividend.In(p.currency) }

// Fees returns all fees paid, whatever the transaction.
func (p *Position) Fees() Money { return p.fees.In(p.currency) }

// OpenedAt returns the date of the buy that last opened the position.
func (p *Position) OpenedAt() date.Date { return p.openedAt }

// ClosedAt returns the date the position was last closed, or the zero date
// while it is open.
func (p *Position) ClosedAt() date.Date { return p.closedAt }

// History returns the applied transactions, in order.
func (p *Position) History() []Transaction { return slices.Clone(p.history) }

// CostBasis returns what the held quantity cost.
func (p *Position) CostBasis() Money { return p.cost.In(p.currency) }

// PendingSplit returns the first leg of a split whose second leg has not
// been applied yet.
func (p *Position) PendingSplit() (Transaction, bool) {
	if p.split == nil {
		return Transaction{}, false
	}
	return *p.split, true
}

// UnrealizedPnL returns the gain if the held quantity were sold at price.
func (p *Position) UnrealizedPnL(price Money) Money {
	return price.Mul(p.quantity).Sub(p.CostBasis())
}

// Apply folds tx into the position. A rejected transaction leaves the
// position untouched and is not recorded in the history.
//
// Transactions must come in chronological order and pass Validate. Selling
// more than is held fails with ErrInsufficientQuantity, selling or splitting a
// closed position or mixing currencies fails with
// ErrInvalidTransactionForState.
//
// A split comes as two transactions, the quantity moved out and the quantity
// moved in. The first is only recorded; the second scales the held quantity
// by their ratio and keeps the cost basis.
func (p *Position) Apply(tx Transaction) error {
	if n := len(p.history); n > 0 && tx.Date.Before(p.history[n-1].Date) {
		return fmt.Errorf("%w: %s on %s comes after %s", ErrOutOfOrderTransaction, tx.Action, tx.Date, p.history[n-1].Date)
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	if cur := tx.Currency(); p.currency != "" && cur != p.currency {
		return fmt.Errorf("%w: %s in %s on a position in %s", ErrInvalidTransactionForState, tx.Action, cur, p.currency)
	}

	switch tx.Action {
	case Buy:
		p.buy(tx)
	case Sell:
		if p.status == Closed {
			return fmt.Errorf("%w: cannot sell %s on a closed position", ErrInvalidTransactionForState, tx.Quantity)
		}
		if tx.Quantity.GreaterThan(p.quantity) {
			return fmt.Errorf("%w: cannot sell %s, only %s held", ErrInsufficientQuantity, tx.Quantity, p.quantity)
		}
		p.sell(tx)
	case Dividend:
		net := tx.Amount().Sub(tx.Fees)
		p.dividend = p.dividend.Add(net)
		p.realized = p.realized.Add(net)
		p.fees = p.fees.Add(tx.Fees)
	case Fee:
		p.realized = p.realized.Sub(tx.Fees)
		p.fees = p.fees.Add(tx.Fees)
	case Split:
		if p.status == Closed {
			return fmt.Errorf("%w: cannot split a closed position", ErrInvalidTransactionForState)
		}
		if p.split == nil {
			first := tx
			p.split = &first
		} else {
			p.applySplit(*p.split, tx)
			p.split = nil
		}
		p.realized = p.realized.Sub(tx.Fees)
		p.fees = p.fees.Add(tx.Fees)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrMalformedTransaction, tx.Action)
	}

	if p.currency == "" {
		p.currency = tx.Currency()
	}
	p.history = append(p.history, tx)
	return nil
}

func (p *Position) buy(tx Transaction) {
	cost := tx.Amount().Add(tx.Fees)
	if p.status == Closed {
		p.status = Open
		p.openedAt = tx.Date
		p.closedAt = date.Date{}
	}
	p.cost = p.cost.Add(cost)
	p.quantity = p.quantity.Add(tx.Quantity)
	if p.method == FIFO {
		p.lots = append(p.lots, lot{Date: tx.Date, Quantity: tx.Quantity, Cost: cost})
	}
	p.average = p.cost.Div(p.quantity)
	p.fees = p.fees.Add(tx.Fees)
}

func (p *Position) sell(tx Transaction) {
	var sold Money
	switch {
	case tx.Quantity.Equal(p.quantity):
		sold = p.cost
		p.lots = nil
	case p.method == FIFO:
		sold = p.lots.costOfSelling(tx.Quantity)
		p.lots = p.lots.sell(tx.Quantity)
	default:
		sold = p.cost.Mul(tx.Quantity).Div(p.quantity)
	}
	p.realized = p.realized.Add(tx.Amount().Sub(sold).Sub(tx.Fees))
	p.fees = p.fees.Add(tx.Fees)
	p.cost = p.cost.Sub(sold)
	p.quantity = p.quantity.Sub(tx.Quantity)
	if p.method == FIFO && !p.quantity.IsZero() {
		p.average = p.cost.Div(p.quantity)
	}
	if p.quantity.IsZero() {
		p.status = Closed
		p.closedAt = tx.Date
	}
}

// applySplit scales the held quantity by in/out. Legs booked on the same day
// come in any order and the larger one is taken as the new quantity.
func (p *Position) applySplit(out, in Transaction) {
	if out.Date == in.Date && out.Quantity.GreaterThan(in.Quantity) {
		out, in = in, out
	}
	p.quantity = p.quantity.Mul(in.Quantity).Div(out.Quantity)
	p.lots = p.lots.split(in.Quantity, out.Quantity)
	p.average = p.cost.Div(p.quantity)
}
