package krona

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/krona/date"
	"github.com/shopspring/decimal"
)

// Action is the kind of a transaction.
type Action string

// Actions understood by the position engine.
const (
	Buy      Action = "buy"
	Sell     Action = "sell"
	Dividend Action = "dividend"
	Fee      Action = "fee"
	Split    Action = "split"
)

// actionTerms lists the broker terms accepted for each action, on top of
// the action name itself.
var actionTerms = map[Action][]string{
	Buy:      {"köp", "köpt", "purchase"},
	Sell:     {"sälj", "sålt", "sale"},
	Dividend: {"utdelning", "div"},
	Fee:      {"avgift", "courtage", "commission"},
	Split:    {"byte inlägg vp", "byte uttag vp"},
}

// ParseAction converts a broker term into an Action. Matching is case
// insensitive and ignores surrounding whitespace.
func ParseAction(term string) (Action, error) {
	t := strings.ToLower(strings.TrimSpace(term))
	for _, a := range []Action{Buy, Sell, Dividend, Fee, Split} {
		if t == string(a) {
			return a, nil
		}
		for _, syn := range actionTerms[a] {
			if t == syn {
				return a, nil
			}
		}
	}
	return "", fmt.Errorf("unknown action %q", term)
}

// IsValid reports whether a is one of the known actions.
func (a Action) IsValid() bool {
	switch a {
	case Buy, Sell, Dividend, Fee, Split:
		return true
	}
	return false
}

// Transaction is a single broker transaction, already parsed but not yet
// canonicalized. It is a value: methods never modify the receiver.
//
// Quantity and Price are never negative; the effect on a position derives
// from the Action. For a dividend, Quantity is the number of shares and
// Price the amount paid per share. For a fee only Fees is used. A split leg
// carries the quantity moved out or in, usually at a zero Price.
type Transaction struct {
	Date     date.Date
	Broker   string
	Symbol   string // broker-native identifier
	ISIN     string // optional, stronger identity hint
	Action   Action
	Quantity Quantity
	Price    Money
	Fees     Money
}

// NewTransaction returns a transaction on a raw symbol.
func NewTransaction(on date.Date, action Action, symbol string, quantity Quantity, price, fees Money) Transaction {
	return Transaction{
		Date:     on,
		Symbol:   symbol,
		Action:   action,
		Quantity: quantity,
		Price:    price,
		Fees:     fees,
	}
}

// NewBuy returns a buy of quantity units at price, paying fees.
func NewBuy(on date.Date, symbol string, quantity Quantity, price, fees Money) Transaction {
	return NewTransaction(on, Buy, symbol, quantity, price, fees)
}

// NewSell returns a sell of quantity units at price, paying fees.
func NewSell(on date.Date, symbol string, quantity Quantity, price, fees Money) Transaction {
	return NewTransaction(on, Sell, symbol, quantity, price, fees)
}

// NewDividend returns a dividend of perShare on quantity shares, withholding fees.
func NewDividend(on date.Date, symbol string, quantity Quantity, perShare, fees Money) Transaction {
	return NewTransaction(on, Dividend, symbol, quantity, perShare, fees)
}

// NewSplit returns one leg of a split moving quantity units.
func NewSplit(on date.Date, symbol string, quantity Quantity, currency string) Transaction {
	return NewTransaction(on, Split, symbol, quantity, M(0, currency), M(0, currency))
}

// NewFee returns a standalone fee charged on symbol.
func NewFee(on date.Date, symbol string, fees Money) Transaction {
	return NewTransaction(on, Fee, symbol, Q(0), M(0, fees.Currency()), fees)
}

// WithBroker returns a copy of t booked at broker.
func (t Transaction) WithBroker(broker string) Transaction {
	t.Broker = broker
	return t
}

// WithISIN returns a copy of t carrying the instrument id isin.
func (t Transaction) WithISIN(isin string) Transaction {
	t.ISIN = isin
	return t
}

// WithSymbol returns a copy of t on another symbol.
func (t Transaction) WithSymbol(symbol string) Transaction {
	t.Symbol = symbol
	return t
}

// Currency returns the currency of the transaction.
func (t Transaction) Currency() string {
	if t.Price.Currency() != "" {
		return t.Price.Currency()
	}
	return t.Fees.Currency()
}

// Amount returns Quantity * Price, fees excluded.
func (t Transaction) Amount() Money {
	return t.Price.Mul(t.Quantity)
}

func (t Transaction) String() string {
	if t.Action == Fee {
		return fmt.Sprintf("%s %s %s %s", t.Date, t.Action, t.Symbol, t.Fees)
	}
	return fmt.Sprintf("%s %s %s %s @ %s fees %s", t.Date, t.Action, t.Quantity, t.Symbol, t.Price, t.Fees)
}

// Validate checks that the transaction is well formed. All problems are
// reported at once, wrapped in ErrMalformedTransaction.
func (t Transaction) Validate() error {
	var errs []error
	if t.Date.IsZero() {
		errs = append(errs, errors.New("date is missing"))
	}
	if strings.TrimSpace(t.Symbol) == "" {
		errs = append(errs, errors.New("symbol is missing"))
	}
	if !t.Action.IsValid() {
		errs = append(errs, fmt.Errorf("unknown action %q", t.Action))
	}
	if t.Quantity.IsNegative() {
		errs = append(errs, fmt.Errorf("quantity must not be negative, got %s", t.Quantity))
	}
	if (t.Action == Buy || t.Action == Sell || t.Action == Split) && t.Quantity.IsZero() {
		errs = append(errs, fmt.Errorf("%s quantity must be positive", t.Action))
	}
	if t.Price.IsNegative() {
		errs = append(errs, fmt.Errorf("price must not be negative, got %s", t.Price.Decimal()))
	}
	if t.Fees.IsNegative() {
		errs = append(errs, fmt.Errorf("fees must not be negative, got %s", t.Fees.Decimal()))
	}
	if p, f := t.Price.Currency(), t.Fees.Currency(); p != "" && f != "" && p != f {
		errs = append(errs, fmt.Errorf("price currency %s does not match fees currency %s", p, f))
	}
	if err := ValidateCurrency(t.Currency()); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrMalformedTransaction, errors.Join(errs...))
}

// MarshalJSON writes the transaction with a stable field order.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", t.Date)
	w.Optional("broker", t.Broker)
	w.Append("symbol", t.Symbol)
	w.Optional("isin", t.ISIN)
	w.Append("action", t.Action)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price.Decimal())
	w.Append("fees", t.Fees.Decimal())
	w.Append("currency", t.Currency())
	return w.MarshalJSON()
}

// UnmarshalJSON reads a transaction written by MarshalJSON. The action may
// be any term accepted by ParseAction, and fees default to zero.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		Date     date.Date       `json:"date"`
		Broker   string          `json:"broker"`
		Symbol   string          `json:"symbol"`
		ISIN     string          `json:"isin"`
		Action   string          `json:"action"`
		Quantity decimal.Decimal `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
		Fees     decimal.Decimal `json:"fees"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	action, err := ParseAction(temp.Action)
	if err != nil {
		return err
	}
	*t = Transaction{
		Date:     temp.Date,
		Broker:   strings.TrimSpace(temp.Broker),
		Symbol:   strings.TrimSpace(temp.Symbol),
		ISIN:     strings.ToUpper(strings.TrimSpace(temp.ISIN)),
		Action:   action,
		Quantity: Q(temp.Quantity),
		Price:    M(temp.Price, temp.Currency),
		Fees:     M(temp.Fees, temp.Currency),
	}
	return nil
}
