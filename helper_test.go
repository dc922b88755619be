package krona

import (
	"io"
	"log/slog"

	"github.com/etnz/krona/date"
	"github.com/shopspring/decimal"
)

// SEK is a helper for test to create swedish crowns from const
func SEK(v float64) Money { return M(v, "SEK") }

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// on is a helper for test to create dates from const
func on(s string) date.Date { return date.MustParse(s) }

// near reports whether a and b are within a billionth, to absorb decimal
// division rounding.
func near(a, b Money) bool {
	return a.Decimal().Sub(b.Decimal()).Abs().LessThan(decimal.New(1, -9))
}

// quiet is a logger for tests that discards everything.
func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// fixedStrategy returns the same suggestions whatever the universe.
type fixedStrategy struct {
	suggestions []Suggestion
}

func (fixedStrategy) Name() string { return "fixed" }

func (s fixedStrategy) Suggest(*Universe, []Suggestion) []Suggestion { return s.suggestions }

// fixed is a helper for test to create a suggestion from the fixed strategy.
func fixed(symbol, canonical string, confidence float64) Suggestion {
	return NewSuggestion("fixed", symbol, canonical, confidence, "test")
}

// symbols is a helper for test to create one buy per symbol.
func symbols(names ...string) []Transaction {
	txs := make([]Transaction, len(names))
	for i, n := range names {
		txs[i] = NewBuy(on("2024-01-02"), n, Q(1), SEK(10), SEK(0))
	}
	return txs
}
