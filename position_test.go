package krona

import (
	"errors"
	"testing"
)

func apply(t *testing.T, p *Position, txs ...Transaction) {
	t.Helper()
	for _, tx := range txs {
		if err := p.Apply(tx); err != nil {
			t.Fatalf("Apply(%v) error = %v", tx, err)
		}
	}
}

func TestPosition_New(t *testing.T) {
	p := NewPosition("EVO", AverageCost)
	if p.Status() != Closed {
		t.Errorf("Status() = %v, want %v", p.Status(), Closed)
	}
	if !p.Quantity().IsZero() {
		t.Errorf("Quantity() = %v, want 0", p.Quantity())
	}
	if len(p.History()) != 0 {
		t.Errorf("History() has %d transactions, want none", len(p.History()))
	}
}

func TestPosition_BuyThenSellAll(t *testing.T) {
	p := NewPosition("EVO", AverageCost)
	apply(t, p,
		NewBuy(on("2024-01-02"), "EVO", Q(10), SEK(100), SEK(1)),
	)
	if got, want := p.AverageCost(), SEK(100.1); !got.Equal(want) {
		t.Errorf("AverageCost() after buy = %v, want %v", got, want)
	}
	if !p.IsOpen() || p.OpenedAt() != on("2024-01-02") {
		t.Errorf("after buy: status %v opened %v, want open on 2024-01-02", p.Status(), p.OpenedAt())
	}

	apply(t, p, NewSell(on("2024-02-01"), "EVO", Q(10), SEK(120), SEK(1)))

	if p.Status() != Closed {
		t.Errorf("Status() = %v, want %v", p.Status(), Closed)
	}
	if !p.Quantity().IsZero() {
		t.Errorf("Quantity() = %v, want 0", p.Quantity())
	}
	if got, want := p.RealizedPnL(), SEK(198); !got.Equal(want) {
		t.Errorf("RealizedPnL() = %v, want %v", got, want)
	}
	if got, want := p.Fees(), SEK(2); !got.Equal(want) {
		t.Errorf("Fees() = %v, want %v", got, want)
	}
	if p.ClosedAt() != on("2024-02-01") {
		t.Errorf("ClosedAt() = %v, want 2024-02-01", p.ClosedAt())
	}
	if len(p.History()) != 2 {
		t.Errorf("History() has %d transactions, want 2", len(p.History()))
	}
}

func TestPosition_Reopen(t *testing.T) {
	p := NewPosition("EVO", AverageCost)
	apply(t, p,
		NewBuy(on("2024-01-02"), "EVO", Q(5), SEK(50), SEK(0)),
		NewSell(on("2024-01-03"), "EVO", Q(5), SEK(50), SEK(0)),
	)
	if p.Status() != Closed || p.ClosedAt().IsZero() {
		t.Fatalf("after sell: status %v closed %v, want closed", p.Status(), p.ClosedAt())
	}

	apply(t, p, NewBuy(on("2024-01-10"), "EVO", Q(3), SEK(60), SEK(0)))

	if p.Status() != Open {
		t.Errorf("Status() = %v, want %v", p.Status(), Open)
	}
	if got, want := p.Quantity(), Q(3); !got.Equal(want) {
		t.Errorf("Quantity() = %v, want %v", got, want)
	}
	if got, want := p.AverageCost(), SEK(60); !got.Equal(want) {
		t.Errorf("AverageCost() = %v, want %v", got, want)
	}
	if !p.RealizedPnL().IsZero() {
		t.Errorf("RealizedPnL() = %v, want 0", p.RealizedPnL())
	}
	if p.OpenedAt() != on("2024-01-10") {
		t.Errorf("OpenedAt() = %v, want 2024-01-10", p.OpenedAt())
	}
	if !p.ClosedAt().IsZero() {
		t.Errorf("ClosedAt() = %v, want none", p.ClosedAt())
	}
}

func TestPosition_RoundTripRestoresInitialState(t *testing.T) {
	p := NewPosition("EVO", AverageCost)
	apply(t, p,
		NewBuy(on("2024-01-02"), "EVO", Q(10), SEK(100), SEK(0)),
		NewSell(on("2024-01-03"), "EVO", Q(10), SEK(130), SEK(0)),
	)
	realized := p.RealizedPnL()

	apply(t, p,
		NewBuy(on("2024-01-04"), "EVO", Q(7), SEK(90), SEK(0)),
		NewSell(on("2024-01-05"), "EVO", Q(7), SEK(90), SEK(0)),
	)
	if p.Status() != Closed || !p.Quantity().IsZero() {
		t.Errorf("after round trip: status %v quantity %v, want closed and 0", p.Status(), p.Quantity())
	}
	if got := p.RealizedPnL(); !got.Equal(realized) {
		t.Errorf("RealizedPnL() = %v, want unchanged %v", got, realized)
	}
}

func TestPosition_DividendAfterClose(t *testing.T) {
	p := NewPosition("EVO", AverageCost)
	apply(t, p,
		NewBuy(on("2024-01-02"), "EVO", Q(10), SEK(100), SEK(0)),
		NewSell(on("2024-03-01"), "EVO", Q(10), SEK(110), SEK(0)),
		NewDividend(on("2024-04-15"), "EVO", Q(10), SEK(2), SEK(0)),
	)
	if p.Status() != Closed {
		t.Errorf("Status() = %v, want %v", p.Status(), Closed)
	}
	if !p.Quantity().IsZero() {
		t.Errorf("Quantity() = %v, want 0", p.Quantity())
	}
	if got, want := p.RealizedPnL(), SEK(120); !got.Equal(want) {
		t.Errorf("RealizedPnL() = %v, want %v", got, want)
	}
	if got, want := p.Dividends(), SEK(20); !got.Equal(want) {
		t.Errorf("Dividends() = %v, want %v", got, want)
	}
	if p.ClosedAt() != on("2024-03-01") {
		t.Errorf("ClosedAt() = %v, want 2024-03-01", p.ClosedAt())
	}
}

func TestPosition_DividendAndFee(t *testing.T) {
	p := NewPosition("EVO", AverageCost)
	apply(t, p,
		NewBuy(on("2024-01-02"), "EVO", Q(10), SEK(100), SEK(0)),
		NewDividend(on("2024-04-15"), "EVO", Q(10), SEK(3), SEK(4.5)),
		NewFee(on("2024-05-01"), "EVO", SEK(10)),
	)
	if got, want := p.RealizedPnL(), SEK(15.5); !got.Equal(want) {
		t.Errorf("RealizedPnL() = %v, want %v", got, want)
	}
	if got, want := p.AverageCost(), SEK(100); !got.Equal(want) {
		t.Errorf("AverageCost() = %v, want %v", got, want)
	}
	if got, want := p.Quantity(), Q(10); !got.Equal(want) {
		t.Errorf("Quantity() = %v, want %v", got, want)
	}
	if got, want := p.Fees(), SEK(14.5); !got.Equal(want) {
		t.Errorf("Fees() = %v, want %v", got, want)
	}
}

func TestPosition_AverageCostInvariant(t *testing.T) {
	p := NewPosition("EVO", AverageCost)
	buys := []Transaction{
		NewBuy(on("2024-01-02"), "EVO", Q(10), SEK(10), SEK(2)),
		NewBuy(on("2024-01-03"), "EVO", Q(5), SEK(20), SEK(1)),
		NewBuy(on("2024-01-04"), "EVO", Q(3), SEK(17.25), SEK(0.5)),
	}
	var invested Money
	for _, tx := range buys {
		apply(t, p, tx)
		invested = invested.Add(tx.Amount()).Add(tx.Fees)
		if got := p.AverageCost().Mul(p.Quantity()); !near(got, invested) {
			t.Errorf("after %v: quantity * average = %v, want %v", tx, got, invested)
		}
	}

	avg := p.AverageCost()
	apply(t, p, NewSell(on("2024-01-05"), "EVO", Q(8), SEK(30), SEK(1)))
	if !p.AverageCost().Equal(avg) {
		t.Errorf("AverageCost() after sell = %v, want unchanged %v", p.AverageCost(), avg)
	}
	if got, want := p.CostBasis(), avg.Mul(Q(10)); !near(got, want) {
		t.Errorf("CostBasis() = %v, want %v", got, want)
	}
	if got, want := p.UnrealizedPnL(SEK(20)), SEK(200).Sub(avg.Mul(Q(10))); !near(got, want) {
		t.Errorf("UnrealizedPnL() = %v, want %v", got, want)
	}
}

func TestPosition_FIFO(t *testing.T) {
	txs := []Transaction{
		NewBuy(on("2024-01-01"), "EVO", Q(10), SEK(10), SEK(0)),
		NewBuy(on("2024-01-02"), "EVO", Q(10), SEK(20), SEK(0)),
		NewSell(on("2024-01-03"), "EVO", Q(15), SEK(30), SEK(0)),
	}
	tests := []struct {
		method   CostBasisMethod
		realized Money
		average  Money
	}{
		{AverageCost, SEK(225), SEK(15)},
		{FIFO, SEK(250), SEK(20)},
	}
	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			p := NewPosition("EVO", tt.method)
			apply(t, p, txs...)
			if got := p.RealizedPnL(); !got.Equal(tt.realized) {
				t.Errorf("RealizedPnL() = %v, want %v", got, tt.realized)
			}
			if got := p.AverageCost(); !near(got, tt.average) {
				t.Errorf("AverageCost() = %v, want %v", got, tt.average)
			}
			if got, want := p.Quantity(), Q(5); !got.Equal(want) {
				t.Errorf("Quantity() = %v, want %v", got, want)
			}
		})
	}
}

func TestPosition_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		setup []Transaction
		tx    Transaction
		want  error
	}{
		{
			name: "sell on closed position",
			tx:   NewSell(on("2024-01-02"), "EVO", Q(1), SEK(10), SEK(0)),
			want: ErrInvalidTransactionForState,
		},
		{
			name:  "sell more than held",
			setup: []Transaction{NewBuy(on("2024-01-02"), "EVO", Q(5), SEK(10), SEK(0))},
			tx:    NewSell(on("2024-01-03"), "EVO", Q(10), SEK(10), SEK(0)),
			want:  ErrInsufficientQuantity,
		},
		{
			name:  "out of order",
			setup: []Transaction{NewBuy(on("2024-01-05"), "EVO", Q(5), SEK(10), SEK(0))},
			tx:    NewBuy(on("2024-01-04"), "EVO", Q(5), SEK(10), SEK(0)),
			want:  ErrOutOfOrderTransaction,
		},
		{
			name: "zero quantity buy",
			tx:   NewBuy(on("2024-01-02"), "EVO", Q(0), SEK(10), SEK(0)),
			want: ErrMalformedTransaction,
		},
		{
			name: "negative buy",
			tx:   NewBuy(on("2024-01-02"), "EVO", Q(-5), SEK(10), SEK(0)),
			want: ErrMalformedTransaction,
		},
		{
			name: "fees in another currency",
			tx:   NewBuy(on("2024-01-02"), "EVO", Q(5), SEK(10), EUR(1)),
			want: ErrMalformedTransaction,
		},
		{
			name: "split on closed position",
			tx:   NewSplit(on("2024-01-02"), "EVO", Q(5), "SEK"),
			want: ErrInvalidTransactionForState,
		},
		{
			name:  "other currency",
			setup: []Transaction{NewBuy(on("2024-01-02"), "EVO", Q(5), SEK(10), SEK(0))},
			tx:    NewBuy(on("2024-01-03"), "EVO", Q(5), EUR(1), EUR(0)),
			want:  ErrInvalidTransactionForState,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPosition("EVO", AverageCost)
			apply(t, p, tt.setup...)
			quantity, realized, status := p.Quantity(), p.RealizedPnL(), p.Status()

			err := p.Apply(tt.tx)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Apply() error = %v, want %v", err, tt.want)
			}
			if len(p.History()) != len(tt.setup) {
				t.Errorf("History() has %d transactions, want %d", len(p.History()), len(tt.setup))
			}
			if !p.Quantity().Equal(quantity) || !p.RealizedPnL().Equal(realized) || p.Status() != status {
				t.Errorf("position changed by a rejected transaction")
			}
		})
	}
}

func TestPosition_AverageCostSellsExactly(t *testing.T) {
	p := NewPosition("EVO", AverageCost)
	apply(t, p,
		NewBuy(on("2024-01-02"), "EVO", Q(3), SEK(10), SEK(1)),
		NewSell(on("2024-01-03"), "EVO", Q(1), SEK(10), SEK(0)),
		NewSell(on("2024-01-04"), "EVO", Q(2), SEK(10), SEK(0)),
	)
	if got, want := p.RealizedPnL(), SEK(-1); !got.Equal(want) {
		t.Errorf("RealizedPnL() = %v, want exactly %v", got, want)
	}
	if !p.CostBasis().IsZero() {
		t.Errorf("CostBasis() = %v, want 0 once closed", p.CostBasis())
	}
}

func TestPosition_Split(t *testing.T) {
	for _, method := range []CostBasisMethod{AverageCost, FIFO} {
		t.Run(method.String(), func(t *testing.T) {
			p := NewPosition("BAHN B", method)
			apply(t, p,
				NewBuy(on("2017-09-15"), "BAHN B", Q(23), SEK(214.5), SEK(19)),
				NewSplit(on("2017-10-17"), "BAHN B", Q(23), "SEK"),
			)
			if _, ok := p.PendingSplit(); !ok {
				t.Fatal("PendingSplit() = false after the first leg")
			}
			if got, want := p.Quantity(), Q(23); !got.Equal(want) {
				t.Errorf("Quantity() after first leg = %v, want %v", got, want)
			}
			cost := p.CostBasis()

			apply(t, p, NewSplit(on("2017-10-17"), "BAHN B", Q(69), "SEK"))

			if _, ok := p.PendingSplit(); ok {
				t.Error("PendingSplit() = true after the second leg")
			}
			if got, want := p.Quantity(), Q(69); !got.Equal(want) {
				t.Errorf("Quantity() = %v, want %v", got, want)
			}
			if !p.CostBasis().Equal(cost) {
				t.Errorf("CostBasis() = %v, want unchanged %v", p.CostBasis(), cost)
			}
			if got, want := p.AverageCost(), SEK(71.775362318840579710); !near(got, want) {
				t.Errorf("AverageCost() = %v, want %v", got, want)
			}
			if !p.RealizedPnL().IsZero() {
				t.Errorf("RealizedPnL() = %v, want 0", p.RealizedPnL())
			}

			apply(t, p, NewSell(on("2018-01-02"), "BAHN B", Q(69), SEK(80), SEK(0)))
			if got, want := p.RealizedPnL(), SEK(69*80-23*214.5-19); !near(got, want) {
				t.Errorf("RealizedPnL() after selling all = %v, want %v", got, want)
			}
		})
	}
}

func TestPosition_SplitLegsInAnyOrder(t *testing.T) {
	p := NewPosition("BAHN B", AverageCost)
	apply(t, p,
		NewBuy(on("2017-09-15"), "BAHN B", Q(10), SEK(30), SEK(0)),
		NewSplit(on("2017-10-17"), "BAHN B", Q(20), "SEK"),
		NewSplit(on("2017-10-17"), "BAHN B", Q(10), "SEK"),
	)
	if got, want := p.Quantity(), Q(20); !got.Equal(want) {
		t.Errorf("Quantity() = %v, want %v", got, want)
	}
	if got, want := p.AverageCost(), SEK(15); !got.Equal(want) {
		t.Errorf("AverageCost() = %v, want %v", got, want)
	}
}

func TestPosition_SameDayIsInOrder(t *testing.T) {
	p := NewPosition("EVO", AverageCost)
	apply(t, p,
		NewBuy(on("2024-01-02"), "EVO", Q(5), SEK(10), SEK(0)),
		NewSell(on("2024-01-02"), "EVO", Q(5), SEK(11), SEK(0)),
		NewBuy(on("2024-01-02"), "EVO", Q(1), SEK(12), SEK(0)),
	)
	if !p.IsOpen() {
		t.Errorf("Status() = %v, want %v", p.Status(), Open)
	}
}

func TestParseCostBasisMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    CostBasisMethod
		wantErr bool
	}{
		{"average", AverageCost, false},
		{" FIFO ", FIFO, false},
		{"", AverageCost, false},
		{"lifo", 0, true},
	}
	for _, tt := range tests {
		var got CostBasisMethod
		err := got.UnmarshalText([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("UnmarshalText(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if text, _ := FIFO.MarshalText(); string(text) != "fifo" {
		t.Errorf("FIFO.MarshalText() = %q, want fifo", text)
	}
}
