package krona

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecodeTransactions(t *testing.T) {
	jsonlStream := `
{"date":"2024-01-02","broker":"avanza","symbol":"EVO","isin":"se0012673267","action":"buy","quantity":10,"price":100.5,"fees":1,"currency":"SEK"}

{"date":"2024-02-01","broker":"nordnet","symbol":" Evolution Gaming ","action":"Sålt","quantity":"10","price":120,"currency":"SEK"}
{"date":"2024-03-01","symbol":"EVO","action":"utdelning","quantity":10,"price":2.5,"currency":"SEK"}
{"date":"2024-03-02","symbol":"EVO","action":"courtage","fees":9,"currency":"SEK"}
{"date":"2024-03-03","symbol":"EVO","action":"Byte inlägg VP","quantity":20,"price":0,"currency":"SEK"}
`
	txs, err := DecodeTransactions(strings.NewReader(jsonlStream))
	if err != nil {
		t.Fatalf("DecodeTransactions() error = %v", err)
	}
	if len(txs) != 5 {
		t.Fatalf("DecodeTransactions() decoded %d transactions, want 5", len(txs))
	}

	first := txs[0]
	if first.Date != on("2024-01-02") || first.Broker != "avanza" || first.Symbol != "EVO" || first.ISIN != "SE0012673267" {
		t.Errorf("first transaction = %+v", first)
	}
	if !first.Quantity.Equal(Q(10)) || !first.Price.Equal(SEK(100.5)) || !first.Fees.Equal(SEK(1)) {
		t.Errorf("first transaction amounts = %v %v %v", first.Quantity, first.Price, first.Fees)
	}

	wantActions := []Action{Buy, Sell, Dividend, Fee, Split}
	for i, tx := range txs {
		if tx.Action != wantActions[i] {
			t.Errorf("transaction %d action = %q, want %q", i, tx.Action, wantActions[i])
		}
		if err := tx.Validate(); err != nil {
			t.Errorf("transaction %d Validate() error = %v", i, err)
		}
	}
	if txs[1].Symbol != "Evolution Gaming" {
		t.Errorf("symbol = %q, want it trimmed", txs[1].Symbol)
	}
	if !txs[1].Fees.IsZero() {
		t.Errorf("missing fees = %v, want 0", txs[1].Fees)
	}
}

func TestDecodeTransactions_ReportsLine(t *testing.T) {
	jsonlStream := `{"date":"2024-01-02","symbol":"EVO","action":"buy","quantity":1,"price":1,"currency":"SEK"}

{"date":"2024-01-03","symbol":"EVO","action":"transfer","quantity":1,"price":1,"currency":"SEK"}
`
	_, err := DecodeTransactions(strings.NewReader(jsonlStream))
	if err == nil {
		t.Fatal("DecodeTransactions() error = nil, want an unknown action")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("DecodeTransactions() error = %q, want it to name line 3", err)
	}
}

func TestEncodeTransaction(t *testing.T) {
	tx := NewBuy(on("2024-01-02"), "EVO", Q(10), SEK(100.5), SEK(1)).WithBroker("avanza").WithISIN("SE0012673267")
	var buf bytes.Buffer
	if err := EncodeTransaction(&buf, tx); err != nil {
		t.Fatalf("EncodeTransaction() error = %v", err)
	}
	want := `{"date":"2024-01-02","broker":"avanza","symbol":"EVO","isin":"SE0012673267","action":"buy","quantity":10,"price":100.5,"fees":1,"currency":"SEK"}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("EncodeTransaction() =\n%s\nwant\n%s", got, want)
	}

	txs, err := DecodeTransactions(&buf)
	if err != nil {
		t.Fatalf("DecodeTransactions() error = %v", err)
	}
	if len(txs) != 1 || txs[0].String() != tx.String() || txs[0].Broker != tx.Broker || txs[0].ISIN != tx.ISIN {
		t.Errorf("DecodeTransactions() = %v, want %v", txs, tx)
	}
}

func TestTransaction_Validate(t *testing.T) {
	valid := NewBuy(on("2024-01-02"), "EVO", Q(10), SEK(100), SEK(1))
	tests := []struct {
		name string
		tx   Transaction
		ok   bool
	}{
		{"valid buy", valid, true},
		{"valid fee", NewFee(on("2024-01-02"), "EVO", SEK(5)), true},
		{"no date", Transaction{Symbol: "EVO", Action: Buy, Quantity: Q(1), Price: SEK(1)}, false},
		{"blank symbol", valid.WithSymbol("  "), false},
		{"zero quantity buy", NewBuy(on("2024-01-02"), "EVO", Q(0), SEK(100), SEK(1)), false},
		{"negative price", NewSell(on("2024-01-02"), "EVO", Q(1), SEK(-1), SEK(0)), false},
		{"negative fees", NewBuy(on("2024-01-02"), "EVO", Q(1), SEK(1), SEK(-1)), false},
		{"mixed currencies", NewBuy(on("2024-01-02"), "EVO", Q(1), SEK(1), EUR(1)), false},
		{"unknown currency", NewBuy(on("2024-01-02"), "EVO", Q(1), M(1, "QQQ"), M(0, "QQQ")), false},
		{"unknown action", NewTransaction(on("2024-01-02"), "transfer", "EVO", Q(1), SEK(1), SEK(0)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tt.ok && KindOf(err) != KindMalformedTransaction {
				t.Errorf("Validate() error = %v, want a malformed transaction", err)
			}
		})
	}
}
