package krona

import (
	"iter"
	"slices"
	"strings"

	"github.com/etnz/krona/date"
)

// Observation gathers what the transactions tell about one raw symbol.
type Observation struct {
	Symbol    string
	ISINs     []string // distinct, sorted
	Brokers   []string // distinct, sorted
	Count     int      // number of transactions
	FirstSeen date.Date
}

// Universe is the set of distinct raw symbols observed in a transaction
// list, in lexicographic order so that every strategy run is reproducible.
type Universe struct {
	observations []Observation
	index        map[string]int
}

// NewUniverse collects the raw symbols of txs. Blank symbols are ignored.
func NewUniverse(txs []Transaction) *Universe {
	bySymbol := make(map[string]*Observation)
	for _, tx := range txs {
		if strings.TrimSpace(tx.Symbol) == "" {
			continue
		}
		o, ok := bySymbol[tx.Symbol]
		if !ok {
			o = &Observation{Symbol: tx.Symbol, FirstSeen: tx.Date}
			bySymbol[tx.Symbol] = o
		}
		o.Count++
		if !tx.Date.IsZero() && (o.FirstSeen.IsZero() || tx.Date.Before(o.FirstSeen)) {
			o.FirstSeen = tx.Date
		}
		if isin := strings.ToUpper(strings.TrimSpace(tx.ISIN)); isin != "" && !slices.Contains(o.ISINs, isin) {
			o.ISINs = append(o.ISINs, isin)
		}
		if tx.Broker != "" && !slices.Contains(o.Brokers, tx.Broker) {
			o.Brokers = append(o.Brokers, tx.Broker)
		}
	}

	u := &Universe{
		observations: make([]Observation, 0, len(bySymbol)),
		index:        make(map[string]int, len(bySymbol)),
	}
	for _, o := range bySymbol {
		slices.Sort(o.ISINs)
		slices.Sort(o.Brokers)
		u.observations = append(u.observations, *o)
	}
	slices.SortFunc(u.observations, func(a, b Observation) int { return strings.Compare(a.Symbol, b.Symbol) })
	for i, o := range u.observations {
		u.index[o.Symbol] = i
	}
	return u
}

// Len returns the number of distinct symbols.
func (u *Universe) Len() int { return len(u.observations) }

// Symbols returns the distinct symbols in lexicographic order.
func (u *Universe) Symbols() []string {
	symbols := make([]string, len(u.observations))
	for i, o := range u.observations {
		symbols[i] = o.Symbol
	}
	return symbols
}

// Observation returns what is known about symbol.
func (u *Universe) Observation(symbol string) (Observation, bool) {
	i, ok := u.index[symbol]
	if !ok {
		return Observation{}, false
	}
	return u.observations[i], true
}

// All iterates over observations in lexicographic symbol order.
func (u *Universe) All() iter.Seq[Observation] {
	return func(yield func(Observation) bool) {
		for _, o := range u.observations {
			if !yield(o) {
				return
			}
		}
	}
}

// moreDescriptive reports whether a makes a better canonical symbol than b:
// the longer name wins, then the one with more lowercase letters (a mixed
// case name is usually a display name rather than a ticker), then the most
// used one, and finally the lexicographically smaller.
func moreDescriptive(a, b Observation) bool {
	if la, lb := len([]rune(a.Symbol)), len([]rune(b.Symbol)); la != lb {
		return la > lb
	}
	if la, lb := countLower(a.Symbol), countLower(b.Symbol); la != lb {
		return la > lb
	}
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Symbol < b.Symbol
}

func countLower(s string) int {
	n := 0
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r > 127 && strings.ToUpper(string(r)) != string(r) {
			n++
		}
	}
	return n
}

// sharesNoISIN reports whether a and b both carry ISINs and none is common.
func sharesNoISIN(a, b Observation) bool {
	if len(a.ISINs) == 0 || len(b.ISINs) == 0 {
		return false
	}
	for _, isin := range a.ISINs {
		if slices.Contains(b.ISINs, isin) {
			return false
		}
	}
	return true
}
