package krona

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// ProcessorOptions configure a Processor.
type ProcessorOptions struct {
	// AutoAccept accepts unambiguous suggestions at least as confident as
	// AutoAcceptThreshold before positions are computed.
	AutoAccept          bool
	AutoAcceptThreshold float64
	CostBasis           CostBasisMethod
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultProcessorOptions returns auto-accept at 0.95 with the average cost
// method.
func DefaultProcessorOptions() ProcessorOptions {
	return ProcessorOptions{AutoAccept: true, AutoAcceptThreshold: 0.95, CostBasis: AverageCost}
}

// Processor turns raw transactions into a Portfolio, reconciling symbols
// with its Mapper.
type Processor struct {
	mapper *Mapper
	opts   ProcessorOptions
}

// NewProcessor returns a Processor using mapper. A nil mapper runs the
// default strategies.
func NewProcessor(mapper *Mapper, opts ProcessorOptions) *Processor {
	if mapper == nil {
		mapper = NewMapper()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Processor{mapper: mapper, opts: opts}
}

// Mapper returns the mapper of the processor, to review its plan.
func (p *Processor) Mapper() *Mapper { return p.mapper }

// Failure is a transaction that could not be applied.
type Failure struct {
	Symbol      string // canonical symbol, or raw symbol for a malformed record
	Index       int    // position in the input
	Transaction Transaction
	Err         error
}

func (f Failure) Kind() ErrorKind { return KindOf(f.Err) }

func (f Failure) Error() string {
	return fmt.Sprintf("transaction #%d (%s): %v", f.Index, f.Transaction, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Result is the outcome of Process.
type Result struct {
	Portfolio *Portfolio
	// Plan is a snapshot of the mapping plan used to canonicalize symbols.
	Plan     *MappingPlan
	Failures []Failure
}

// FailuresOf returns the failures of a kind.
func (r *Result) FailuresOf(kind ErrorKind) []Failure {
	var out []Failure
	for _, f := range r.Failures {
		if f.Kind() == kind {
			out = append(out, f)
		}
	}
	return out
}

type indexed struct {
	index int
	tx    Transaction
}

// Process validates txs, builds the mapping plan, then rebuilds every
// position from scratch.
//
// Failures never stop the run. A rejected sell or an invalid transaction is
// skipped. Each symbol's transactions are applied in date order, keeping the
// input order within a day, so a position never sees an out of order
// transaction from Process. Should one still be rejected as such, its symbol
// stops there and the remaining transactions are reported as failures too.
// Other symbols are always processed.
func (p *Processor) Process(txs []Transaction) *Result {
	log := p.opts.Logger
	res := &Result{Portfolio: NewPortfolio()}

	valid := make([]indexed, 0, len(txs))
	plain := make([]Transaction, 0, len(txs))
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			log.Warn("rejected transaction", "index", i, "symbol", tx.Symbol, "error", err)
			res.Failures = append(res.Failures, Failure{Symbol: tx.Symbol, Index: i, Transaction: tx, Err: err})
			continue
		}
		valid = append(valid, indexed{i, tx})
		plain = append(plain, tx)
	}

	p.mapper.BuildPlan(plain)
	if p.opts.AutoAccept {
		for _, sg := range p.mapper.AutoAccept(p.opts.AutoAcceptThreshold) {
			log.Info("accepted suggestion", "symbol", sg.Symbol, "canonical", sg.Canonical, "confidence", sg.Confidence, "strategy", sg.Strategy)
		}
	}
	res.Plan = p.mapper.Plan().Clone()

	groups := make(map[string][]indexed)
	for _, it := range valid {
		symbol := res.Plan.Canonicalize(it.tx.Symbol)
		groups[symbol] = append(groups[symbol], it)
	}
	for _, symbol := range sortedKeys(groups) {
		group := groups[symbol]
		slices.SortStableFunc(group, func(a, b indexed) int { return a.tx.Date.Compare(b.tx.Date) })
		pos := res.Portfolio.position(symbol, p.opts.CostBasis)
		for k, it := range group {
			err := pos.Apply(it.tx)
			if err == nil {
				log.Debug("applied transaction", "symbol", symbol, "transaction", it.tx.String())
				continue
			}
			log.Warn("failed transaction", "symbol", symbol, "index", it.index, "error", err)
			res.Failures = append(res.Failures, Failure{Symbol: symbol, Index: it.index, Transaction: it.tx, Err: err})
			if errors.Is(err, ErrOutOfOrderTransaction) {
				for _, rest := range group[k+1:] {
					res.Failures = append(res.Failures, Failure{
						Symbol:      symbol,
						Index:       rest.index,
						Transaction: rest.tx,
						Err:         fmt.Errorf("%w: skipped after transaction #%d", ErrOutOfOrderTransaction, it.index),
					})
				}
				break
			}
		}
		if tx, ok := pos.PendingSplit(); ok {
			log.Warn("split without its second leg", "symbol", symbol, "transaction", tx.String())
		}
	}

	log.Info("processed transactions",
		"transactions", len(txs),
		"positions", res.Portfolio.Len(),
		"failures", len(res.Failures),
		"pending", len(res.Plan.Pending()),
		"conflicts", len(res.Plan.Conflicts()),
	)
	return res
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, cmp.Compare[string])
	return keys
}
