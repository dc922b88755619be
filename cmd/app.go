// Package cmd implements the krona command line application.
package cmd

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/etnz/krona"
	"github.com/etnz/krona/config"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&processCmd{}, "portfolio")
	c.Register(&historyCmd{}, "portfolio")

	c.Register(&planCmd{}, "mapping")
	for _, d := range decisionCommands() {
		c.Register(d, "mapping")
	}

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var transactionsFile = flag.String("transactions", "transactions.jsonl", "Path to the transactions file (JSONL format)")
var mappingsFile = flag.String("mappings", "mappings.yml", "Path to the mapping decisions file (YAML format)")
var configFile = flag.String("config", "krona.yml", "Path to the optional configuration file")
var verbose = flag.Bool("v", false, "Log at debug level")

// workspace is what every command works on: the configuration, the
// transactions and a mapper restored from the mappings file.
type workspace struct {
	cfg    *config.Config
	logger *slog.Logger
	txs    []krona.Transaction
	mapper *krona.Mapper
}

// openWorkspace loads the files named by the global flags.
func openWorkspace() (*workspace, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	w := &workspace{cfg: cfg, logger: newLogger(cfg)}

	if w.txs, err = decodeTransactions(*transactionsFile); err != nil {
		return nil, err
	}

	decisions, err := krona.LoadMappings(*mappingsFile)
	if err != nil {
		return nil, err
	}
	w.mapper = krona.NewMapper(krona.DefaultStrategies(cfg.MatchingOptions())...)
	if err := w.mapper.Restore(decisions); err != nil {
		return nil, fmt.Errorf("restoring %s: %w", *mappingsFile, err)
	}
	w.logger.Debug("workspace opened", "transactions", len(w.txs), "decisions", len(decisions))
	return w, nil
}

// process runs the processor with the configured options.
func (w *workspace) process() *krona.Result {
	opts := w.cfg.ProcessorOptions()
	opts.Logger = w.logger
	return krona.NewProcessor(w.mapper, opts).Process(w.txs)
}

// plan builds the mapping plan with the saved decisions, without
// automatic acceptance, so that review commands only store what the user
// decided.
func (w *workspace) plan() *krona.MappingPlan {
	return w.mapper.BuildPlan(w.txs)
}

// save writes the mapper decisions to the mappings file.
func (w *workspace) save() error {
	decisions := w.mapper.Plan().Decisions()
	if err := krona.SaveMappings(*mappingsFile, decisions); err != nil {
		return err
	}
	w.logger.Debug("mappings saved", "path", *mappingsFile, "decisions", len(decisions))
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Level()
	if *verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func decodeTransactions(path string) ([]krona.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transactions: %w", err)
	}
	defer f.Close()

	txs, err := krona.DecodeTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return txs, nil
}
