package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/krona/renderer"
	"github.com/google/subcommands"
)

type processCmd struct {
	save bool
}

func (*processCmd) Name() string     { return "process" }
func (*processCmd) Synopsis() string { return "compute positions from the transactions" }
func (*processCmd) Usage() string {
	return `krona process [-save]

  Maps the raw symbols of the transactions to canonical symbols, then
  computes every position and its realized gains. Transactions that cannot
  be applied are listed as failures.
`
}

func (c *processCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.save, "save", false, "Store the automatically accepted mappings in the mappings file")
}

func (c *processCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, err := openWorkspace()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	res := w.process()
	if c.save {
		if err := w.save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving mappings: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(renderer.RenderPortfolio(renderer.NewPortfolioReport(res)))
	return subcommands.ExitSuccess
}
