package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/krona/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show the transactions of a position" }
func (*historyCmd) Usage() string {
	return `krona history <symbol>

  Shows every transaction applied to a position, with the broker and raw
  symbol it came from. The symbol can be any raw symbol of the position.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "history takes exactly one symbol")
		return subcommands.ExitUsageError
	}

	w, err := openWorkspace()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	res := w.process()
	symbol := res.Plan.Canonicalize(f.Arg(0))
	p, ok := res.Portfolio.Position(symbol)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no position on %q\n", symbol)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderHistory(renderer.NewHistoryReport(p)))
	return subcommands.ExitSuccess
}
