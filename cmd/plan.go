package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/krona/renderer"
	"github.com/google/subcommands"
)

type planCmd struct {
	mapping  bool
	declined bool
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "show the symbol mapping plan" }
func (*planCmd) Usage() string {
	return `krona plan [-mapping=false] [-declined]

  Shows the conflicts and the suggestions waiting for review, with their id
  to use with accept or decline, and the current mapping.
`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.mapping, "mapping", true, "Show the accepted mapping")
	f.BoolVar(&c.declined, "declined", false, "Show the declined suggestions")
}

func (c *planCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, err := openWorkspace()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	res := w.process()
	opts := renderer.PlanRenderOptions{
		SkipMapping:  !c.mapping,
		SkipDeclined: !c.declined,
	}
	printMarkdown(renderer.RenderPlan(renderer.NewPlanReport(res.Plan), opts))
	return subcommands.ExitSuccess
}
