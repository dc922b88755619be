package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/krona"
	"github.com/google/subcommands"
)

// decisionCmd records one review decision in the mappings file.
type decisionCmd struct {
	name     string
	synopsis string
	help     string
	byID     bool // the pair can be given by suggestion id
	done     string
	apply    func(m *krona.Mapper, symbol, canonical string) error
}

func decisionCommands() []*decisionCmd {
	return []*decisionCmd{
		{
			name:     "accept",
			synopsis: "accept a mapping suggestion",
			help:     "Accepts a pending suggestion: the symbol is from now on processed as the canonical symbol.",
			byID:     true,
			done:     "accepted",
			apply:    (*krona.Mapper).Accept,
		},
		{
			name:     "decline",
			synopsis: "decline a mapping suggestion",
			help:     "Declines a suggestion. It is not proposed again.",
			byID:     true,
			done:     "declined",
			apply:    (*krona.Mapper).Decline,
		},
		{
			name:     "resolve",
			synopsis: "resolve a mapping conflict",
			help:     "Accepts the chosen candidate of a conflicted symbol and declines the others.",
			byID:     true,
			done:     "resolved",
			apply:    (*krona.Mapper).ResolveConflict,
		},
		{
			name:     "map",
			synopsis: "declare a mapping",
			help:     "Maps a symbol to a canonical symbol, even when no strategy suggested it.",
			done:     "mapped",
			apply:    (*krona.Mapper).Map,
		},
	}
}

func (c *decisionCmd) Name() string     { return c.name }
func (c *decisionCmd) Synopsis() string { return c.synopsis }
func (c *decisionCmd) Usage() string {
	if c.byID {
		return fmt.Sprintf("krona %s <symbol> <canonical> | <id>\n\n  %s\n", c.name, c.help)
	}
	return fmt.Sprintf("krona %s <symbol> <canonical>\n\n  %s\n", c.name, c.help)
}

func (c *decisionCmd) SetFlags(f *flag.FlagSet) {}

func (c *decisionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if n := f.NArg(); n != 2 && !(c.byID && n == 1) {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	w, err := openWorkspace()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	symbol, canonical, err := pair(w.plan(), f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := c.apply(w.mapper, symbol, canonical); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := w.save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving mappings: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%s %s -> %s\n", c.done, symbol, canonical)
	return subcommands.ExitSuccess
}

// pair reads a symbol and canonical pair from args, either given as is or
// as the id of a suggestion of plan.
func pair(plan *krona.MappingPlan, args []string) (symbol, canonical string, err error) {
	switch len(args) {
	case 1:
		s, ok := plan.Suggestion(args[0])
		if !ok {
			return "", "", fmt.Errorf("%w: no suggestion with id %q", krona.ErrUnknownSuggestion, args[0])
		}
		return s.Symbol, s.Canonical, nil
	case 2:
		return args[0], args[1], nil
	default:
		return "", "", fmt.Errorf("want a suggestion id or a symbol and a canonical symbol, got %d arguments", len(args))
	}
}
