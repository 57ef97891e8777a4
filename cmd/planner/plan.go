package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"CryptoAllocator/internal/model"
	"CryptoAllocator/internal/planner"
	"CryptoAllocator/internal/report"
)

// planCmd holds the flags for the 'plan' subcommand.
type planCmd struct {
	output string
	table  string
	quiet  bool
	stdout bool
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "allocate capital across the top scored candidates" }
func (*planCmd) Usage() string {
	return `planner plan [-o <file>] [-table <name>] [-q] [-stdout] <capital> <risk> <term> [top_n]

  Filters the scored candidates by risk (leve, moderado, volatil), splits capital across the
  top_n (default 5) best scores and projects every position over term (24h, 30d, 1a).

  Example: planner plan 1000 moderado 30d
`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file for the plan document (default: output.path from config)")
	f.StringVar(&c.table, "table", "", "Risk table to use (default: planner.risk_table from config)")
	f.BoolVar(&c.quiet, "q", false, "Do not print the human-readable summary")
	f.BoolVar(&c.stdout, "stdout", false, "Print the JSON document to stdout instead of writing a file")
}

func (c *planCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}

	req, err := planner.ParseArgs(f.Args(), cfg.Planner.TopN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n%s", err, c.Usage())
		return subcommands.ExitUsageError
	}

	p, err := planner.NewFromConfig(cfg, c.table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var plan *model.AllocationPlan
	if c.stdout {
		plan, err = p.Run(req)
	} else {
		out := c.output
		if out == "" {
			out = cfg.Output.Path
		}
		plan, err = p.RunAndWrite(req, out)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if model.IsValidation(err) {
			fmt.Fprintf(os.Stderr, "\n%s", c.Usage())
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	if c.stdout {
		if err := report.Encode(os.Stdout, plan); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding plan: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	if !c.quiet && cfg.Output.Echo {
		printMarkdown(report.Summary(plan))
	}
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	out, err := report.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
