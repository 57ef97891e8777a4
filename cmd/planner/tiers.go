package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"CryptoAllocator/internal/model"
	"CryptoAllocator/internal/strategy"
)

// tiersCmd prints every known risk table so their differences stay visible.
type tiersCmd struct{}

func (*tiersCmd) Name() string     { return "tiers" }
func (*tiersCmd) Synopsis() string { return "list the risk tables and their bounds" }
func (*tiersCmd) Usage() string {
	return `planner tiers

  Prints the eligibility window and projection clamp of every risk tier, for each built-in and
  configured risk table. The table used by default is marked with *.
`
}

func (*tiersCmd) SetFlags(*flag.FlagSet) {}

func (*tiersCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	tables := cfg.Tables()
	printMarkdown(formatTables(tables, cfg.Planner.RiskTable))
	return subcommands.ExitSuccess
}

func formatTables(tables map[string]model.RiskTable, selected string) string {
	var b strings.Builder
	b.WriteString("# Risk tables\n\n")
	b.WriteString("| Table | Tier | Term | 30d change | Min score | Clamp |\n")
	b.WriteString("|---|---|---|---|---:|---:|\n")
	for _, name := range strategy.TableNames(tables) {
		t := tables[name]
		label := name
		if name == selected {
			label += " *"
		}
		for _, r := range model.RiskProfiles {
			p, ok := t.Tiers[r]
			if !ok {
				continue
			}
			b.WriteString(tierRow(label, r, "all", p.Bounds, p.Clamp))
			for _, term := range model.TermLabels {
				if tb, ok := p.TermBounds[term]; ok {
					b.WriteString(tierRow(label, r, string(term), tb, p.Clamp))
				}
			}
		}
	}
	return b.String()
}

func tierRow(table string, r model.RiskProfile, term string, bounds model.Bounds, clamp float64) string {
	c := "none"
	if clamp > 0 {
		c = fmt.Sprintf("±%.0f%%", clamp*100)
	}
	return fmt.Sprintf("| %s | %s | %s | (%g, %g) | > %.2f | %s |\n",
		table, r, term, bounds.Lower, bounds.Upper, bounds.MinScore, c)
}
