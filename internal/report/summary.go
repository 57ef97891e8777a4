package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"

	"CryptoAllocator/internal/model"
)

// USD formats an amount in dollars, e.g. 1234.5 -> "$1,234.50".
func USD(amount float64) string {
	return money.NewFromFloat(amount, money.USD).Display()
}

// Summary formats the plan as a markdown report, one table row per position.
func Summary(plan *model.AllocationPlan) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Allocation plan | %s · %s\n\n", plan.Risk, plan.Term.Label))
	b.WriteString(fmt.Sprintf("Capital: **%s** · risk table: `%s` · horizon: %d %s\n\n",
		USD(plan.Capital), plan.TableName, plan.Term.HorizonPoints, plan.Term.Granularity))

	if len(plan.Positions) == 0 {
		b.WriteString("No candidate is eligible for this risk profile.\n")
	} else {
		b.WriteString("| # | Symbol | Name | Price | Units | Invested | Weight | Probability | Projected |\n")
		b.WriteString("|---|---|---|---:|---:|---:|---:|---:|---:|\n")
		for i, row := range Positions(plan) {
			final := 0.0
			if n := len(row.Projection); n > 0 {
				final = row.Projection[n-1]
			}
			b.WriteString(fmt.Sprintf("| %d | %s | %s | %.4f | %.6f | %s | %.1f%% | %s | %s |\n",
				i+1, row.Symbol, row.Name, row.Price, row.Units, USD(row.ValueUSD),
				plan.Positions[i].Weight*100, row.Probability, USD(final)))
		}

		projected := plan.ProjectedValue()
		b.WriteString(fmt.Sprintf("\nProjected value: **%s** · estimated gain: **%s**\n",
			USD(projected), USD(projected-plan.TotalInvested())))
	}

	if len(plan.Skipped) > 0 {
		b.WriteString("\nSkipped:\n\n")
		for _, s := range plan.Skipped {
			b.WriteString(fmt.Sprintf("- %s: %s\n", strings.ToUpper(s.Symbol), s.Reason))
		}
	}
	return b.String()
}

// Render styles a markdown document for the terminal.
func Render(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	return r.Render(md)
}
