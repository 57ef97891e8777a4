package notifier

import (
	"fmt"
	"html"
	"strings"

	"CryptoAllocator/internal/model"
	"CryptoAllocator/internal/report"
)

// FormatPlan formats an allocation plan into a Telegram HTML message.
func FormatPlan(plan *model.AllocationPlan) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Allocation plan</b> | %s · %s\n\n", plan.Risk, plan.Term.Label))
	b.WriteString(fmt.Sprintf("Capital: %s (table %s)\n\n", report.USD(plan.Capital), html.EscapeString(plan.TableName)))

	if len(plan.Positions) == 0 {
		b.WriteString("No candidate is eligible for this risk profile.\n")
		return b.String()
	}

	for i, row := range report.Positions(plan) {
		final := row.ValueUSD
		if n := len(row.Projection); n > 0 {
			final = row.Projection[n-1]
		}
		b.WriteString(fmt.Sprintf("%d. <b>%s</b> %s\n", i+1, html.EscapeString(row.Symbol), html.EscapeString(row.Name)))
		b.WriteString(fmt.Sprintf("   Invested: %s → %s | prob. %s\n", report.USD(row.ValueUSD), report.USD(final), row.Probability))
		if row.Reason != "" {
			b.WriteString(fmt.Sprintf("   <i>%s</i>\n", html.EscapeString(row.Reason)))
		}
	}

	projected := plan.ProjectedValue()
	b.WriteString(fmt.Sprintf("\n💰 Projected value: %s (gain %s)\n", report.USD(projected), report.USD(projected-plan.TotalInvested())))
	if len(plan.Skipped) > 0 {
		b.WriteString(fmt.Sprintf("⚠️ %d candidate(s) skipped\n", len(plan.Skipped)))
	}
	return b.String()
}

// Usage is the reply to unknown commands.
const Usage = "Available commands:\n• /plan &lt;capital&gt; &lt;risk&gt; &lt;term&gt; [top_n]\n  risk: leve | moderado | volatil\n  term: 24h | 30d | 1a"
