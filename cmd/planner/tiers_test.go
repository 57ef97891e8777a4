package main

import (
	"strings"
	"testing"

	"CryptoAllocator/internal/model"
	"CryptoAllocator/internal/strategy"
)

func TestFormatTables(t *testing.T) {
	out := formatTables(strategy.BuiltinTables(), "standard")

	for _, want := range []string{
		"| standard * | leve | all | (0, 25) | > 0.40 | ±5% |",
		"| standard * | leve | 1a | (0, 35) | > 0.35 | ±5% |",
		"| standard * | volatil | all | (-30, 60) | > 0.20 | ±40% |",
		"| unclamped | moderado | all | (-15, 40) | > 0.30 | none |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing row %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, "| standard *") > strings.Index(out, "| unclamped") {
		t.Error("tables must be listed in name order")
	}
}

func TestFormatTables_TermOverridesInTermOrder(t *testing.T) {
	table := model.RiskTable{
		Name: "overrides",
		Tiers: map[model.RiskProfile]model.TierPolicy{
			model.RiskModerado: {
				Bounds: model.Bounds{Lower: -15, Upper: 40, MinScore: 0.3},
				TermBounds: map[model.TermLabel]model.Bounds{
					model.Term1a:  {Lower: -20, Upper: 50, MinScore: 0.25},
					model.Term24h: {Lower: -5, Upper: 10, MinScore: 0.35},
					model.Term30d: {Lower: -10, Upper: 30, MinScore: 0.3},
				},
			},
		},
	}

	for i := 0; i < 20; i++ {
		out := formatTables(map[string]model.RiskTable{table.Name: table}, "")
		all := strings.Index(out, "| all |")
		h24 := strings.Index(out, "| 24h |")
		d30 := strings.Index(out, "| 30d |")
		y1 := strings.Index(out, "| 1a |")
		if !(all < h24 && h24 < d30 && d30 < y1) {
			t.Fatalf("expected rows in order all, 24h, 30d, 1a:\n%s", out)
		}
	}
}
