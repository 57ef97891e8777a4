package planner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"CryptoAllocator/internal/loader"
	"CryptoAllocator/internal/model"
	"CryptoAllocator/internal/strategy"
)

// countingSource records how often the input is read.
type countingSource struct {
	loader.StaticSource
	loads int
}

func (s *countingSource) Load() (*loader.RecordSet, error) {
	s.loads++
	return s.StaticSource.Load()
}

func candidates() []loader.Record {
	return []loader.Record{
		{"name": "Bitcoin", "symbol": "btc", "image": "", "current_price": 65000.0, "price_change_24h": 0.8,
			"price_change_30d": 10.0, "score": 0.8, "reason": "trend"},
		{"name": "Ether", "symbol": "eth", "image": "", "current_price": 3200.0, "price_change_24h": -1.1,
			"price_change_30d": 5.0, "score": 0.4, "reason": "volume"},
		{"name": "Pepe", "symbol": "pepe", "image": "", "current_price": 0.00001, "price_change_24h": 12.0,
			"price_change_30d": 55.0, "score": 0.9, "reason": "hype"},
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args []string
		want strategy.Request
		err  bool
	}{
		{[]string{"1000", "moderado", "30d"}, strategy.Request{Capital: 1000, Risk: "moderado", Term: "30d", TopN: 5}, false},
		{[]string{"$250.5", "LEVE", "1A", "3"}, strategy.Request{Capital: 250.5, Risk: "leve", Term: "1a", TopN: 3}, false},
		{[]string{"1000", "moderado"}, strategy.Request{}, true},
		{[]string{"mil", "moderado", "30d"}, strategy.Request{}, true},
		{[]string{"1000", "moderado", "30d", "three"}, strategy.Request{}, true},
		{[]string{"1", "2", "3", "4", "5"}, strategy.Request{}, true},
	}
	for _, tt := range tests {
		got, err := ParseArgs(tt.args, 5)
		if tt.err {
			if !errors.Is(err, ErrUsage) {
				t.Errorf("%v: expected ErrUsage, got %v", tt.args, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%v: unexpected error: %v", tt.args, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%v: got %+v, want %+v", tt.args, got, tt.want)
		}
	}
}

func TestRun(t *testing.T) {
	src := &countingSource{StaticSource: loader.StaticSource{Records: candidates()}}
	p := New(src, strategy.StandardTable, 0)

	plan, err := p.Run(strategy.Request{Capital: 1000, Risk: "moderado", Term: "30d", TopN: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Positions) != 2 {
		t.Fatalf("expected 2 positions (pepe is outside moderado), got %d", len(plan.Positions))
	}
	if plan.Positions[0].Asset.Symbol != "btc" || plan.Positions[0].Projection[0] != 666.67 {
		t.Errorf("unexpected first position: %+v", plan.Positions[0])
	}
	if plan.Positions[1].Projection[0] != 333.33 {
		t.Errorf("unexpected second position: %+v", plan.Positions[1])
	}
	if src.loads != 1 {
		t.Errorf("expected the input to be read once, got %d", src.loads)
	}
}

func TestRun_FailsFastOnInvalidParameters(t *testing.T) {
	src := &countingSource{StaticSource: loader.StaticSource{Records: candidates()}}
	p := New(src, strategy.StandardTable, 0)

	tests := []strategy.Request{
		{Capital: 5, Risk: "moderado", Term: "30d", TopN: 5},
		{Capital: 1000, Risk: "inventado", Term: "30d", TopN: 5},
		{Capital: 1000, Risk: "moderado", Term: "2w", TopN: 5},
		{Capital: 1000, Risk: "moderado", Term: "30d", TopN: 0},
	}
	for _, req := range tests {
		if _, err := p.Run(req); !model.IsValidation(err) {
			t.Errorf("%+v: expected a validation error, got %v", req, err)
		}
	}
	if src.loads != 0 {
		t.Errorf("invalid parameters must not read the input, got %d reads", src.loads)
	}
}

func TestRun_MissingFieldAborts(t *testing.T) {
	recs := candidates()
	for _, r := range recs {
		delete(r, "score")
	}
	p := New(&loader.StaticSource{Records: recs}, strategy.StandardTable, 0)

	_, err := p.Run(strategy.Request{Capital: 1000, Risk: "volatil", Term: "24h", TopN: 5})
	var mf *model.MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
}

func TestRunAndWrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "public", "data", "recomendaciones.json")
	p := New(&loader.StaticSource{Records: candidates()}, strategy.StandardTable, 0)

	plan, err := p.RunAndWrite(strategy.Request{Capital: 1000, Risk: "moderado", Term: "30d", TopN: 5}, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Positions) != 2 || !strings.Contains(string(data), `"symbol": "BTC"`) {
		t.Errorf("unexpected document:\n%s", data)
	}
}

func TestRun_RejectsNonFiniteCapital(t *testing.T) {
	src := &countingSource{StaticSource: loader.StaticSource{Records: candidates()}}
	p := New(src, strategy.StandardTable, 0)

	for _, arg := range []string{"Inf", "+Inf", "$inf", "NaN"} {
		req, err := ParseArgs([]string{arg, "moderado", "30d"}, 5)
		if err != nil {
			t.Fatalf("%s: unexpected parse error: %v", arg, err)
		}
		_, err = p.Run(req)
		if !errors.Is(err, model.ErrInvalidCapital) {
			t.Errorf("%s: expected ErrInvalidCapital, got %v", arg, err)
		}
	}
	if src.loads != 0 {
		t.Errorf("non-finite capital must not read the input, got %d reads", src.loads)
	}
}
