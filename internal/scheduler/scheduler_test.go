package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"CryptoAllocator/internal/loader"
	"CryptoAllocator/internal/notifier"
	"CryptoAllocator/internal/planner"
	"CryptoAllocator/internal/strategy"
)

func newTestScheduler(t *testing.T) (*Scheduler, string) {
	t.Helper()
	src := &loader.StaticSource{Records: []loader.Record{
		{"name": "Bitcoin", "symbol": "btc", "image": "", "current_price": 65000.0, "price_change_24h": 0.8,
			"price_change_30d": 10.0, "score": 0.8, "reason": "trend"},
		{"name": "Ether", "symbol": "eth", "image": "", "current_price": 3200.0, "price_change_24h": -1.1,
			"price_change_30d": 5.0, "score": 0.4, "reason": "volume"},
	}}
	out := filepath.Join(t.TempDir(), "recomendaciones.json")
	req := strategy.Request{Capital: 1000, Risk: "moderado", Term: "30d", TopN: 5}
	return NewScheduler(context.Background(), planner.New(src, strategy.StandardTable, 0), nil, req, out), out
}

func TestHandleCommand(t *testing.T) {
	s, out := newTestScheduler(t)

	tests := []struct {
		cmd  string
		want string
	}{
		{"/plan", "<b>BTC</b>"},
		{"/plan 500 volatil 1a 1", "volatil · 1a"},
		{"/plan 5 moderado 30d", "below the minimum"},
		{"/plan 1000 inventado 30d", "invalid risk tier"},
		{"/plan 1000 moderado", "usage:"},
		{"/plan 1000 leve 30d", "<b>BTC</b>"},
		{"/start", "Available commands"},
		{"", "Available commands"},
	}
	for _, tt := range tests {
		got := s.HandleCommand(tt.cmd)
		if !strings.Contains(got, tt.want) {
			t.Errorf("%q: reply missing %q:\n%s", tt.cmd, tt.want, got)
		}
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("ad-hoc plans must not write the output document, stat err: %v", err)
	}
	if got := s.HandleCommand("/plan 1000 leve 30d"); strings.Contains(got, "ETH") {
		t.Errorf("leve must exclude a score of exactly 0.4:\n%s", got)
	}
}

func TestRefreshNow(t *testing.T) {
	s, out := newTestScheduler(t)

	plan, err := s.RefreshNow("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Positions) != 2 {
		t.Errorf("expected 2 positions, got %d", len(plan.Positions))
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected the output document to exist: %v", err)
	}

	if got := s.HandleCommand("/refresh"); got != "" {
		t.Errorf("refresh replies through the notifier, got %q", got)
	}
}

func TestRegister(t *testing.T) {
	s, _ := newTestScheduler(t)
	if err := s.Register(""); err == nil {
		t.Error("expected an error for an empty expression")
	}
	if err := s.Register("not a cron"); err == nil {
		t.Error("expected an error for an invalid expression")
	}
	if err := s.Register("0 */15 * * * *"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if n := len(s.Cron.Entries()); n != 1 {
		t.Errorf("expected 1 entry, got %d", n)
	}
}

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "criptos_predichas.json")

	tests := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: target, Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: target, Op: fsnotify.Rename}, true},
		{fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: target, Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: filepath.Join(dir, "other.json"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		if got := relevant(tt.ev, target); got != tt.want {
			t.Errorf("%v: got %v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestWatchLoop_Debounces(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "criptos_predichas.json")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		t.Fatal(err)
	}

	var fired atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchLoop(ctx, w, target, 100*time.Millisecond, func() { fired.Add(1) }) }()

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte("[]"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(filepath.Join(dir, "unrelated.json"), []byte("[]"), 0644)

	deadline := time.Now().Add(3 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if n := fired.Load(); n != 1 {
		t.Errorf("expected a single debounced refresh, got %d", n)
	}
}

func TestUsageListsPlanCommand(t *testing.T) {
	if !strings.Contains(notifier.Usage, "/plan") {
		t.Error("usage must document /plan")
	}
}
