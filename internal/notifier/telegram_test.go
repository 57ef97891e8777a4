package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"CryptoAllocator/internal/model"
	"CryptoAllocator/internal/strategy"
)

func newTestNotifier(srv *httptest.Server) *TelegramNotifier {
	tn := NewTelegramNotifier("TOKEN", "1001", "")
	tn.APIBase = srv.URL
	return tn
}

func TestSend(t *testing.T) {
	payloads := make(chan map[string]string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		payloads <- body
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	if err := newTestNotifier(srv).Send(context.Background(), "<b>hi</b>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := <-payloads
	if got["chat_id"] != "1001" || got["text"] != "<b>hi</b>" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestSend_APIError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newTestNotifier(srv).SendWithRetry(context.Background(), "x", 0)
	if err == nil || !strings.Contains(err.Error(), "status 400") {
		t.Errorf("expected a status error, got %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected a single attempt, got %d", n)
	}
}

func TestStartPolling_RepliesToConfiguredChat(t *testing.T) {
	replies := make(chan map[string]string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if r.URL.Query().Get("offset") == "0" {
				fmt.Fprint(w, `{"ok":true,"result":[{"update_id":7,"message":{"text":" /plan 100 leve 30d ","chat":{"id":1001}}}]}`)
				return
			}
			time.Sleep(10 * time.Millisecond)
			fmt.Fprint(w, `{"ok":true,"result":[]}`)
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			select {
			case replies <- body:
			default:
			}
			fmt.Fprint(w, `{"ok":true}`)
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var command string
	go func() {
		newTestNotifier(srv).StartPolling(ctx, func(cmd string) string {
			command = cmd
			return "ok"
		})
		close(done)
	}()

	select {
	case body := <-replies:
		if body["chat_id"] != "1001" || body["text"] != "ok" {
			t.Errorf("unexpected reply: %v", body)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	<-done

	if command != "/plan 100 leve 30d" {
		t.Errorf("expected a trimmed command, got %q", command)
	}
}

func TestStartPolling_IgnoresOtherChats(t *testing.T) {
	var sends atomic.Int32
	polled := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if r.URL.Query().Get("offset") == "0" {
				fmt.Fprint(w, `{"ok":true,"result":[{"update_id":7,"message":{"text":"/refresh","chat":{"id":999}}}]}`)
				return
			}
			select {
			case polled <- struct{}{}:
			default:
			}
			time.Sleep(10 * time.Millisecond)
			fmt.Fprint(w, `{"ok":true,"result":[]}`)
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			sends.Add(1)
			fmt.Fprint(w, `{"ok":true}`)
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var handled atomic.Int32
	go func() {
		newTestNotifier(srv).StartPolling(ctx, func(string) string {
			handled.Add(1)
			return "ok"
		})
		close(done)
	}()

	select {
	case <-polled:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not advance past the first update")
	}
	cancel()
	<-done

	if n := handled.Load(); n != 0 {
		t.Errorf("a message from another chat must not reach the handler, got %d calls", n)
	}
	if n := sends.Load(); n != 0 {
		t.Errorf("no reply may be sent to another chat, got %d", n)
	}
}

func TestFormatPlan(t *testing.T) {
	plan := &model.AllocationPlan{
		Capital:   1000,
		Risk:      model.RiskVolatil,
		Term:      strategy.Terms[model.Term1a],
		TableName: "standard",
		Positions: []model.AllocatedPosition{{
			Asset:          model.CandidateAsset{Symbol: "sol", Name: "Solana", CurrentPrice: 150, Score: 0.8, Reason: "RSI < 30 & volume"},
			Weight:         1,
			AmountInvested: 1000,
			Units:          6.666667,
			Projection:     []float64{1000, 1100, 1210},
		}},
		Skipped: []model.Skip{{Symbol: "bad", Reason: "non-finite units"}},
	}

	msg := FormatPlan(plan)
	for _, want := range []string{"volatil · 1a", "<b>SOL</b> Solana", "$1,000.00", "$1,210.00", "80.0%",
		"RSI &lt; 30 &amp; volume", "1 candidate(s) skipped"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}

	empty := FormatPlan(&model.AllocationPlan{Risk: model.RiskLeve, Term: strategy.Terms[model.Term30d]})
	if !strings.Contains(empty, "No candidate is eligible") {
		t.Errorf("expected the empty-plan notice:\n%s", empty)
	}
}
