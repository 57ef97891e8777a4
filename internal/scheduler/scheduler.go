package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"sync"

	"CryptoAllocator/internal/model"
	"CryptoAllocator/internal/notifier"
	"CryptoAllocator/internal/planner"
	"CryptoAllocator/internal/strategy"

	"github.com/robfig/cron/v3"
)

// Scheduler re-runs the configured plan on a cron schedule and on demand.
// Runs are serialized; each one is independent of the previous.
type Scheduler struct {
	Cron       *cron.Cron
	Planner    *planner.Planner
	Notifier   *notifier.TelegramNotifier // nil disables notifications
	Request    strategy.Request
	OutputPath string
	Ctx        context.Context

	mu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p *planner.Planner, tn *notifier.TelegramNotifier, req strategy.Request, outPath string) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Planner:    p,
		Notifier:   tn,
		Request:    req,
		OutputPath: outPath,
		Ctx:        ctx,
	}
}

// Register registers the plan refresh task.
func (s *Scheduler) Register(planCron string) error {
	if planCron == "" {
		return errors.New("plan cron expression is empty")
	}
	if _, err := s.Cron.AddFunc(planCron, func() { s.RefreshNow("cron") }); err != nil {
		return fmt.Errorf("register plan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RefreshNow runs the configured plan, writes the output document and notifies the result.
func (s *Scheduler) RefreshNow(trigger string) (*model.AllocationPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("[INFO] refreshing plan (%s)", trigger)
	plan, err := s.Planner.RunAndWrite(s.Request, s.OutputPath)
	if err != nil {
		log.Printf("[ERROR] plan refresh: %v", err)
		s.trySend(fmt.Sprintf("❌ plan refresh failed: %s", html.EscapeString(err.Error())))
		return nil, err
	}
	s.trySend(notifier.FormatPlan(plan))
	return plan, nil
}

// HandleCommand processes a chat command and returns a reply.
// Ad-hoc plans are computed but never written to the output document.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.Usage
	}
	switch fields[0] {
	case "/plan":
		req := s.Request
		if len(fields) > 1 {
			var err error
			req, err = planner.ParseArgs(fields[1:], s.Request.TopN)
			if err != nil {
				return html.EscapeString(err.Error()) + "\n\n" + notifier.Usage
			}
		}
		s.mu.Lock()
		plan, err := s.Planner.Run(req)
		s.mu.Unlock()
		if err != nil {
			if model.IsValidation(err) {
				return html.EscapeString(err.Error()) + "\n\n" + notifier.Usage
			}
			log.Printf("[ERROR] command plan: %v", err)
			return "❌ " + html.EscapeString(err.Error())
		}
		return notifier.FormatPlan(plan)
	case "/refresh":
		// the refresh result is delivered by RefreshNow itself
		s.RefreshNow("command")
		return ""
	default:
		return notifier.Usage
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
