package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"CryptoAllocator/internal/notifier"
	"CryptoAllocator/internal/planner"
	"CryptoAllocator/internal/scheduler"
	"CryptoAllocator/internal/strategy"
)

// serveCmd keeps the plan document fresh in the background.
type serveCmd struct {
	runOnStart bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "refresh the plan on a schedule and on input changes" }
func (*serveCmd) Usage() string {
	return `planner serve [-now]

  Recomputes the plan configured under "planner" on schedule.plan_cron, and whenever the input
  document changes if schedule.watch_input is set. With a Telegram bot configured, every refresh is
  sent to the chat and "/plan <capital> <risk> <term> [top_n]" answers ad-hoc requests.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.runOnStart, "now", os.Getenv("RUN_ON_START") == "true", "Refresh once immediately on start (env RUN_ON_START)")
}

func (c *serveCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log.Println("[INFO] planner starting...")

	cfg, err := loadConfig()
	if err != nil {
		log.Printf("[FATAL] load config: %v", err)
		return subcommands.ExitFailure
	}

	p, err := planner.NewFromConfig(cfg, "")
	if err != nil {
		log.Printf("[FATAL] init planner: %v", err)
		return subcommands.ExitFailure
	}

	req := strategy.Request{
		Capital: cfg.Planner.Capital,
		Risk:    cfg.Planner.Risk,
		Term:    cfg.Planner.Term,
		TopN:    cfg.Planner.TopN,
	}
	if _, _, err := p.Engine.Resolve(req); err != nil {
		log.Printf("[FATAL] planner section: %v", err)
		return subcommands.ExitUsageError
	}

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	} else {
		log.Println("[INFO] telegram not configured, notifications disabled")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, p, tn, req, cfg.Output.Path)
	if cfg.Schedule.PlanCron != "" {
		if err := sched.Register(cfg.Schedule.PlanCron); err != nil {
			log.Printf("[FATAL] register cron task: %v", err)
			return subcommands.ExitFailure
		}
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if cfg.Schedule.WatchInput && cfg.Input.SQLitePath == "" {
		go func() {
			if err := sched.WatchInput(ctx, cfg.Input.Path, scheduler.DefaultDebounce); err != nil {
				log.Printf("[ERROR] input watcher: %v", err)
			}
		}()
	}

	if c.runOnStart {
		log.Println("[INFO] refreshing plan now")
		go sched.RefreshNow("start")
	}

	fmt.Fprintln(os.Stderr, "planner is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] planner stopped")
	return subcommands.ExitSuccess
}
