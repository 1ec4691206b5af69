// file: internals/features/finance/ledger/scheduler/generation_scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"schoolledger_backend/internals/features/finance/ledger/model"
	"schoolledger_backend/internals/features/finance/ledger/service"
)

const DefaultSchedule = "1 0 * * *"

type Config struct {
	Schedule string         // standard 5-field cron spec
	Location *time.Location // zone the schedule is evaluated in
	Timeout  time.Duration  // per run
}

// GenerationScheduler drives the monthly generator from a daily cron tick.
// Daily is enough: every pass is idempotent, so the first tick of a month
// bills it and the rest only confirm.
type GenerationScheduler struct {
	ledger *service.Ledger
	cfg    Config
	cron   *cron.Cron

	mu   sync.Mutex
	base context.Context
}

func New(ledger *service.Ledger, cfg Config) (*GenerationScheduler, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", cfg.Schedule, err)
	}

	c := cron.New(
		cron.WithLocation(cfg.Location),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	return &GenerationScheduler{ledger: ledger, cfg: cfg, cron: c, base: context.Background()}, nil
}

// Start bills the current period right away, then hands over to cron.
// Jobs started later inherit ctx; cancelling it aborts an in-flight run.
func (s *GenerationScheduler) Start(ctx context.Context) (service.RunSummary, error) {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()

	sum, err := s.run(ctx, model.RunTriggerStartup)
	if err != nil {
		log.Printf("[SCHEDULER] startup run: %v", err)
	}

	if _, aerr := s.cron.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.run(s.context(), model.RunTriggerScheduled); err != nil {
			log.Printf("[SCHEDULER] scheduled run: %v", err)
		}
	}); aerr != nil {
		return sum, fmt.Errorf("add cron job: %w", aerr)
	}
	s.cron.Start()
	log.Printf("[SCHEDULER] started schedule=%q tz=%s timeout=%s", s.cfg.Schedule, s.cfg.Location, s.cfg.Timeout)
	return sum, err
}

// Trigger is the on-demand run. It queues behind any pass in progress.
func (s *GenerationScheduler) Trigger(ctx context.Context) (service.RunSummary, error) {
	return s.run(ctx, model.RunTriggerManual)
}

// Stop halts the cron loop. The returned context is done once a running
// job has finished.
func (s *GenerationScheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *GenerationScheduler) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base
}

func (s *GenerationScheduler) run(parent context.Context, trigger string) (service.RunSummary, error) {
	ctx, cancel := context.WithTimeout(parent, s.cfg.Timeout)
	sum, err := s.ledger.Generator.GenerateCurrent(ctx, trigger)
	cancel()

	// reconciliation gets its own budget; a slow pass must not starve it
	rctx, rcancel := context.WithTimeout(parent, s.cfg.Timeout)
	defer rcancel()
	rec, rerr := s.ledger.Mirrors.Reconcile(rctx)
	if rerr != nil {
		log.Printf("[MIRROR] reconcile: %v", rerr)
	} else if rec.Deferred > 0 {
		log.Printf("[MIRROR] %d salary expense(s) waiting for LEDGER_SYSTEM_ACTOR_ID", rec.Deferred)
	}

	if s.ledger.Clock.Now().Day() == 1 {
		logOverdue(sum)
	}
	return sum, err
}

func logOverdue(sum service.RunSummary) {
	if len(sum.OverdueWatch) == 0 {
		log.Printf("[SCHEDULER] %s opened with no overdue students", sum.Period)
		return
	}
	log.Printf("[SCHEDULER] %s opened with %d student(s) holding unpaid fees from earlier months", sum.Period, len(sum.OverdueWatch))
	for _, id := range sum.OverdueWatch {
		log.Printf("[SCHEDULER]   overdue student=%s", id)
	}
}
