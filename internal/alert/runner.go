package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// maxConcurrentDispatch bounds the fan-out within one scan's result set.
const maxConcurrentDispatch = 8

// Runner drives full scan-and-dispatch cycles, either from the daily cron
// trigger or on demand via RunCycle. Both paths share the same code.
type Runner struct {
	scanner    *Scanner
	dispatcher *Dispatcher
	leadDays   []int
	schedule   string
	log        *zap.Logger

	// clock is injectable for tests; defaults to time.Now.
	clock func() time.Time

	cron *cron.Cron

	mu      sync.Mutex
	running bool
}

func NewRunner(scanner *Scanner, dispatcher *Dispatcher, leadDays []int, schedule string, log *zap.Logger) *Runner {
	return &Runner{
		scanner:    scanner,
		dispatcher: dispatcher,
		leadDays:   leadDays,
		schedule:   schedule,
		log:        log,
		clock:      time.Now,
	}
}

// SetClock replaces the time source. Test hook.
func (r *Runner) SetClock(clock func() time.Time) {
	r.clock = clock
}

// Start arms the cron trigger. A firing that arrives while a cycle is still
// running is dropped, so cycles never overlap. ctx cancels in-flight work
// when Stop is called or the context ends.
func (r *Runner) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := c.AddFunc(r.schedule, func() {
		if err := r.RunCycle(ctx); err != nil {
			r.log.Error("scheduled alert cycle finished with errors", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("register alert schedule %q: %w", r.schedule, err)
	}

	r.cron = c
	c.Start()
	r.log.Info("alert scheduler started",
		zap.String("schedule", r.schedule),
		zap.Ints("lead_days", r.leadDays),
	)
	return nil
}

// Stop disarms the trigger and waits for a running cycle to return.
func (r *Runner) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
	r.log.Info("alert scheduler stopped")
}

// RunCycle executes one full scan-and-dispatch cycle across all configured
// lead times. A store failure on one lead time does not stop the others,
// and a failure on one license does not stop the rest of its batch. The
// returned error summarizes how many items failed; the cycle itself always
// runs to completion.
func (r *Runner) RunCycle(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		r.log.Warn("alert cycle already running, dropping this run")
		return nil
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	now := r.clock()
	matchDate := MatchDate(now)
	r.log.Info("alert cycle starting", zap.String("match_date", matchDate))

	var failed int
	for _, leadDays := range r.leadDays {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("alert cycle cancelled: %w", err)
		}

		licenses, err := r.scanner.Scan(ctx, now, leadDays)
		if err != nil {
			// Transient store failure: this window's alerts are lost for
			// today, but the remaining lead times still run.
			r.log.Error("expiry scan failed", zap.Int("lead_days", leadDays), zap.Error(err))
			failed++
			continue
		}

		failed += r.dispatchBatch(ctx, licenses, leadDays, matchDate)
	}

	if failed > 0 {
		return fmt.Errorf("alert cycle completed with %d failure(s)", failed)
	}
	r.log.Info("alert cycle complete")
	return nil
}

// dispatchBatch fans one scan's result set out to the dispatcher with
// bounded concurrency and returns the number of failed items. Email sends
// are independent, and the marker store's atomic check-and-set keeps
// concurrent dispatch safe for the same license and window.
func (r *Runner) dispatchBatch(ctx context.Context, licenses []ExpiringLicense, leadDays int, matchDate string) int {
	var (
		wg     sync.WaitGroup
		sem    = make(chan struct{}, maxConcurrentDispatch)
		mu     sync.Mutex
		failed int
	)

	for _, lic := range licenses {
		lic := lic
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := r.dispatcher.Dispatch(ctx, lic, leadDays, matchDate); err != nil {
				r.log.Error("alert dispatch failed",
					zap.String("license_id", lic.LicenseID),
					zap.Int("lead_days", leadDays),
					zap.Error(err),
				)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return failed
}
