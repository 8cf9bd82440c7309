package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cuttestkittensrule/carepartner/internal/domain"
	"github.com/cuttestkittensrule/carepartner/internal/ports"
)

// DefaultSyncPeriod is the minimum time between the starts of two
// consecutive sync cycles.
const DefaultSyncPeriod = 5 * time.Minute

// Scheduler drives the steady-state polling loop: discover followees, sync
// them all concurrently, merge successes into the accumulator, publish a
// snapshot, sleep out the remainder of the cycle period.
//
// The accumulator is written only by the Run loop; observers only ever see
// cloned snapshots, so they need no locking.
type Scheduler struct {
	discovery *Discovery
	syncer    *Synchronizer
	tokens    *TokenGuard
	sink      ports.SummarySink
	clock     ports.Clock
	logger    *slog.Logger
	period    time.Duration

	summaries domain.SummaryMap
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewScheduler(discovery *Discovery, syncer *Synchronizer, tokens *TokenGuard, sink ports.SummarySink, clock ports.Clock, logger *slog.Logger, period time.Duration) *Scheduler {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if period <= 0 {
		period = DefaultSyncPeriod
	}
	return &Scheduler{
		discovery: discovery,
		syncer:    syncer,
		tokens:    tokens,
		sink:      sink,
		clock:     clock,
		logger:    logger,
		period:    period,
		summaries: make(domain.SummaryMap),
		sleep:     sleepContext,
	}
}

// Run loops until ctx is cancelled and then returns ctx.Err(). The one-time
// setup failing is not fatal: the first cycle's token demand retries it
// naturally.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.tokens.Setup(ctx); err != nil {
		s.logger.Warn("initial token setup failed, continuing", "error", err)
	}

	for {
		start := s.clock.Now()
		s.runCycle(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.sleep(ctx, remainingBudget(s.period, s.clock.Now().Sub(start))); err != nil {
			return err
		}
	}
}

// runCycle performs one discovery + fan-out pass. A per-followee failure
// leaves that followee's previous summary in place; a discovery failure
// skips publication entirely for this cycle.
func (s *Scheduler) runCycle(ctx context.Context) {
	followees, err := s.discovery.ListFollowees(ctx)
	if err != nil {
		s.logger.Error("followee discovery failed", "error", err)
		return
	}

	type outcome struct {
		id      string
		summary domain.FolloweeSummary
		err     error
	}

	results := make(chan outcome, len(followees))
	var wg sync.WaitGroup
	for _, followee := range followees {
		wg.Add(1)
		go func(followee domain.FolloweeIdentity) {
			defer wg.Done()
			summary, err := s.syncer.SyncOne(ctx, followee)
			results <- outcome{id: followee.ID, summary: summary, err: err}
		}(followee)
	}
	wg.Wait()
	close(results)

	for result := range results {
		if result.err != nil {
			s.logger.Warn("followee sync failed, keeping previous summary",
				"followee", result.id,
				"error", result.err,
			)
			continue
		}
		s.summaries[result.id] = result.summary
	}

	s.sink.PublishSummaries(s.summaries.Clone())
}

func remainingBudget(period, elapsed time.Duration) time.Duration {
	if elapsed >= period {
		return 0
	}
	return period - elapsed
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
