package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuttestkittensrule/carepartner/internal/domain"
	"github.com/cuttestkittensrule/carepartner/internal/ports"
	"golang.org/x/sync/errgroup"
)

// Fetch windows. Boluses and carb entries are infrequent, so they get a long
// window; glucose, basal and dosing data arrive every few minutes, so a
// short window is enough to find the latest.
const (
	longFetchWindow  = 72 * time.Hour
	shortFetchWindow = 630 * time.Second
)

var (
	longWindowKinds  = []domain.RecordKind{domain.KindBolus, domain.KindFood}
	shortWindowKinds = []domain.RecordKind{domain.KindDosingDecision, domain.KindBasal, domain.KindContinuousGlucose}
)

// Synchronizer produces the summary for a single followee by fetching the
// two record windows concurrently and reducing each batch.
type Synchronizer struct {
	client ports.DataClient
	tokens *TokenGuard
	clock  ports.Clock
	logger *slog.Logger
}

func NewSynchronizer(client ports.DataClient, tokens *TokenGuard, clock ports.Clock, logger *slog.Logger) *Synchronizer {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{client: client, tokens: tokens, clock: clock, logger: logger}
}

// SyncOne assembles the followee's summary. Either fetch failing fails the
// whole sync; no partial summary is produced.
func (s *Synchronizer) SyncOne(ctx context.Context, followee domain.FolloweeIdentity) (domain.FolloweeSummary, error) {
	start := s.clock.Now()

	var (
		glucose             domain.GlucoseStatus
		basalRate           *float64
		activeCarbs         *float64
		activeInsulin       *float64
		lastBolus, lastCarb *time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.fetch(gctx, followee.ID, longWindowKinds, longFetchWindow)
		if err != nil {
			return err
		}
		lastBolus = domain.LastBolusTime(records)
		lastCarb = domain.LastCarbTime(records)
		return nil
	})
	g.Go(func() error {
		records, err := s.fetch(gctx, followee.ID, shortWindowKinds, shortFetchWindow)
		if err != nil {
			return err
		}
		glucose = domain.LatestGlucose(records)
		basalRate = domain.LatestBasalRate(records)
		activeCarbs, activeInsulin = domain.ActiveDosing(records)
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.FolloweeSummary{}, fmt.Errorf("sync followee %s: %w", followee.ID, err)
	}

	summary := domain.FolloweeSummary{
		Reading:       glucose.Reading,
		Delta:         glucose.Delta,
		Name:          followee.DisplayName(),
		BasalRate:     basalRate,
		ActiveCarbs:   activeCarbs,
		ActiveInsulin: activeInsulin,
		LastReading:   glucose.Time,
		LastBolus:     lastBolus,
		LastCarbEntry: lastCarb,
		Trend:         glucose.Trend,
		Warning:       glucose.Warning,
		LastActivity:  domain.MostRecentActivity(glucose.Time, lastBolus, lastCarb),
	}

	s.logger.Debug("followee synced",
		"followee", followee.ID,
		"elapsed", s.clock.Now().Sub(start),
	)
	return summary, nil
}

func (s *Synchronizer) fetch(ctx context.Context, followeeID string, kinds []domain.RecordKind, window time.Duration) ([]domain.Record, error) {
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	records, err := s.client.ListRecords(ctx, token, followeeID, kinds, now.Add(-window), now)
	if err != nil {
		return nil, fmt.Errorf("fetch %v records: %w", kinds, err)
	}
	return records, nil
}
