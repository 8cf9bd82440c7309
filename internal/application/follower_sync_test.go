package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cuttestkittensrule/carepartner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func containsKind(kinds []domain.RecordKind, kind domain.RecordKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func TestSyncOneAssemblesSummary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lastReading := now.Add(-5 * time.Minute)
	priorReading := now.Add(-10 * time.Minute)
	bolusTime := now.Add(-2 * time.Hour)
	carbTime := now.Add(-time.Hour)

	client := &fakeDataClient{
		recordsFn: func(_ string, kinds []domain.RecordKind, _, _ time.Time) ([]domain.Record, error) {
			if containsKind(kinds, domain.KindBolus) {
				return []domain.Record{
					{Kind: domain.KindBolus, Time: timePtr(bolusTime)},
					{Kind: domain.KindFood, Time: timePtr(carbTime)},
				}, nil
			}
			return []domain.Record{
				{Kind: domain.KindContinuousGlucose, Time: timePtr(priorReading), Reading: floatPtr(100)},
				{Kind: domain.KindContinuousGlucose, Time: timePtr(lastReading), Reading: floatPtr(120), Trend: domain.TrendSlowRise},
				{Kind: domain.KindBasal, Time: timePtr(lastReading), Rate: floatPtr(0.85), Delivery: domain.DeliveryAutomated},
				{Kind: domain.KindDosingDecision, Time: timePtr(lastReading), CarbsOnBoard: floatPtr(12), InsulinOnBoard: floatPtr(1.5)},
			}, nil
		},
	}

	clock := fixedClock{now: now}
	syncer := NewSynchronizer(client, validGuard(clock), clock, nil)
	summary, err := syncer.SyncOne(context.Background(), domain.FolloweeIdentity{ID: "followee-1", Name: "Alex"})
	require.NoError(t, err)

	require.NotNil(t, summary.Reading)
	assert.Equal(t, 120.0, *summary.Reading)
	require.NotNil(t, summary.Delta)
	assert.Equal(t, 20.0, *summary.Delta)
	assert.Equal(t, "Alex", summary.Name)
	assert.Equal(t, domain.TrendSlowRise, summary.Trend)
	assert.Equal(t, domain.WarningLevelNone, summary.Warning)
	require.NotNil(t, summary.BasalRate)
	assert.Equal(t, 0.85, *summary.BasalRate)
	require.NotNil(t, summary.ActiveCarbs)
	assert.Equal(t, 12.0, *summary.ActiveCarbs)
	require.NotNil(t, summary.ActiveInsulin)
	assert.Equal(t, 1.5, *summary.ActiveInsulin)
	assert.Equal(t, lastReading, *summary.LastReading)
	assert.Equal(t, bolusTime, *summary.LastBolus)
	assert.Equal(t, carbTime, *summary.LastCarbEntry)
	assert.Equal(t, lastReading, *summary.LastActivity)
}

func TestSyncOneFetchWindows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	client := &fakeDataClient{}
	clock := fixedClock{now: now}
	syncer := NewSynchronizer(client, validGuard(clock), clock, nil)

	_, err := syncer.SyncOne(context.Background(), domain.FolloweeIdentity{ID: "followee-1"})
	require.NoError(t, err)

	requests := client.recordedRequests()
	require.Len(t, requests, 2)

	var long, short *recordRequest
	for i := range requests {
		if containsKind(requests[i].kinds, domain.KindBolus) {
			long = &requests[i]
		} else {
			short = &requests[i]
		}
	}
	require.NotNil(t, long)
	require.NotNil(t, short)

	assert.ElementsMatch(t, []domain.RecordKind{domain.KindBolus, domain.KindFood}, long.kinds)
	assert.Equal(t, now.Add(-72*time.Hour), long.start)
	assert.Equal(t, now, long.end)

	assert.ElementsMatch(t, []domain.RecordKind{domain.KindDosingDecision, domain.KindBasal, domain.KindContinuousGlucose}, short.kinds)
	assert.Equal(t, now.Add(-630*time.Second), short.start)
	assert.Equal(t, now, short.end)
}

func TestSyncOneFetchFailureFailsWholeSync(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	client := &fakeDataClient{
		recordsFn: func(_ string, kinds []domain.RecordKind, _, _ time.Time) ([]domain.Record, error) {
			if containsKind(kinds, domain.KindContinuousGlucose) {
				return nil, errors.New("backend unavailable")
			}
			return []domain.Record{{Kind: domain.KindBolus, Time: timePtr(now)}}, nil
		},
	}

	clock := fixedClock{now: now}
	syncer := NewSynchronizer(client, validGuard(clock), clock, nil)
	_, err := syncer.SyncOne(context.Background(), domain.FolloweeIdentity{ID: "followee-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unavailable")
}

func TestSyncOneEmptyBatchesYieldEmptySummary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := fixedClock{now: now}
	syncer := NewSynchronizer(&fakeDataClient{}, validGuard(clock), clock, nil)

	summary, err := syncer.SyncOne(context.Background(), domain.FolloweeIdentity{ID: "followee-1"})
	require.NoError(t, err)

	assert.Nil(t, summary.Reading)
	assert.Nil(t, summary.Delta)
	assert.Equal(t, "User", summary.Name)
	assert.Nil(t, summary.BasalRate)
	assert.Nil(t, summary.ActiveCarbs)
	assert.Nil(t, summary.ActiveInsulin)
	assert.Nil(t, summary.LastActivity)
	assert.Equal(t, domain.WarningLevelNone, summary.Warning)
}
