package domain

import "time"

// GlucoseStatus is the reduction of a record batch to the current glucose
// picture: the most recent reading, its delta from the reading before it,
// and the warning classification of the current reading only.
type GlucoseStatus struct {
	Reading *float64
	Delta   *float64
	Time    *time.Time
	Trend   Trend
	Warning WarningLevel
}

// LatestGlucose reduces a batch to its GlucoseStatus. Records without a
// timestamp sort as oldest. When two records carry the same timestamp the
// one that appeared first in the batch wins; record order within a batch is
// upload order, which makes the selection deterministic.
func LatestGlucose(records []Record) GlucoseStatus {
	var current, prior *Record
	for i := range records {
		r := &records[i]
		if r.Kind != KindContinuousGlucose {
			continue
		}
		switch {
		case current == nil || timeOrZero(r.Time).After(timeOrZero(current.Time)):
			prior = current
			current = r
		case prior == nil || timeOrZero(r.Time).After(timeOrZero(prior.Time)):
			prior = r
		}
	}

	if current == nil {
		return GlucoseStatus{}
	}

	status := GlucoseStatus{
		Reading: current.Reading,
		Time:    current.Time,
		Trend:   current.Trend,
	}
	if current.Reading != nil {
		status.Warning = ClassifyReading(*current.Reading)
		if prior != nil && prior.Reading != nil {
			delta := *current.Reading - *prior.Reading
			status.Delta = &delta
		}
	}
	return status
}

// LatestBasalRate returns the rate of the most recent basal record, nil when
// the batch holds none. Delivery type (automated vs scheduled) does not
// affect the selection.
func LatestBasalRate(records []Record) *float64 {
	if r := latestOfKind(records, KindBasal); r != nil {
		return r.Rate
	}
	return nil
}

// ActiveDosing returns the carbs-on-board and insulin-on-board pair from the
// most recent dosing decision, both nil when there is none.
func ActiveDosing(records []Record) (carbs, insulin *float64) {
	if r := latestOfKind(records, KindDosingDecision); r != nil {
		return r.CarbsOnBoard, r.InsulinOnBoard
	}
	return nil, nil
}

// LastBolusTime returns the timestamp of the most recent bolus, nil when the
// batch holds none.
func LastBolusTime(records []Record) *time.Time {
	if r := latestOfKind(records, KindBolus); r != nil {
		return r.Time
	}
	return nil
}

// LastCarbTime returns the timestamp of the most recent carb entry, nil when
// the batch holds none.
func LastCarbTime(records []Record) *time.Time {
	if r := latestOfKind(records, KindFood); r != nil {
		return r.Time
	}
	return nil
}

// MostRecentActivity returns the latest of the given timestamps, nil when
// all are nil.
func MostRecentActivity(times ...*time.Time) *time.Time {
	var latest *time.Time
	for _, t := range times {
		if t == nil {
			continue
		}
		if latest == nil || t.After(*latest) {
			latest = t
		}
	}
	return latest
}

// latestOfKind keeps the first-seen record among equal timestamps, same
// tie-break rule as LatestGlucose.
func latestOfKind(records []Record, kind RecordKind) *Record {
	var best *Record
	for i := range records {
		r := &records[i]
		if r.Kind != kind {
			continue
		}
		if best == nil || timeOrZero(r.Time).After(timeOrZero(best.Time)) {
			best = r
		}
	}
	return best
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
