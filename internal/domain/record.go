package domain

import "time"

// RecordKind tags a telemetry record with its Tidepool data type.
type RecordKind string

const (
	KindContinuousGlucose RecordKind = "cbg"
	KindBasal             RecordKind = "basal"
	KindDosingDecision    RecordKind = "dosingDecision"
	KindBolus             RecordKind = "bolus"
	KindFood              RecordKind = "food"
)

type DeliveryType string

const (
	DeliveryAutomated DeliveryType = "automated"
	DeliveryScheduled DeliveryType = "scheduled"
)

// Record is a single device telemetry record. Only the fields that apply to
// its Kind are set; everything else stays nil. Time may be absent on records
// the device uploaded without a timestamp.
type Record struct {
	Kind RecordKind
	Time *time.Time

	// KindContinuousGlucose
	Reading *float64 // mg/dL
	Trend   Trend

	// KindBasal
	Rate     *float64 // units/hour
	Delivery DeliveryType

	// KindDosingDecision
	CarbsOnBoard   *float64 // grams
	InsulinOnBoard *float64 // units
}
