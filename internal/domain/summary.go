package domain

import "time"

// FolloweeIdentity identifies one account the current user may view. Valid
// for a single discovery cycle.
type FolloweeIdentity struct {
	ID   string
	Name string
}

// DisplayName returns the profile name, falling back to a generic label for
// followees who never filled one in.
func (f FolloweeIdentity) DisplayName() string {
	if f.Name == "" {
		return "User"
	}
	return f.Name
}

type Permission string

const PermissionView Permission = "view"

// TrustRelationship is one entry of the current user's trust list as the
// backend reports it.
type TrustRelationship struct {
	UserID      string
	FullName    string
	Permissions []Permission
}

func (t TrustRelationship) CanView() bool {
	for _, p := range t.Permissions {
		if p == PermissionView {
			return true
		}
	}
	return false
}

// FolloweeSummary is the derived per-followee snapshot ("pill"): the latest
// glucose picture plus dosing state. Replaced wholesale each cycle, never
// mutated in place.
type FolloweeSummary struct {
	Reading       *float64 // mg/dL
	Delta         *float64 // mg/dL, current minus prior reading
	Name          string
	BasalRate     *float64 // units/hour
	ActiveCarbs   *float64 // grams
	ActiveInsulin *float64 // units
	LastReading   *time.Time
	LastBolus     *time.Time
	LastCarbEntry *time.Time
	Trend         Trend
	Warning       WarningLevel
	LastActivity  *time.Time
}

// SummaryMap maps followee id to its summary.
type SummaryMap map[string]FolloweeSummary

// Clone returns an independent copy safe to hand to observers while the
// original keeps being updated.
func (m SummaryMap) Clone() SummaryMap {
	out := make(SummaryMap, len(m))
	for id, summary := range m {
		out[id] = summary
	}
	return out
}
