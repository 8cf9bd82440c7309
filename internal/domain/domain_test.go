package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyReading(t *testing.T) {
	tests := []struct {
		name    string
		reading float64
		want    WarningLevel
	}{
		{name: "very high", reading: 300, want: WarningLevelWarning},
		{name: "low band", reading: 60, want: WarningLevelWarning},
		{name: "dangerously low", reading: 40, want: WarningLevelCritical},
		{name: "in range", reading: 120, want: WarningLevelNone},
		{name: "upper bound exclusive", reading: 250, want: WarningLevelNone},
		{name: "low band upper bound exclusive", reading: 70, want: WarningLevelNone},
		{name: "low band lower bound inclusive", reading: 55, want: WarningLevelWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyReading(tt.reading))
		})
	}
}

func TestWarningLevelString(t *testing.T) {
	assert.Equal(t, "none", WarningLevelNone.String())
	assert.Equal(t, "warning", WarningLevelWarning.String())
	assert.Equal(t, "critical", WarningLevelCritical.String())
}

func TestCredentialValid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	skew := time.Minute

	assert.False(t, Credential{}.Valid(now, skew))
	assert.True(t, Credential{AccessToken: "t", Expiry: now.Add(time.Hour)}.Valid(now, skew))
	assert.False(t, Credential{AccessToken: "t", Expiry: now.Add(30 * time.Second)}.Valid(now, skew))
	assert.False(t, Credential{AccessToken: "t", Expiry: now.Add(-time.Minute)}.Valid(now, skew))
	assert.True(t, Credential{AccessToken: "t"}.Valid(now, skew), "no expiry metadata counts as valid")
}

func TestSameInvitations(t *testing.T) {
	a := Invitation{Key: "inv-1"}
	b := Invitation{Key: "inv-2"}

	assert.True(t, SameInvitations(nil, nil))
	assert.True(t, SameInvitations([]Invitation{a, b}, []Invitation{b, a}))
	assert.False(t, SameInvitations([]Invitation{a}, []Invitation{b}))
	assert.False(t, SameInvitations([]Invitation{a}, []Invitation{a, b}))
	assert.False(t, SameInvitations([]Invitation{a, a}, []Invitation{a, b}))
}

func TestSummaryMapCloneIsIndependent(t *testing.T) {
	original := SummaryMap{"user-a": {Name: "Alice"}}
	clone := original.Clone()

	original["user-a"] = FolloweeSummary{Name: "Changed"}
	original["user-b"] = FolloweeSummary{Name: "Bob"}

	require.Len(t, clone, 1)
	assert.Equal(t, "Alice", clone["user-a"].Name)
}

func TestFolloweeIdentityDisplayName(t *testing.T) {
	assert.Equal(t, "Alex", FolloweeIdentity{ID: "u1", Name: "Alex"}.DisplayName())
	assert.Equal(t, "User", FolloweeIdentity{ID: "u1"}.DisplayName())
}

func TestTrustRelationshipCanView(t *testing.T) {
	assert.True(t, TrustRelationship{Permissions: []Permission{"note", PermissionView}}.CanView())
	assert.False(t, TrustRelationship{Permissions: []Permission{"note"}}.CanView())
	assert.False(t, TrustRelationship{}.CanView())
}
