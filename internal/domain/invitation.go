package domain

import "time"

// Invitation is a pending share invitation addressed to the current user.
// Key is the backend's confirmation key and identifies the invitation.
type Invitation struct {
	Key         string
	Type        string
	CreatorID   string
	CreatorName string
	Created     time.Time
}

// SameInvitations reports whether two batches hold the same invitation set,
// compared by key regardless of order.
func SameInvitations(a, b []Invitation) bool {
	if len(a) != len(b) {
		return false
	}
	keys := make(map[string]int, len(a))
	for _, inv := range a {
		keys[inv.Key]++
	}
	for _, inv := range b {
		keys[inv.Key]--
		if keys[inv.Key] < 0 {
			return false
		}
	}
	return true
}
