package domain

import "errors"

var (
	// ErrAuthFailed marks credential failures: a refresh or exchange the
	// authorization server rejected, or a credential that cannot be
	// refreshed at all.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNoAuthorizationGrant is returned when a token exchange is attempted
	// without a recorded authorization grant.
	ErrNoAuthorizationGrant = errors.New("no authorization grant recorded")

	// ErrNoCredential is returned by a credential store that holds nothing.
	ErrNoCredential = errors.New("no stored credential")
)
