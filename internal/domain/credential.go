package domain

import "time"

// AuthorizationGrant is the outcome of a completed browser authorization:
// the code still has to be exchanged for tokens.
type AuthorizationGrant struct {
	Code        string
	Verifier    string
	RedirectURI string
	ReceivedAt  time.Time
}

// Credential is the OAuth2 credential for the current session. It has a
// single logical owner (the token guard); everything else receives copies.
type Credential struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Expiry       time.Time
	LastGrant    *AuthorizationGrant
}

// Valid reports whether the access token can still be used. A credential
// without expiry metadata counts as valid until the backend rejects it.
func (c Credential) Valid(now time.Time, skew time.Duration) bool {
	if c.AccessToken == "" {
		return false
	}
	if c.Expiry.IsZero() {
		return true
	}
	return c.Expiry.After(now.Add(skew))
}
