package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cuttestkittensrule/carepartner/internal/domain"
	"github.com/cuttestkittensrule/carepartner/internal/ports"
	"golang.org/x/sync/singleflight"
)

const defaultExpirySkew = time.Minute

// TokenGuard owns the session credential and hands out a valid access token
// on demand. Refreshes are single-flight: however many callers discover an
// expired token at once, exactly one refresh request reaches the credential
// store and every caller observes its outcome.
type TokenGuard struct {
	store  ports.CredentialStore
	clock  ports.Clock
	logger *slog.Logger
	skew   time.Duration

	mu     sync.RWMutex
	cred   domain.Credential
	flight singleflight.Group
}

func NewTokenGuard(store ports.CredentialStore, clock ports.Clock, logger *slog.Logger, initial domain.Credential) *TokenGuard {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenGuard{
		store:  store,
		clock:  clock,
		logger: logger,
		skew:   defaultExpirySkew,
		cred:   initial,
	}
}

// Setup performs the one-time token exchange when no usable credential
// exists yet. Returns domain.ErrNoAuthorizationGrant when there is neither a
// token to refresh nor a grant to exchange.
func (g *TokenGuard) Setup(ctx context.Context) error {
	cred := g.Credential()
	if cred.Valid(g.clock.Now(), g.skew) || cred.RefreshToken != "" {
		return nil
	}
	if cred.LastGrant == nil {
		return domain.ErrNoAuthorizationGrant
	}

	exchanged, err := g.store.Exchange(ctx, *cred.LastGrant)
	if err != nil {
		return fmt.Errorf("exchange authorization grant: %w", err)
	}
	g.setCredential(ctx, exchanged)
	return nil
}

// AccessToken returns a valid access token, refreshing the credential first
// when it expired. Validity is re-checked inside the flight so a caller that
// waited on another caller's refresh does not trigger a second one.
func (g *TokenGuard) AccessToken(ctx context.Context) (string, error) {
	if token, ok := g.validToken(); ok {
		return token, nil
	}

	result, err, _ := g.flight.Do("refresh", func() (any, error) {
		if token, ok := g.validToken(); ok {
			return token, nil
		}

		cred := g.Credential()
		if cred.RefreshToken == "" {
			return nil, fmt.Errorf("credential not refreshable: %w", domain.ErrAuthFailed)
		}

		refreshed, err := g.store.Refresh(ctx, cred)
		if err != nil {
			return nil, fmt.Errorf("refresh access token: %w", err)
		}
		g.setCredential(ctx, refreshed)
		return refreshed.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Credential returns a copy of the current credential.
func (g *TokenGuard) Credential() domain.Credential {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cred
}

func (g *TokenGuard) validToken() (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.cred.Valid(g.clock.Now(), g.skew) {
		return g.cred.AccessToken, true
	}
	return "", false
}

// setCredential installs the new credential and persists it. A persist
// failure loses nothing this session, so it is logged rather than returned.
func (g *TokenGuard) setCredential(ctx context.Context, cred domain.Credential) {
	g.mu.Lock()
	g.cred = cred
	g.mu.Unlock()

	if err := g.store.Save(ctx, cred); err != nil {
		g.logger.Warn("persist refreshed credential failed", "error", err)
	}
}
