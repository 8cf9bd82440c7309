package file

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cuttestkittensrule/carepartner/internal/domain"
	"github.com/cuttestkittensrule/carepartner/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/oauth2"
)

const (
	storeDirMode  = 0o700
	storeFileMode = 0o600
)

// OAuthConfig names the authorization server endpoints the store talks to
// for exchange and refresh.
type OAuthConfig struct {
	AuthURL  string
	TokenURL string
	ClientID string
	Scopes   []string
}

// Store persists the session credential as a TOML file and performs the
// OAuth2 wire calls against the authorization server.
type Store struct {
	path       string
	oauth      OAuthConfig
	httpClient *http.Client
	mu         sync.RWMutex
}

var _ ports.CredentialStore = (*Store)(nil)

func NewStore(path string, oauth OAuthConfig, httpClient *http.Client) *Store {
	return &Store{
		path:       filepath.Clean(path),
		oauth:      oauth,
		httpClient: httpClient,
	}
}

func (s *Store) Load(ctx context.Context) (domain.Credential, error) {
	if err := ctx.Err(); err != nil {
		return domain.Credential{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Credential{}, domain.ErrNoCredential
		}
		return domain.Credential{}, fmt.Errorf("read credential file: %w", err)
	}

	var stored fileCredential
	if err := toml.Unmarshal(data, &stored); err != nil {
		return domain.Credential{}, fmt.Errorf("decode credential file: %w", err)
	}
	return stored.toDomain(), nil
}

func (s *Store) Save(ctx context.Context, cred domain.Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := toml.Marshal(fromDomain(cred))
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), storeDirMode); err != nil {
		return fmt.Errorf("create credential directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, storeFileMode); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return nil
}

// Exchange swaps an authorization grant for tokens. The grant is consumed:
// the returned credential carries no LastGrant.
func (s *Store) Exchange(ctx context.Context, grant domain.AuthorizationGrant) (domain.Credential, error) {
	if grant.Code == "" {
		return domain.Credential{}, domain.ErrNoAuthorizationGrant
	}

	cfg := s.config(grant.RedirectURI)
	token, err := cfg.Exchange(s.oauthContext(ctx), grant.Code,
		oauth2.VerifierOption(grant.Verifier),
	)
	if err != nil {
		return domain.Credential{}, classifyOAuthError("exchange authorization code", err)
	}
	return credentialFromToken(token), nil
}

func (s *Store) Refresh(ctx context.Context, cred domain.Credential) (domain.Credential, error) {
	if cred.RefreshToken == "" {
		return domain.Credential{}, fmt.Errorf("no refresh token: %w", domain.ErrAuthFailed)
	}

	cfg := s.config("")
	source := cfg.TokenSource(s.oauthContext(ctx), &oauth2.Token{RefreshToken: cred.RefreshToken})
	token, err := source.Token()
	if err != nil {
		return domain.Credential{}, classifyOAuthError("refresh token", err)
	}

	refreshed := credentialFromToken(token)
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = cred.RefreshToken
	}
	return refreshed, nil
}

func (s *Store) config(redirectURI string) oauth2.Config {
	return oauth2.Config{
		ClientID:    s.oauth.ClientID,
		RedirectURL: redirectURI,
		Scopes:      s.oauth.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  s.oauth.AuthURL,
			TokenURL: s.oauth.TokenURL,
		},
	}
}

func (s *Store) oauthContext(ctx context.Context) context.Context {
	if s.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// A non-2xx answer from the token endpoint means the grant or refresh token
// is no good; transport errors stay as they are so callers can tell the two
// apart.
func classifyOAuthError(op string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%s: %v: %w", op, err, domain.ErrAuthFailed)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func credentialFromToken(token *oauth2.Token) domain.Credential {
	cred := domain.Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}
	if id, ok := token.Extra("id_token").(string); ok {
		cred.IDToken = id
	}
	return cred
}

type fileCredential struct {
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token,omitempty"`
	IDToken      string `toml:"id_token,omitempty"`
	// No omitempty: go-toml/v2 drops omitempty time.Time fields even when
	// non-zero, and a credential without expiry reads as never expiring.
	Expiry    time.Time  `toml:"expiry"`
	LastGrant *fileGrant `toml:"last_grant,omitempty"`
}

type fileGrant struct {
	Code        string    `toml:"code"`
	Verifier    string    `toml:"verifier"`
	RedirectURI string    `toml:"redirect_uri"`
	ReceivedAt  time.Time `toml:"received_at"`
}

func (f fileCredential) toDomain() domain.Credential {
	cred := domain.Credential{
		AccessToken:  f.AccessToken,
		RefreshToken: f.RefreshToken,
		IDToken:      f.IDToken,
		Expiry:       f.Expiry,
	}
	if f.LastGrant != nil {
		cred.LastGrant = &domain.AuthorizationGrant{
			Code:        f.LastGrant.Code,
			Verifier:    f.LastGrant.Verifier,
			RedirectURI: f.LastGrant.RedirectURI,
			ReceivedAt:  f.LastGrant.ReceivedAt,
		}
	}
	return cred
}

func fromDomain(cred domain.Credential) fileCredential {
	stored := fileCredential{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		IDToken:      cred.IDToken,
		Expiry:       cred.Expiry,
	}
	if cred.LastGrant != nil {
		stored.LastGrant = &fileGrant{
			Code:        cred.LastGrant.Code,
			Verifier:    cred.LastGrant.Verifier,
			RedirectURI: cred.LastGrant.RedirectURI,
			ReceivedAt:  cred.LastGrant.ReceivedAt,
		}
	}
	return stored
}
