package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	credfile "github.com/cuttestkittensrule/carepartner/internal/adapters/credstore/file"
	"github.com/cuttestkittensrule/carepartner/internal/adapters/tidepool"
	"github.com/spf13/viper"
)

type app struct {
	credentials  *credfile.Store
	client       *tidepool.Client
	logger       *slog.Logger
	browserLogin browserLoginConfig
	syncPeriod   time.Duration
	invitePeriod time.Duration
	setupTimeout time.Duration
	now          func() time.Time
}

type browserLoginConfig struct {
	AuthURL    string
	ClientID   string
	Scopes     []string
	ListenAddr string
	Timeout    time.Duration
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetEnvPrefix("CP")
	cfg.AutomaticEnv()
	cfg.SetDefault("api_base_url", "https://api.tidepool.org")
	cfg.SetDefault("auth_issuer", "https://auth.tidepool.org/realms/tidepool")
	cfg.SetDefault("auth_client_id", "tidepool-carepartner")
	cfg.SetDefault("auth_listen", "127.0.0.1:7191")
	cfg.SetDefault("credentials_path", filepath.Join(homeDir, ".carepartner", "credentials.toml"))
	cfg.SetDefault("sync_period", 5*time.Minute)
	cfg.SetDefault("invitation_period", time.Minute)
	cfg.SetDefault("setup_timeout", 15*time.Second)

	issuer := cfg.GetString("auth_issuer")
	oauth := credfile.OAuthConfig{
		AuthURL:  issuer + "/protocol/openid-connect/auth",
		TokenURL: issuer + "/protocol/openid-connect/token",
		ClientID: cfg.GetString("auth_client_id"),
		Scopes:   []string{"openid", "profile", "email", "offline_access"},
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	return &app{
		credentials: credfile.NewStore(cfg.GetString("credentials_path"), oauth, nil),
		client: &tidepool.Client{
			BaseURL:        cfg.GetString("api_base_url"),
			HTTPClient:     http.DefaultClient,
			RequestTimeout: 30 * time.Second,
		},
		logger: logger,
		browserLogin: browserLoginConfig{
			AuthURL:    oauth.AuthURL,
			ClientID:   oauth.ClientID,
			Scopes:     oauth.Scopes,
			ListenAddr: cfg.GetString("auth_listen"),
			Timeout:    5 * time.Minute,
		},
		syncPeriod:   cfg.GetDuration("sync_period"),
		invitePeriod: cfg.GetDuration("invitation_period"),
		setupTimeout: cfg.GetDuration("setup_timeout"),
		now:          time.Now,
	}, nil
}
