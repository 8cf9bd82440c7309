package cmd

import (
	"fmt"

	authadapter "github.com/cuttestkittensrule/carepartner/internal/adapters/auth"
	"github.com/cuttestkittensrule/carepartner/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in through the browser",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowserLogin(cmd, app)
		},
	}
}

func runBrowserLogin(cmd *cobra.Command, app *app) error {
	pkce, err := authadapter.NewPKCEPair()
	if err != nil {
		return fmt.Errorf("generate pkce: %w", err)
	}
	state, err := authadapter.NewState()
	if err != nil {
		return fmt.Errorf("generate oauth state: %w", err)
	}

	server, err := authadapter.StartCallbackServer(app.browserLogin.ListenAddr, state)
	if err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}

	authURL, err := authadapter.BuildAuthorizationURL(authadapter.AuthorizationRequest{
		AuthURL:       app.browserLogin.AuthURL,
		ClientID:      app.browserLogin.ClientID,
		RedirectURI:   server.RedirectURI(),
		Scopes:        app.browserLogin.Scopes,
		State:         state,
		CodeChallenge: pkce.Challenge,
	})
	if err != nil {
		_ = server.Close()
		return fmt.Errorf("build authorization url: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to sign in:\n%s\n", authURL)

	code, err := runAuthWaitSpinner(cmd.OutOrStdout(), "Waiting for browser authorization...", func() (string, error) {
		return server.WaitForCode(app.browserLogin.Timeout)
	})
	if err != nil {
		return fmt.Errorf("wait for oauth callback: %w", err)
	}

	grant := domain.AuthorizationGrant{
		Code:        code,
		Verifier:    pkce.Verifier,
		RedirectURI: server.RedirectURI(),
		ReceivedAt:  app.now(),
	}

	cred, err := app.credentials.Exchange(cmd.Context(), grant)
	if err != nil {
		// Keep the grant so a later run can retry the exchange.
		saveErr := app.credentials.Save(cmd.Context(), domain.Credential{LastGrant: &grant})
		if saveErr != nil {
			app.logger.Warn("save authorization grant failed", "error", saveErr)
		}
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	if err := app.credentials.Save(cmd.Context(), cred); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed in.")
	return nil
}
