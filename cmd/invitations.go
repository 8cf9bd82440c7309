package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/cuttestkittensrule/carepartner/internal/application"
	"github.com/cuttestkittensrule/carepartner/internal/domain"
	"github.com/cuttestkittensrule/carepartner/internal/ports"
	"github.com/spf13/cobra"
)

func newInvitationsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invitations",
		Short: "Manage pending share invitations",
	}

	cmd.AddCommand(
		newInvitationsListCmd(app),
		newInvitationsRespondCmd(app, "accept", "Accept a pending invitation"),
		newInvitationsRespondCmd(app, "reject", "Reject a pending invitation"),
	)

	return cmd
}

func newInvitationsListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending share invitations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := invitationService(cmd.Context(), app)
			if err != nil {
				return err
			}

			invitations, err := service.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(invitations) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No pending invitations.")
				return nil
			}
			for _, inv := range invitations {
				name := inv.CreatorName
				if name == "" {
					name = inv.CreatorID
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tfrom %s\t%s\n", inv.Key, name, inv.Created.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func newInvitationsRespondCmd(app *app, use, short string) *cobra.Command {
	var key string
	var creatorID string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := invitationService(cmd.Context(), app)
			if err != nil {
				return err
			}

			inv := domain.Invitation{Key: key, CreatorID: creatorID}
			if use == "accept" {
				err = service.Accept(cmd.Context(), inv)
			} else {
				err = service.Reject(cmd.Context(), inv)
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Invitation %s %sed\n", key, use)
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Invitation key")
	cmd.Flags().StringVar(&creatorID, "from", "", "Inviting user id")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func invitationService(ctx context.Context, app *app) (*application.Invitations, error) {
	cred, err := app.credentials.Load(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoCredential) {
		return nil, fmt.Errorf("load credential: %w", err)
	}

	guard := application.NewTokenGuard(app.credentials, ports.SystemClock{}, app.logger, cred)
	if err := guard.Setup(ctx); err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	return application.NewInvitations(app.client, guard), nil
}
