package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cuttestkittensrule/carepartner/internal/adapters/render/pills"
	"github.com/cuttestkittensrule/carepartner/internal/application"
	"github.com/cuttestkittensrule/carepartner/internal/domain"
	"github.com/cuttestkittensrule/carepartner/internal/ports"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newFollowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "follow",
		Short: "Continuously poll followed accounts and show their summaries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFollow(cmd, app)
		},
	}
}

func runFollow(cmd *cobra.Command, app *app) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cred, err := app.credentials.Load(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoCredential) {
		return fmt.Errorf("load credential: %w", err)
	}

	clock := ports.SystemClock{}
	guard := application.NewTokenGuard(app.credentials, clock, app.logger, cred)

	// Initial token acquisition gets a short budget; failure or timeout is
	// not fatal, the loop retries on its own cadence.
	setupCtx, cancel := context.WithTimeout(ctx, app.setupTimeout)
	if err := guard.Setup(setupCtx); err != nil {
		app.logger.Warn("initial token setup failed, continuing", "error", err)
	}
	cancel()

	discovery := application.NewDiscovery(app.client, guard)
	syncer := application.NewSynchronizer(app.client, guard, clock, app.logger)
	sink := &consoleSink{out: cmd.OutOrStdout(), now: app.now}
	scheduler := application.NewScheduler(discovery, syncer, guard, sink, clock, app.logger, app.syncPeriod)

	invitations := application.NewInvitations(app.client, guard)
	tracker := application.NewInvitationTracker(invitations, sink, clock, app.logger, app.invitePeriod)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return scheduler.Run(gctx) })
	g.Go(func() error { return tracker.Run(gctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// consoleSink renders every published snapshot to the terminal. Both loops
// publish into it, so writes are serialized.
type consoleSink struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

func (s *consoleSink) PublishSummaries(summaries domain.SummaryMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintln(s.out, pills.Render(summaries, pills.RenderOptions{Now: s.now()}))
}

func (s *consoleSink) PublishInvitations(invitations []domain.Invitation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(invitations) == 0 {
		_, _ = fmt.Fprintln(s.out, "No pending invitations.")
		return
	}
	_, _ = fmt.Fprintf(s.out, "%d pending invitation(s); run `cp invitations list`\n", len(invitations))
}
