package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuttestkittensrule/carepartner/internal/domain"
	"github.com/cuttestkittensrule/carepartner/internal/ports"
)

// DefaultInvitationPeriod is the minimum time between invitation polls.
const DefaultInvitationPeriod = time.Minute

// Invitations lists and answers pending share invitations.
type Invitations struct {
	client ports.DataClient
	tokens *TokenGuard
}

func NewInvitations(client ports.DataClient, tokens *TokenGuard) *Invitations {
	return &Invitations{client: client, tokens: tokens}
}

func (s *Invitations) List(ctx context.Context) ([]domain.Invitation, error) {
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := s.client.CurrentUserID(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolve current user: %w", err)
	}
	invitations, err := s.client.ListPendingInvitations(ctx, token, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending invitations: %w", err)
	}
	return invitations, nil
}

func (s *Invitations) Accept(ctx context.Context, inv domain.Invitation) error {
	return s.respond(ctx, inv, true)
}

func (s *Invitations) Reject(ctx context.Context, inv domain.Invitation) error {
	return s.respond(ctx, inv, false)
}

func (s *Invitations) respond(ctx context.Context, inv domain.Invitation, accept bool) error {
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}
	userID, err := s.client.CurrentUserID(ctx, token)
	if err != nil {
		return fmt.Errorf("resolve current user: %w", err)
	}
	if err := s.client.RespondToInvitation(ctx, token, userID, inv, accept); err != nil {
		return fmt.Errorf("respond to invitation %s: %w", inv.Key, err)
	}
	return nil
}

// InvitationTracker polls pending invitations on its own cadence and hands
// the set to the sink only when it differs from the last published one.
type InvitationTracker struct {
	invitations *Invitations
	sink        ports.InvitationSink
	clock       ports.Clock
	logger      *slog.Logger
	period      time.Duration

	last      []domain.Invitation
	published bool
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewInvitationTracker(invitations *Invitations, sink ports.InvitationSink, clock ports.Clock, logger *slog.Logger, period time.Duration) *InvitationTracker {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if period <= 0 {
		period = DefaultInvitationPeriod
	}
	return &InvitationTracker{
		invitations: invitations,
		sink:        sink,
		clock:       clock,
		logger:      logger,
		period:      period,
		sleep:       sleepContext,
	}
}

// Run loops until ctx is cancelled and then returns ctx.Err().
func (t *InvitationTracker) Run(ctx context.Context) error {
	for {
		start := t.clock.Now()
		t.runCycle(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.sleep(ctx, remainingBudget(t.period, t.clock.Now().Sub(start))); err != nil {
			return err
		}
	}
}

func (t *InvitationTracker) runCycle(ctx context.Context) {
	invitations, err := t.invitations.List(ctx)
	if err != nil {
		t.logger.Warn("invitation poll failed", "error", err)
		return
	}

	if t.published && domain.SameInvitations(t.last, invitations) {
		return
	}

	t.last = invitations
	t.published = true
	t.sink.PublishInvitations(append([]domain.Invitation(nil), invitations...))
}
