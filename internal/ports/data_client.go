package ports

import (
	"context"
	"time"

	"github.com/cuttestkittensrule/carepartner/internal/domain"
)

// DataClient is the backend data API. Every call takes the bearer token to
// use; acquiring a valid one is the caller's concern.
type DataClient interface {
	CurrentUserID(ctx context.Context, token string) (string, error)
	ListTrustRelationships(ctx context.Context, token, userID string) ([]domain.TrustRelationship, error)
	ListRecords(ctx context.Context, token, userID string, kinds []domain.RecordKind, start, end time.Time) ([]domain.Record, error)
	ListPendingInvitations(ctx context.Context, token, userID string) ([]domain.Invitation, error)
	RespondToInvitation(ctx context.Context, token, userID string, inv domain.Invitation, accept bool) error
}
