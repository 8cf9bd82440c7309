package application

import (
	"context"
	"fmt"

	"github.com/cuttestkittensrule/carepartner/internal/domain"
	"github.com/cuttestkittensrule/carepartner/internal/ports"
)

// Discovery resolves the set of followees the current user may view.
type Discovery struct {
	client ports.DataClient
	tokens *TokenGuard
}

func NewDiscovery(client ports.DataClient, tokens *TokenGuard) *Discovery {
	return &Discovery{client: client, tokens: tokens}
}

// ListFollowees returns every trust relationship granting view permission,
// deduplicated by followee id. Result order is not significant.
func (d *Discovery) ListFollowees(ctx context.Context) ([]domain.FolloweeIdentity, error) {
	token, err := d.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	userID, err := d.client.CurrentUserID(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolve current user: %w", err)
	}

	trusts, err := d.client.ListTrustRelationships(ctx, token, userID)
	if err != nil {
		return nil, fmt.Errorf("list trust relationships: %w", err)
	}

	seen := make(map[string]struct{}, len(trusts))
	followees := make([]domain.FolloweeIdentity, 0, len(trusts))
	for _, trust := range trusts {
		if !trust.CanView() {
			continue
		}
		if _, ok := seen[trust.UserID]; ok {
			continue
		}
		seen[trust.UserID] = struct{}{}
		followees = append(followees, domain.FolloweeIdentity{ID: trust.UserID, Name: trust.FullName})
	}
	return followees, nil
}
