package ports

import (
	"context"

	"github.com/cuttestkittensrule/carepartner/internal/domain"
)

// CredentialStore owns persistence of the OAuth credential and the wire
// calls against the authorization server. Load returns
// domain.ErrNoCredential when nothing has been stored yet.
type CredentialStore interface {
	Load(ctx context.Context) (domain.Credential, error)
	Save(ctx context.Context, cred domain.Credential) error
	Exchange(ctx context.Context, grant domain.AuthorizationGrant) (domain.Credential, error)
	Refresh(ctx context.Context, cred domain.Credential) (domain.Credential, error)
}
