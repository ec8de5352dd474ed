package ports

import (
	"context"

	"github.com/quantiva/dashboard/internal/core/domain"
)

// RecordStorage is the durable key-value facility holding the session record.
// Get returns domain.ErrRecordNotFound when the key is absent; Delete of an
// absent key is not an error.
type RecordStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// RecordCodec turns an Identity into the persisted bytes and back.
type RecordCodec interface {
	Encode(identity domain.Identity) ([]byte, error)
	Decode(data []byte) (domain.Identity, error)
}

// Credentials is what the UI submits on sign-in or sign-up. Name is empty for
// sign-in.
type Credentials struct {
	Name     string
	Email    string
	Password string
}

// IdentityVerifier stands in for the remote identity call. Implementations
// return domain.ErrInvalidCredentials to reject.
type IdentityVerifier interface {
	Verify(ctx context.Context, creds Credentials) error
}

// SessionService owns the process-wide SessionState.
type SessionService interface {
	Restore(ctx context.Context) error
	SignIn(ctx context.Context, email, password string) (domain.Identity, error)
	SignUp(ctx context.Context, name, email, password string) (domain.Identity, error)
	SignOut(ctx context.Context) error
	State() domain.SessionState
	Subscribe(fn func(domain.SessionState)) (unsubscribe func())
}
