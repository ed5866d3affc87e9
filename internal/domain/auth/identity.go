package auth

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Sentinel errors for authentication and authorization.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("admin role required")
	ErrProfileNotFound = errors.New("profile not found")
)

// Role distinguishes the shop admin from regular customers.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated caller, as established from a verified
// access token. The role is resolved separately from the profiles table.
type Identity struct {
	UserID string
}

// Profile is the per-user record kept alongside the external auth account.
type Profile struct {
	ID        string
	Role      Role
	FullName  string
	CreatedAt time.Time
}

// ProfileRepository provides profile lookups by user id.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}

type identityKey struct{}

// WithIdentity stores the caller identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext extracts the caller identity set by the auth
// middleware. ok is false for unauthenticated requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
