package out

import (
	"context"

	"preview/internal/platform/httpx"
)

// CredentialStore aliases the transport-level contract: the auth module
// owns the store implementation, the httpx client consumes it.
type CredentialStore = httpx.CredentialStore

// AuthAPI is the remote authentication surface.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (httpx.Credentials, error)
	Signup(ctx context.Context, email, name, password string) error
	// Logout is best-effort; callers ignore its error.
	Logout(ctx context.Context) error
}
