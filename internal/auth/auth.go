package auth

import "context"

type Client interface {
	// Login authenticates an admin account and returns a signed session token.
	// Valid credentials on a non-admin account fail with ErrForbidden.
	Login(ctx context.Context, email, password string) (string, error)

	// Verify checks a session token and returns the account id it was issued to
	Verify(token string) (string, error)
}
