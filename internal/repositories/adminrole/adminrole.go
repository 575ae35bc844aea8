package adminrole

import (
	"context"
	"errors"

	"github.com/satyapal28/archive-server/internal/domain"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	// GetUserByEmail returns the account for a login attempt, or ErrNotFound
	GetUserByEmail(ctx context.Context, email string) (*domain.AdminUser, error)

	// IsAdmin reports whether the user has a row in the admin roles relation
	IsAdmin(ctx context.Context, userID string) (bool, error)
}
