package like

import (
	"context"
	"errors"

	"github.com/satyapal28/archive-server/internal/domain"
)

var (
	// ErrAlreadyExists maps the backend's unique-pair violation; callers treat
	// it as a successful "already liked" outcome.
	ErrAlreadyExists = errors.New("like already exists")
	ErrNotFound      = errors.New("like not found")
)

type Repository interface {
	// Find returns the like row for (post, user), or ErrNotFound
	Find(ctx context.Context, postID, userID string) (*domain.Like, error)

	// Create inserts a like; a duplicate (post, user) pair yields ErrAlreadyExists
	Create(ctx context.Context, like domain.Like) error

	// Delete removes a like row by id
	Delete(ctx context.Context, id int64) error

	// CountByPost returns the authoritative like count for a post
	CountByPost(ctx context.Context, postID string) (int, error)

	// ListByPost returns all likes for a post, newest first
	ListByPost(ctx context.Context, postID string) ([]*domain.Like, error)
}
