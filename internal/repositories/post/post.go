package post

import (
	"context"
	"errors"

	"github.com/satyapal28/archive-server/internal/domain"
)

var ErrNotFound = errors.New("post not found")

type Repository interface {
	// ListRange returns posts ordered by timestamp descending with their
	// image/video/link rows eagerly joined, range-limited by offset and limit.
	ListRange(ctx context.Context, offset, limit int) ([]domain.Post, error)

	// GetByID returns a single post with media attached
	GetByID(ctx context.Context, id string) (*domain.Post, error)

	// Create inserts a post together with its media rows, returning the new id
	Create(ctx context.Context, draft domain.PostDraft) (string, error)

	// Update rewrites the post row and replaces all media rows wholesale
	Update(ctx context.Context, id string, draft domain.PostDraft) error

	// Delete removes the post; media, likes and comments cascade
	Delete(ctx context.Context, id string) error
}
