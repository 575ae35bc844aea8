package comment

import (
	"context"
	"errors"

	"github.com/satyapal28/archive-server/internal/domain"
)

var ErrNotFound = errors.New("comment not found")

type Repository interface {
	// Create inserts a comment
	Create(ctx context.Context, comment domain.Comment) error

	// ListByPost returns all comments for a post ordered ascending by creation time
	ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error)

	// CountByPost returns the comment count for a post
	CountByPost(ctx context.Context, postID string) (int, error)

	// Delete removes a comment by id (admin only at the caller)
	Delete(ctx context.Context, id int64) error
}
