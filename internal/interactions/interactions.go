package interactions

import (
	"context"

	"github.com/satyapal28/archive-server/internal/domain"
)

// LikeResult reports the outcome of a toggle. Count is the authoritative
// backend count, or -1 when the recount failed and the displayed counter
// should be left unchanged.
type LikeResult struct {
	Ignored bool // a toggle for this post was already in flight
	Liked   bool
	Count   int
}

type Service interface {
	// ToggleLike likes or unlikes the post for the visitor. At most one toggle
	// per post is in flight; concurrent toggles for the same post are ignored
	// outright.
	ToggleLike(ctx context.Context, postID, userID, username string) (LikeResult, error)

	// HasLiked reports whether the visitor currently likes the post
	HasLiked(ctx context.Context, postID, userID string) bool

	// Stats returns the lazily fetched like/comment counters for one post
	Stats(ctx context.Context, postID string) (domain.Stats, error)

	// AddComment validates and stores a comment, then returns the full
	// re-fetched list ascending by creation time
	AddComment(ctx context.Context, postID, userID, username, message string) ([]*domain.Comment, error)

	// ListComments returns a post's comments ascending by creation time
	ListComments(ctx context.Context, postID string) ([]*domain.Comment, error)

	// DeleteComment removes a comment; callers must have enforced admin
	DeleteComment(ctx context.Context, commentID int64) error

	// LikeDetail lists who liked a post, newest first (admin view)
	LikeDetail(ctx context.Context, postID string) ([]*domain.Like, error)
}
