package interactionsimpl

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/satyapal28/archive-server/internal/domain"
	"github.com/satyapal28/archive-server/internal/interactions"
	"github.com/satyapal28/archive-server/internal/repositories/activity"
	"github.com/satyapal28/archive-server/internal/repositories/comment"
	"github.com/satyapal28/archive-server/internal/repositories/like"
	"github.com/satyapal28/archive-server/pkg/errors"
	"github.com/satyapal28/archive-server/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	LikeRepo     like.Repository
	CommentRepo  comment.Repository
	ActivityRepo activity.Repository
	Logger       logger.Logger
}

type Impl struct {
	likes    like.Repository
	comments comment.Repository
	activity activity.Repository
	logger   logger.Logger

	mu       sync.Mutex
	inFlight map[string]struct{} // post ids with an unresolved like toggle
}

func New(opts Opts) *Impl {
	return &Impl{
		likes:    opts.LikeRepo,
		comments: opts.CommentRepo,
		activity: opts.ActivityRepo,
		logger:   opts.Logger.WithComponent("Interactions"),
		inFlight: make(map[string]struct{}),
	}
}

var _ interactions.Service = (*Impl)(nil)

// begin claims the in-flight slot for a post. It returns false when a toggle
// for that post is already unresolved; unrelated posts proceed concurrently.
func (i *Impl) begin(postID string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, busy := i.inFlight[postID]; busy {
		return false
	}
	i.inFlight[postID] = struct{}{}
	return true
}

func (i *Impl) end(postID string) {
	i.mu.Lock()
	delete(i.inFlight, postID)
	i.mu.Unlock()
}

// ToggleLike likes or unlikes the post for the visitor.
func (i *Impl) ToggleLike(ctx context.Context, postID, userID, username string) (interactions.LikeResult, error) {
	if !i.begin(postID) {
		return interactions.LikeResult{Ignored: true}, nil
	}
	// The slot is released on every exit path, success or error.
	defer i.end(postID)

	var liked bool
	existing, err := i.likes.Find(ctx, postID, userID)
	switch {
	case err == nil:
		if err := i.likes.Delete(ctx, existing.ID); err != nil {
			return interactions.LikeResult{}, errors.Wrap(err, "unlike")
		}
		liked = false
	case errors.Is(err, like.ErrNotFound):
		err := i.likes.Create(ctx, domain.Like{PostID: postID, UserID: userID, Username: username})
		// A duplicate pair means another tab of the same visitor won the
		// race; that is "already liked", not a failure.
		if err != nil && !errors.Is(err, like.ErrAlreadyExists) {
			return interactions.LikeResult{}, errors.Wrap(err, "like")
		}
		liked = true
		i.logActivity(ctx, userID, username, "like", postID)
	default:
		return interactions.LikeResult{}, errors.Wrap(err, "check existing like")
	}

	// The displayed counter always comes from the backend, never from a
	// local increment, which can drift under the conflict-tolerance above.
	count, err := i.likes.CountByPost(ctx, postID)
	if err != nil {
		i.logger.Warn("Like recount failed, leaving counter unchanged", "post_id", postID, "error", err)
		count = -1
	}

	return interactions.LikeResult{Liked: liked, Count: count}, nil
}

// HasLiked reports whether the visitor currently likes the post
func (i *Impl) HasLiked(ctx context.Context, postID, userID string) bool {
	_, err := i.likes.Find(ctx, postID, userID)
	return err == nil
}

// Stats returns the lazily fetched like/comment counters for one post
func (i *Impl) Stats(ctx context.Context, postID string) (domain.Stats, error) {
	likes, err := i.likes.CountByPost(ctx, postID)
	if err != nil {
		return domain.Stats{}, err
	}
	comments, err := i.comments.CountByPost(ctx, postID)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{Likes: likes, Comments: comments}, nil
}

// AddComment validates and stores a comment, then returns the re-fetched list
func (i *Impl) AddComment(ctx context.Context, postID, userID, username, message string) ([]*domain.Comment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty comment")
	}
	if utf8.RuneCountInString(message) > domain.MaxCommentLength {
		return nil, errors.Wrap(errors.ErrInvalidInput, "comment too long")
	}

	if err := i.comments.Create(ctx, domain.Comment{PostID: postID, Username: username, Message: message}); err != nil {
		return nil, errors.Wrap(err, "post comment")
	}
	i.logActivity(ctx, userID, username, "comment", postID)

	// Re-fetch instead of appending locally so concurrent commenters from
	// other sessions show up too.
	return i.comments.ListByPost(ctx, postID)
}

// ListComments returns a post's comments ascending by creation time
func (i *Impl) ListComments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	return i.comments.ListByPost(ctx, postID)
}

// DeleteComment removes a comment; admin is enforced at the HTTP layer
func (i *Impl) DeleteComment(ctx context.Context, commentID int64) error {
	return i.comments.Delete(ctx, commentID)
}

// LikeDetail lists who liked a post, newest first
func (i *Impl) LikeDetail(ctx context.Context, postID string) ([]*domain.Like, error) {
	return i.likes.ListByPost(ctx, postID)
}

// logActivity records the action best-effort; failures only log.
func (i *Impl) logActivity(ctx context.Context, userID, username, action, postID string) {
	err := i.activity.Create(ctx, domain.Activity{
		UserID:       userID,
		Username:     username,
		Action:       action,
		PostID:       postID,
		SessionStart: time.Now(),
	})
	if err != nil {
		i.logger.Warn("Activity log write failed", "action", action, "post_id", postID, "error", err)
	}
}
