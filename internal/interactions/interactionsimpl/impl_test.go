package interactionsimpl

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/satyapal28/archive-server/internal/domain"
	"github.com/satyapal28/archive-server/internal/repositories/like"
	"github.com/satyapal28/archive-server/pkg/errors"
	"github.com/satyapal28/archive-server/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLikeRepo struct {
	mu     sync.Mutex
	nextID int64
	likes  map[string]domain.Like // key post\x00user

	createErr  error
	countErr   error
	deleteGate chan struct{} // when set, Delete blocks until closed
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[string]domain.Like)}
}

func likeKey(postID, userID string) string { return postID + "\x00" + userID }

func (f *fakeLikeRepo) Find(ctx context.Context, postID, userID string) (*domain.Like, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.likes[likeKey(postID, userID)]; ok {
		return &l, nil
	}
	return nil, like.ErrNotFound
}

func (f *fakeLikeRepo) Create(ctx context.Context, l domain.Like) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	key := likeKey(l.PostID, l.UserID)
	if _, ok := f.likes[key]; ok {
		return like.ErrAlreadyExists
	}
	f.nextID++
	l.ID = f.nextID
	l.CreatedAt = time.Now()
	f.likes[key] = l
	return nil
}

func (f *fakeLikeRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteGate != nil {
		<-f.deleteGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, l := range f.likes {
		if l.ID == id {
			delete(f.likes, key)
			return nil
		}
	}
	return like.ErrNotFound
}

func (f *fakeLikeRepo) CountByPost(ctx context.Context, postID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	count := 0
	for _, l := range f.likes {
		if l.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (f *fakeLikeRepo) ListByPost(ctx context.Context, postID string) ([]*domain.Like, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Like
	for _, l := range f.likes {
		if l.PostID == postID {
			copied := l
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   int64
	comments []domain.Comment
}

func (f *fakeCommentRepo) Create(ctx context.Context, c domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	f.comments = append(f.comments, c)
	return nil
}

func (f *fakeCommentRepo) ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Comment
	for i := range f.comments {
		if f.comments[i].PostID == postID {
			out = append(out, &f.comments[i])
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) CountByPost(ctx context.Context, postID string) (int, error) {
	list, _ := f.ListByPost(ctx, postID)
	return len(list), nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.comments {
		if f.comments[i].ID == id {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("comment not found")
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []domain.Activity
	err     error
}

func (f *fakeActivityRepo) Create(ctx context.Context, a domain.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, a)
	return nil
}

func (f *fakeActivityRepo) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

func newTestImpl(likes *fakeLikeRepo) *Impl {
	return New(Opts{
		LikeRepo:     likes,
		CommentRepo:  &fakeCommentRepo{},
		ActivityRepo: &fakeActivityRepo{},
		Logger:       logger.New(logger.Opts{Env: "development"}),
	})
}

func TestToggleLikeAddsThenRemoves(t *testing.T) {
	likes := newFakeLikeRepo()
	svc := newTestImpl(likes)
	ctx := context.Background()

	result, err := svc.ToggleLike(ctx, "post-1", "visitor-a", "Asha")
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.Count)
	assert.True(t, svc.HasLiked(ctx, "post-1", "visitor-a"))

	result, err = svc.ToggleLike(ctx, "post-1", "visitor-a", "Asha")
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, 0, result.Count)
	assert.False(t, svc.HasLiked(ctx, "post-1", "visitor-a"))
}

func TestToggleLikeDuplicateInsertCountsAsLiked(t *testing.T) {
	likes := newFakeLikeRepo()
	likes.createErr = like.ErrAlreadyExists
	svc := newTestImpl(likes)

	result, err := svc.ToggleLike(context.Background(), "post-1", "visitor-a", "Asha")
	require.NoError(t, err, "a lost insert race is not a failure")
	assert.True(t, result.Liked)
}

func TestToggleLikeRecountFailureDegrades(t *testing.T) {
	likes := newFakeLikeRepo()
	likes.countErr = fmt.Errorf("backend gone")
	svc := newTestImpl(likes)

	result, err := svc.ToggleLike(context.Background(), "post-1", "visitor-a", "Asha")
	require.NoError(t, err)
	assert.True(t, result.Liked)
	assert.Equal(t, -1, result.Count, "caller keeps its displayed number")
}

func TestToggleLikeConcurrentSamePostIgnored(t *testing.T) {
	likes := newFakeLikeRepo()
	likes.deleteGate = make(chan struct{})
	svc := newTestImpl(likes)
	ctx := context.Background()

	// Seed a like so the next toggle takes the Delete path and blocks on
	// the gate while holding the in-flight slot.
	_, err := svc.ToggleLike(ctx, "post-1", "visitor-a", "Asha")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.ToggleLike(ctx, "post-1", "visitor-a", "Asha")
	}()

	// Wait until the slow toggle holds the slot.
	require.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		_, busy := svc.inFlight["post-1"]
		return busy
	}, time.Second, time.Millisecond)

	result, err := svc.ToggleLike(ctx, "post-1", "visitor-b", "Brij")
	require.NoError(t, err)
	assert.True(t, result.Ignored, "same post, unresolved toggle")

	other, err := svc.ToggleLike(ctx, "post-2", "visitor-b", "Brij")
	require.NoError(t, err)
	assert.False(t, other.Ignored, "unrelated posts proceed")

	close(likes.deleteGate)
	<-done

	// The slot is free again afterwards.
	result, err = svc.ToggleLike(ctx, "post-1", "visitor-b", "Brij")
	require.NoError(t, err)
	assert.False(t, result.Ignored)
}

func TestToggleLikeSlotFreedOnError(t *testing.T) {
	likes := newFakeLikeRepo()
	likes.createErr = fmt.Errorf("insert failed")
	svc := newTestImpl(likes)
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, "post-1", "visitor-a", "Asha")
	require.Error(t, err)

	likes.createErr = nil
	result, err := svc.ToggleLike(ctx, "post-1", "visitor-a", "Asha")
	require.NoError(t, err, "the failed toggle released its slot")
	assert.True(t, result.Liked)
}

func TestAddCommentValidation(t *testing.T) {
	svc := newTestImpl(newFakeLikeRepo())
	ctx := context.Background()

	_, err := svc.AddComment(ctx, "post-1", "v", "Asha", "   ")
	assert.True(t, errors.IsInvalidInput(err), "whitespace-only comment rejected")

	_, err = svc.AddComment(ctx, "post-1", "v", "Asha", strings.Repeat("x", domain.MaxCommentLength+1))
	assert.True(t, errors.IsInvalidInput(err), "over-long comment rejected")

	comments, err := svc.AddComment(ctx, "post-1", "v", "Asha", strings.Repeat("x", domain.MaxCommentLength))
	require.NoError(t, err, "exactly the limit is allowed")
	assert.Len(t, comments, 1)
}

func TestAddCommentReturnsRefreshedList(t *testing.T) {
	svc := newTestImpl(newFakeLikeRepo())
	ctx := context.Background()

	_, err := svc.AddComment(ctx, "post-1", "v1", "Asha", "pehla comment")
	require.NoError(t, err)

	comments, err := svc.AddComment(ctx, "post-1", "v2", "Brij", "dusra comment")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "pehla comment", comments[0].Message, "ascending by creation")
	assert.Equal(t, "dusra comment", comments[1].Message)
}

func TestStats(t *testing.T) {
	likes := newFakeLikeRepo()
	svc := newTestImpl(likes)
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, "post-1", "v1", "Asha")
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, "post-1", "v2", "Brij")
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, "post-1", "v1", "Asha", "hello")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, "post-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Likes)
	assert.Equal(t, 1, stats.Comments)
}
