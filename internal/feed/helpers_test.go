package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/satyapal28/archive-server/internal/domain"
	"github.com/satyapal28/archive-server/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.New(logger.Opts{Env: "development"})
}

// fakePostRepo serves a fixed archive in ListRange slices and can be told to
// fail from a given offset onward.
type fakePostRepo struct {
	posts  []domain.Post
	failAt int // offset at which ListRange starts failing, -1 never
	calls  int
}

func newFakePostRepo(posts []domain.Post) *fakePostRepo {
	return &fakePostRepo{posts: posts, failAt: -1}
}

func (f *fakePostRepo) ListRange(ctx context.Context, offset, limit int) ([]domain.Post, error) {
	f.calls++
	if f.failAt >= 0 && offset >= f.failAt {
		return nil, fmt.Errorf("backend unavailable")
	}
	if offset >= len(f.posts) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.posts) {
		end = len(f.posts)
	}
	out := make([]domain.Post, end-offset)
	copy(out, f.posts[offset:end])
	return out, nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	for i := range f.posts {
		if f.posts[i].ID == id {
			return &f.posts[i], nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (f *fakePostRepo) Create(ctx context.Context, draft domain.PostDraft) (string, error) {
	return "", fmt.Errorf("not implemented")
}

func (f *fakePostRepo) Update(ctx context.Context, id string, draft domain.PostDraft) error {
	return fmt.Errorf("not implemented")
}

func (f *fakePostRepo) Delete(ctx context.Context, id string) error {
	return fmt.Errorf("not implemented")
}

// fakeTranslator maps exact inputs to outputs; anything else echoes back,
// which the searcher treats as a skippable pass.
type fakeTranslator struct {
	byLang map[string]map[string]string
	err    error
	calls  int
}

func (f *fakeTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if m, ok := f.byLang[targetLang]; ok {
		if out, ok := m[strings.ToLower(text)]; ok {
			return out, nil
		}
	}
	return text, nil
}
