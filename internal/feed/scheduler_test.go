package feed

import (
	"fmt"
	"sync"
	"testing"

	"github.com/satyapal28/archive-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSurface struct {
	appends    []Batch
	emptyShown int
	cleared    int
}

func (r *recordingSurface) Append(b Batch)  { r.appends = append(r.appends, b) }
func (r *recordingSurface) ShowEmptyState() { r.emptyShown++ }
func (r *recordingSurface) Clear()          { r.cleared++ }

func makePosts(n int) []domain.Post {
	posts := make([]domain.Post, n)
	for i := range posts {
		posts[i] = domain.Post{ID: fmt.Sprintf("p%03d", i)}
	}
	return posts
}

func TestSchedulerPaginates(t *testing.T) {
	surface := &recordingSurface{}
	sched := NewScheduler(10, surface)
	sched.SetView(makePosts(25))

	b1, ok := sched.Render()
	require.True(t, ok)
	assert.Equal(t, 1, b1.Page)
	assert.Len(t, b1.Posts, 10)
	assert.Equal(t, "p000", b1.Posts[0].ID)

	b2, ok := sched.Render()
	require.True(t, ok)
	assert.Equal(t, 2, b2.Page)
	assert.Equal(t, "p010", b2.Posts[0].ID)

	b3, ok := sched.Render()
	require.True(t, ok)
	assert.Len(t, b3.Posts, 5)
	assert.Equal(t, 0, sched.Remaining())

	_, ok = sched.Render()
	assert.False(t, ok, "exhausted view renders nothing")
	assert.Len(t, surface.appends, 3)
	assert.Zero(t, surface.emptyShown)
}

func TestSchedulerSetViewResetsCursorAndClears(t *testing.T) {
	surface := &recordingSurface{}
	sched := NewScheduler(10, surface)
	sched.SetView(makePosts(25))
	sched.Render()
	sched.Render()

	sched.SetView(makePosts(12))
	assert.Equal(t, 0, sched.Cursor())
	assert.Equal(t, 2, surface.cleared)

	b, ok := sched.Render()
	require.True(t, ok)
	assert.Equal(t, 1, b.Page)
	assert.Equal(t, "p000", b.Posts[0].ID)
}

func TestSchedulerEmptyViewShowsEmptyStateOnce(t *testing.T) {
	surface := &recordingSurface{}
	sched := NewScheduler(10, surface)
	sched.SetView(nil)

	b, ok := sched.Render()
	assert.False(t, ok)
	assert.True(t, b.Empty)
	assert.Equal(t, 1, surface.emptyShown)

	b, ok = sched.Render()
	assert.False(t, ok)
	assert.False(t, b.Empty)
	assert.Equal(t, 1, surface.emptyShown, "placeholder shows once per view")

	sched.SetView(nil)
	sched.Render()
	assert.Equal(t, 2, surface.emptyShown, "a fresh empty view shows it again")
}

func TestSchedulerNotifiesListenersOncePerBatch(t *testing.T) {
	var got []int
	listener := func(b Batch) { got = append(got, b.Page) }
	sched := NewScheduler(10, NopSurface{}, listener)
	sched.SetView(makePosts(15))

	sched.Render()
	sched.Render()
	sched.Render()

	assert.Equal(t, []int{1, 2}, got)
}

func TestSchedulerConcurrentRendersNeverRepeatAPage(t *testing.T) {
	sched := NewScheduler(10, NopSurface{})
	sched.SetView(makePosts(100))

	var mu sync.Mutex
	seen := make(map[int]int)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b, ok := sched.Render(); ok {
				mu.Lock()
				seen[b.Page]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 10)
	for page, count := range seen {
		assert.Equal(t, 1, count, "page %d rendered more than once", page)
	}
}
