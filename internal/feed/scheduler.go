package feed

import (
	"sync"

	"github.com/satyapal28/archive-server/internal/domain"
)

// Batch is one rendered page of the active view.
type Batch struct {
	Posts []domain.Post
	Page  int // page number, starting at 1 for the first rendered batch
	Empty bool
}

// Surface is the display collaborator batches are appended to. Appends are
// strictly in view order; Clear wipes everything rendered so far.
type Surface interface {
	Append(batch Batch)
	ShowEmptyState()
	Clear()
}

// BatchListener is notified exactly once per rendered batch, after the surface
// append. The gallery collaborator re-scans for new media here, and the
// viewport observer starts watching the new posts so stats load lazily.
type BatchListener func(batch Batch)

// Scheduler paginates the active view onto a surface. The cursor only moves
// forward; replacing the view resets it to zero and clears the surface.
type Scheduler struct {
	mu         sync.Mutex
	view       []domain.Post
	cursor     int
	pageSize   int
	surface    Surface
	listeners  []BatchListener
	emptyShown bool
}

func NewScheduler(pageSize int, surface Surface, listeners ...BatchListener) *Scheduler {
	return &Scheduler{
		pageSize:  pageSize,
		surface:   surface,
		listeners: listeners,
	}
}

// SetView replaces the active view, resets the cursor and clears the surface.
func (s *Scheduler) SetView(view []domain.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	s.cursor = 0
	s.emptyShown = false
	s.surface.Clear()
}

// Render mounts the next page. It returns the batch and true when posts were
// rendered. With nothing left it is a no-op returning false, except that the
// first render of an empty view shows the empty-state placeholder once.
func (s *Scheduler) Render() (Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.cursor * s.pageSize
	if start >= len(s.view) {
		if len(s.view) == 0 && !s.emptyShown {
			s.emptyShown = true
			s.surface.ShowEmptyState()
			return Batch{Empty: true}, false
		}
		return Batch{}, false
	}

	end := start + s.pageSize
	if end > len(s.view) {
		end = len(s.view)
	}

	s.cursor++
	batch := Batch{
		Posts: s.view[start:end],
		Page:  s.cursor,
	}
	s.surface.Append(batch)
	for _, notify := range s.listeners {
		notify(batch)
	}
	return batch, true
}

// Cursor returns how many pages have been rendered for the current view.
func (s *Scheduler) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Remaining returns how many posts have not been rendered yet.
func (s *Scheduler) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	rendered := s.cursor * s.pageSize
	if rendered > len(s.view) {
		rendered = len(s.view)
	}
	return len(s.view) - rendered
}

// ViewLen returns the size of the current active view.
func (s *Scheduler) ViewLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.view)
}

// NopSurface discards everything; useful where the batch returned by Render is
// consumed directly, as the HTTP layer does.
type NopSurface struct{}

func (NopSurface) Append(Batch)    {}
func (NopSurface) ShowEmptyState() {}
func (NopSurface) Clear()          {}
