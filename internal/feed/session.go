package feed

import (
	"context"
	"strings"
	"sync"

	"github.com/satyapal28/archive-server/internal/domain"
)

// Session is one visitor's view of the feed: their year filter, their query,
// and the pagination cursor over the derived active view.
type Session struct {
	svc *Service

	mu          sync.Mutex
	sched       *Scheduler
	year        int
	query       string
	resultCount int // -1 means no "N results found" indicator
	gen         uint64
}

func newSession(svc *Service) *Session {
	sess := &Session{
		svc:         svc,
		sched:       NewScheduler(svc.pageSize, NopSurface{}),
		resultCount: -1,
	}
	sess.sched.SetView(svc.store.All())
	return sess
}

// Apply re-derives the active view for the given year filter (zero = all) and
// query. Search runs within the year-filtered set. The cursor resets to zero.
// A search superseded by a newer Apply before its translation passes finish
// returns ErrStaleSearch and leaves the newer state untouched.
func (s *Session) Apply(ctx context.Context, year int, query string) error {
	q := strings.TrimSpace(query)

	s.mu.Lock()
	s.year = year
	s.query = q
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	scope := FilterYear(s.svc.store.All(), year)
	view := scope
	count := -1
	if q != "" {
		// Blocks on translation; the session stays responsive meanwhile.
		view = s.svc.searcher.Search(ctx, q, scope)
		if view == nil {
			view = []domain.Post{}
		}
		count = len(view)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return ErrStaleSearch
	}
	s.resultCount = count
	s.sched.SetView(view)
	return nil
}

// NextPage renders one more page of the active view.
func (s *Session) NextPage() (Batch, bool) {
	return s.sched.Render()
}

// ResultCount returns the search indicator value, or -1 when no search is
// active.
func (s *Session) ResultCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultCount
}

// Year returns the active year filter, zero meaning all years.
func (s *Session) Year() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.year
}

// Query returns the active search query.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Remaining returns how many posts of the active view are still unrendered.
func (s *Session) Remaining() int {
	return s.sched.Remaining()
}

// ViewLen returns the size of the active view.
func (s *Session) ViewLen() int {
	return s.sched.ViewLen()
}
