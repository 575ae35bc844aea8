package feed

import (
	"sort"
	"sync"

	"github.com/satyapal28/archive-server/internal/domain"
)

// Store is the in-memory collection of every archived post. It is replaced
// wholesale by the loader; readers never observe a half-updated collection.
// All views (unfiltered, year-filtered, searched) are derived from it.
type Store struct {
	mu    sync.RWMutex
	posts []domain.Post
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a new collection atomically. Duplicate ids are collapsed
// (first occurrence wins) and the result is ordered descending by timestamp,
// with the legacy date string consulted only for posts that have none.
func (s *Store) Replace(posts []domain.Post) {
	seen := make(map[string]struct{}, len(posts))
	deduped := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		deduped = append(deduped, p)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].SortKey().After(deduped[j].SortKey())
	})

	s.mu.Lock()
	s.posts = deduped
	s.mu.Unlock()
}

// All returns the current collection. Callers must not mutate the returned
// posts; the slice header itself is a copy.
func (s *Store) All() []domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// Get returns the post with the given id.
func (s *Store) Get(id string) (domain.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Post{}, false
}

// Years returns the distinct calendar years present, newest first, for the
// year-filter dropdown.
func (s *Store) Years() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[int]struct{})
	var years []int
	for _, p := range s.posts {
		y := p.Year()
		if y == 0 {
			continue
		}
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// FilterYear returns the subsequence of posts from the given calendar year,
// preserving store order. Year zero means no filtering.
func FilterYear(posts []domain.Post, year int) []domain.Post {
	if year == 0 {
		return posts
	}
	var out []domain.Post
	for _, p := range posts {
		if p.Year() == year {
			out = append(out, p)
		}
	}
	return out
}
