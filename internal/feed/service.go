package feed

import (
	"context"
	"sync"
	"time"

	"github.com/satyapal28/archive-server/internal/domain"
	"github.com/satyapal28/archive-server/internal/repositories/post"
	"github.com/satyapal28/archive-server/internal/translator"
	"github.com/satyapal28/archive-server/pkg/config"
	"github.com/satyapal28/archive-server/pkg/debounce"
	"github.com/satyapal28/archive-server/pkg/logger"
	"go.uber.org/fx"
)

const (
	photoGridSize = 9

	reloadQuiet   = time.Second
	reloadTimeout = 5 * time.Minute
)

// Service owns the feed state: the post store, the search index, the fetch
// pipeline and the per-visitor view sessions. All mutations of the store go
// through Load, so the reset-cursor-on-rederivation rule lives in one place.
type Service struct {
	store    *Store
	searcher *Searcher
	loader   *Loader
	pageSize int
	logger   logger.Logger

	mu        sync.Mutex
	sessions  map[string]*Session
	lastLoad  LoadResult
	photoGrid []string

	reload *debounce.Debouncer
}

type Opts struct {
	fx.In

	PostRepo   post.Repository
	Translator translator.Client
	Config     *config.Config
	Logger     logger.Logger
}

func NewService(opts Opts) *Service {
	store := NewStore()
	s := &Service{
		store:    store,
		searcher: NewSearcher(opts.Translator, opts.Logger),
		loader:   NewLoader(opts.PostRepo, store, opts.Config.Feed.FetchBatchSize, opts.Logger),
		pageSize: opts.Config.Feed.PageSize,
		logger:   opts.Logger.WithComponent("FeedService"),
		sessions: make(map[string]*Session),
	}
	s.reload = debounce.New(reloadQuiet, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		s.Load(ctx)
	})
	return s
}

// RequestReload schedules a pipeline run once the current burst of edits goes
// quiet, so a batch of admin changes costs one refetch instead of one each.
func (s *Service) RequestReload() {
	s.reload.Trigger()
}

// Load runs the fetch pipeline once and then re-initializes everything derived
// from the store: the search index, the photo grid, and every open session
// (dropped, so the next request re-derives its view from fresh data). Partial
// loads still publish and are flagged in LastLoad.
func (s *Service) Load(ctx context.Context) LoadResult {
	result := s.loader.LoadAll(ctx)
	s.searcher.Rebuild(s.store.All())

	s.mu.Lock()
	s.lastLoad = result
	s.sessions = make(map[string]*Session)
	s.photoGrid = buildPhotoGrid(s.store.All())
	s.mu.Unlock()

	if result.Err != nil {
		s.logger.Warn("Archive load finished with partial data", "posts", result.Total, "error", result.Err)
	} else {
		s.logger.Info("Archive loaded", "posts", result.Total, "batches", result.Batches)
	}
	return result
}

// Session returns the view session for a visitor, creating it on first use
// with the full unfiltered view.
func (s *Service) Session(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess := newSession(s)
	s.sessions[id] = sess
	return sess
}

// LastLoad reports the most recent pipeline outcome, for the load-error
// indicator.
func (s *Service) LastLoad() LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLoad
}

// Store exposes the post store for read-only collaborators.
func (s *Service) Store() *Store {
	return s.store
}

// PhotoGrid returns the sidebar grid: the first image of the newest posts
// that have any.
func (s *Service) PhotoGrid() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.photoGrid))
	copy(out, s.photoGrid)
	return out
}

func buildPhotoGrid(posts []domain.Post) []string {
	var urls []string
	for _, p := range posts {
		if len(p.Images) == 0 {
			continue
		}
		urls = append(urls, p.Images[0])
		if len(urls) == photoGridSize {
			break
		}
	}
	return urls
}

var Module = fx.Module("feed",
	fx.Provide(NewService),
)
