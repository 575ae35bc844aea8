package feed

import (
	"context"

	"github.com/satyapal28/archive-server/internal/domain"
	"github.com/satyapal28/archive-server/internal/repositories/post"
	"github.com/satyapal28/archive-server/pkg/logger"
)

// LoadState describes the outcome of the most recent full load.
type LoadState int

const (
	LoadPending LoadState = iota
	LoadComplete
	// LoadPartial means a backend error interrupted the batch loop; whatever
	// was accumulated is shown with a visible error indicator rather than
	// discarded.
	LoadPartial
)

// LoadResult summarizes one pipeline run.
type LoadResult struct {
	State   LoadState
	Total   int
	Batches int
	Err     error
}

// Loader is the fetch pipeline: it pulls the whole archive in fixed-size
// batches ordered by timestamp descending and hands the store one normalized
// collection per run.
type Loader struct {
	repo      post.Repository
	store     *Store
	batchSize int
	logger    logger.Logger
}

func NewLoader(repo post.Repository, store *Store, batchSize int, log logger.Logger) *Loader {
	return &Loader{
		repo:      repo,
		store:     store,
		batchSize: batchSize,
		logger:    log.WithComponent("Loader"),
	}
}

// LoadAll fetches every batch sequentially: batch N+1 is not requested until
// batch N is processed, which preserves order and end-of-data detection. A
// short batch signals the end. On error the remaining fetches are abandoned
// and the accumulated posts are still published (fail-soft); the result
// carries the error so the surface can show a load-error indicator.
func (l *Loader) LoadAll(ctx context.Context) LoadResult {
	var accumulated []domain.Post
	result := LoadResult{State: LoadComplete}

	offset := 0
	for {
		batch, err := l.repo.ListRange(ctx, offset, l.batchSize)
		if err != nil {
			l.logger.Error("Batch fetch failed, keeping partial data", "offset", offset, "error", err)
			result.State = LoadPartial
			result.Err = err
			break
		}

		result.Batches++
		for _, p := range batch {
			accumulated = append(accumulated, Normalize(p))
		}
		l.logger.Info("Loaded batch", "batch", result.Batches, "rows", len(batch), "total", len(accumulated))

		if len(batch) < l.batchSize {
			break
		}
		offset += l.batchSize
	}

	l.store.Replace(accumulated)
	result.Total = l.store.Len()
	return result
}
