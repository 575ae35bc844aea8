package activity

import (
	"context"
	"time"

	"github.com/satyapal28/archive-server/internal/domain"
)

type Repository interface {
	// Create records a visitor action; callers treat failures as best-effort
	Create(ctx context.Context, activity domain.Activity) error

	// CleanupOldRecords deletes rows older than the given duration
	CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error)
}
