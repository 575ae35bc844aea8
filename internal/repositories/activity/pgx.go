package activity

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/satyapal28/archive-server/internal/domain"
	"github.com/satyapal28/archive-server/internal/repositories"
	"github.com/satyapal28/archive-server/pkg/logger"

	sq "github.com/Masterminds/squirrel"
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("ActivityRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// Create records a visitor action
func (p *Pgx) Create(ctx context.Context, a domain.Activity) error {
	query, args, err := repositories.SqBuilder.
		Insert("user_activity").
		Columns("user_id", "username", "action", "post_id", "session_start", "created_at").
		Values(a.UserID, a.Username, a.Action, a.PostID, a.SessionStart, time.Now()).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	return err
}

// CleanupOldRecords deletes rows older than the given duration
func (p *Pgx) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	query, args, err := repositories.SqBuilder.
		Delete("user_activity").
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
