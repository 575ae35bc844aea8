package like

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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
		logger: logger.WithComponent("LikeRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// Find returns the like row for (post, user), or ErrNotFound
func (p *Pgx) Find(ctx context.Context, postID, userID string) (*domain.Like, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "post_id", "user_id", "username", "created_at").
		From("likes").
		Where(sq.Eq{"post_id": postID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var l domain.Like
	err = p.pg.QueryRow(ctx, query, args...).Scan(&l.ID, &l.PostID, &l.UserID, &l.Username, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Create inserts a like; a duplicate (post, user) pair yields ErrAlreadyExists
func (p *Pgx) Create(ctx context.Context, like domain.Like) error {
	query, args, err := repositories.SqBuilder.
		Insert("likes").
		Columns("post_id", "user_id", "username", "created_at").
		Values(like.PostID, like.UserID, like.Username, time.Now()).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a like row by id
func (p *Pgx) Delete(ctx context.Context, id int64) error {
	query, args, err := repositories.SqBuilder.
		Delete("likes").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	return err
}

// CountByPost returns the authoritative like count for a post
func (p *Pgx) CountByPost(ctx context.Context, postID string) (int, error) {
	query, args, err := repositories.SqBuilder.
		Select("COUNT(*)").
		From("likes").
		Where(sq.Eq{"post_id": postID}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	var count int
	if err := p.pg.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListByPost returns all likes for a post, newest first
func (p *Pgx) ListByPost(ctx context.Context, postID string) ([]*domain.Like, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "post_id", "user_id", "username", "created_at").
		From("likes").
		Where(sq.Eq{"post_id": postID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var likes []*domain.Like
	for rows.Next() {
		var l domain.Like
		if err := rows.Scan(&l.ID, &l.PostID, &l.UserID, &l.Username, &l.CreatedAt); err != nil {
			return nil, err
		}
		likes = append(likes, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return likes, nil
}
