package comment

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
		logger: logger.WithComponent("CommentRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// Create inserts a comment
func (p *Pgx) Create(ctx context.Context, comment domain.Comment) error {
	query, args, err := repositories.SqBuilder.
		Insert("comments").
		Columns("post_id", "username", "message", "created_at").
		Values(comment.PostID, comment.Username, comment.Message, time.Now()).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	return err
}

// ListByPost returns all comments for a post ordered ascending by creation time
func (p *Pgx) ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "post_id", "username", "message", "created_at").
		From("comments").
		Where(sq.Eq{"post_id": postID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Username, &c.Message, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByPost returns the comment count for a post
func (p *Pgx) CountByPost(ctx context.Context, postID string) (int, error) {
	query, args, err := repositories.SqBuilder.
		Select("COUNT(*)").
		From("comments").
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

// Delete removes a comment by id
func (p *Pgx) Delete(ctx context.Context, id int64) error {
	query, args, err := repositories.SqBuilder.
		Delete("comments").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	tag, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
