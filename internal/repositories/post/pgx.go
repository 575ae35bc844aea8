package post

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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
		logger: logger.WithComponent("PostRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

var mediaTables = map[string]string{
	"images": "post_images",
	"videos": "post_videos",
	"links":  "post_links",
}

// ListRange returns posts ordered by timestamp descending with media attached
func (p *Pgx) ListRange(ctx context.Context, offset, limit int) ([]domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "timestamp", "date", "type", "content").
		From("posts").
		OrderBy("timestamp DESC NULLS LAST", "id").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	var ids []string
	for rows.Next() {
		var post domain.Post
		var ts *time.Time
		var date, typ, content *string
		if err := rows.Scan(&post.ID, &ts, &date, &typ, &content); err != nil {
			return nil, err
		}
		if ts != nil {
			post.Timestamp = *ts
		}
		if date != nil {
			post.Date = *date
		}
		if typ != nil {
			post.Type = *typ
		}
		if content != nil {
			post.Content = *content
		}
		posts = append(posts, post)
		ids = append(ids, post.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return posts, nil
	}

	if err := p.attachMedia(ctx, ids, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID returns a single post with media attached
func (p *Pgx) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "timestamp", "date", "type", "content").
		From("posts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var post domain.Post
	var ts *time.Time
	var date, typ, content *string
	err = p.pg.QueryRow(ctx, query, args...).Scan(&post.ID, &ts, &date, &typ, &content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ts != nil {
		post.Timestamp = *ts
	}
	if date != nil {
		post.Date = *date
	}
	if typ != nil {
		post.Type = *typ
	}
	if content != nil {
		post.Content = *content
	}

	posts := []domain.Post{post}
	if err := p.attachMedia(ctx, []string{post.ID}, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// attachMedia loads image/video/link rows for the given ids, in insertion order
func (p *Pgx) attachMedia(ctx context.Context, ids []string, posts []domain.Post) error {
	index := make(map[string]int, len(posts))
	for i, post := range posts {
		index[post.ID] = i
	}

	for kind, table := range mediaTables {
		query, args, err := repositories.SqBuilder.
			Select("post_id", "url").
			From(table).
			Where(sq.Eq{"post_id": ids}).
			OrderBy("id").
			ToSql()
		if err != nil {
			return repositories.ErrBadQuery
		}

		rows, err := p.pg.Query(ctx, query, args...)
		if err != nil {
			return err
		}

		for rows.Next() {
			var postID, url string
			if err := rows.Scan(&postID, &url); err != nil {
				rows.Close()
				return err
			}
			i, ok := index[postID]
			if !ok {
				continue
			}
			switch kind {
			case "images":
				posts[i].Images = append(posts[i].Images, url)
			case "videos":
				posts[i].Videos = append(posts[i].Videos, url)
			case "links":
				posts[i].Links = append(posts[i].Links, url)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}
	return nil
}

// Create inserts a post together with its media rows, returning the new id
func (p *Pgx) Create(ctx context.Context, draft domain.PostDraft) (string, error) {
	id := uuid.NewString()

	tx, err := p.pg.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	query, args, err := repositories.SqBuilder.
		Insert("posts").
		Columns("id", "timestamp", "date", "type", "content").
		Values(id, nullableTime(draft.Timestamp), "", draft.Type, draft.Content).
		ToSql()
	if err != nil {
		return "", repositories.ErrBadQuery
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return "", err
	}

	if err := insertMedia(ctx, tx, id, draft); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// Update rewrites the post row and replaces all media rows wholesale
func (p *Pgx) Update(ctx context.Context, id string, draft domain.PostDraft) error {
	tx, err := p.pg.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query, args, err := repositories.SqBuilder.
		Update("posts").
		Set("timestamp", nullableTime(draft.Timestamp)).
		Set("type", draft.Type).
		Set("content", draft.Content).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	for _, table := range mediaTables {
		query, args, err := repositories.SqBuilder.
			Delete(table).
			Where(sq.Eq{"post_id": id}).
			ToSql()
		if err != nil {
			return repositories.ErrBadQuery
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := insertMedia(ctx, tx, id, draft); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete removes the post; media, likes and comments cascade
func (p *Pgx) Delete(ctx context.Context, id string) error {
	query, args, err := repositories.SqBuilder.
		Delete("posts").
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

func insertMedia(ctx context.Context, tx pgx.Tx, postID string, draft domain.PostDraft) error {
	batches := []struct {
		table string
		urls  []string
	}{
		{"post_images", draft.Images},
		{"post_videos", draft.Videos},
		{"post_links", draft.Links},
	}

	for _, b := range batches {
		if len(b.urls) == 0 {
			continue
		}
		builder := repositories.SqBuilder.
			Insert(b.table).
			Columns("post_id", "url")
		for _, url := range b.urls {
			builder = builder.Values(postID, url)
		}
		query, args, err := builder.ToSql()
		if err != nil {
			return repositories.ErrBadQuery
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
