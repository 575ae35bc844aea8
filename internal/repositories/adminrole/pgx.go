package adminrole

import (
	"context"
	"errors"

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
		logger: logger.WithComponent("AdminRoleRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

// GetUserByEmail returns the account for a login attempt, or ErrNotFound
func (p *Pgx) GetUserByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "email", "password_hash").
		From("admin_users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var u domain.AdminUser
	err = p.pg.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// IsAdmin reports whether the user has a row in the admin roles relation
func (p *Pgx) IsAdmin(ctx context.Context, userID string) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Select("1").
		From("admin_roles").
		Where(sq.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}

	var one int
	err = p.pg.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
