package app

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/satyapal28/archive-server/internal/auth/authimpl"
	"github.com/satyapal28/archive-server/internal/feed"
	"github.com/satyapal28/archive-server/internal/interactions/interactionsimpl"
	"github.com/satyapal28/archive-server/internal/maintenance"
	"github.com/satyapal28/archive-server/internal/pgx"
	repositories "github.com/satyapal28/archive-server/internal/repositories/fx"
	"github.com/satyapal28/archive-server/internal/server"
	"github.com/satyapal28/archive-server/internal/storage/s3impl"
	"github.com/satyapal28/archive-server/internal/translator/translatorimpl"
	"github.com/satyapal28/archive-server/pkg/config"
	"github.com/satyapal28/archive-server/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
	),
	repositories.Module,
	translatorimpl.Module,
	authimpl.Module,
	s3impl.Module,
	interactionsimpl.Module,
	feed.Module,
	server.Module,
	maintenance.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

// migrate applies pending schema migrations before anything touches the pool.
func migrate(cfg *config.Config) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	return goose.Up(db, filepath.Join(wd, "migrations"))
}

// run performs the initial archive load and makes sure the server and jobs
// are instantiated.
func run(lc fx.Lifecycle, log logger.Logger, feedSvc *feed.Service, _ *server.Server, _ *maintenance.Jobs) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Fail-soft: a degraded load still serves whatever arrived.
			result := feedSvc.Load(ctx)
			if result.Err != nil {
				log.Warn("Initial archive load was partial", "posts", result.Total, "error", result.Err)
			}
			return nil
		},
	})
}
