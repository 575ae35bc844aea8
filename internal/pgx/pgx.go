package pgx

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/satyapal28/archive-server/pkg/config"
	"github.com/satyapal28/archive-server/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In
	LC fx.Lifecycle

	Logger logger.Logger
	Config *config.Config
}

func New(opts Opts) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), opts.Config.GetDSN())
	if err != nil {
		return nil, err
	}

	opts.LC.Append(
		fx.Hook{
			OnStop: func(ctx context.Context) error {
				pool.Close()
				return nil
			},
			OnStart: func(ctx context.Context) error {
				err := pool.Ping(ctx)
				if err != nil {
					return err
				}

				opts.Logger.Info("Connected to postgres")
				return nil
			},
		},
	)

	return pool, nil
}
