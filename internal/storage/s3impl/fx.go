package s3impl

import (
	"github.com/satyapal28/archive-server/internal/storage"
	"go.uber.org/fx"
)

var Module = fx.Module("storage",
	fx.Provide(
		New,
		fx.Annotate(
			func(impl *Impl) storage.Client {
				return impl
			},
			fx.As(new(storage.Client)),
		),
	),
)
