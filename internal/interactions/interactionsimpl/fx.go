package interactionsimpl

import (
	"github.com/satyapal28/archive-server/internal/interactions"
	"go.uber.org/fx"
)

var Module = fx.Module("interactions",
	fx.Provide(
		New,
		fx.Annotate(
			func(impl *Impl) interactions.Service {
				return impl
			},
			fx.As(new(interactions.Service)),
		),
	),
)
