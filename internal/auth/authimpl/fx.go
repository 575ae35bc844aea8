package authimpl

import (
	"github.com/satyapal28/archive-server/internal/auth"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(
		New,
		fx.Annotate(
			func(impl *Impl) auth.Client {
				return impl
			},
			fx.As(new(auth.Client)),
		),
	),
)
