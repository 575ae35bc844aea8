package translatorimpl

import (
	"github.com/satyapal28/archive-server/internal/translator"
	"go.uber.org/fx"
)

var Module = fx.Module("translator",
	fx.Provide(
		New,
		fx.Annotate(
			func(impl *Impl) translator.Client {
				return impl
			},
			fx.As(new(translator.Client)),
		),
	),
)
