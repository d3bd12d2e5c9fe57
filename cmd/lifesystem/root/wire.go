//go:build wireinject
// +build wireinject

package root

import (
	"context"

	"github.com/google/wire"
)

// BuildApp wires the components using Google Wire.
func BuildApp(ctx context.Context, path ConfigPath) (*App, func(), error) {
	wire.Build(
		provideConfig,
		provideLogger,
		provideHub,
		provideStorage,
		provideWebhooks,
		provideEngine,
		provideScheduler,
		provideHandler,
		provideServer,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
