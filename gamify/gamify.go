package gamify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	mem "lifesystem/adapters/memory"
	"lifesystem/core"
	"lifesystem/engine"
	"lifesystem/integrations/webhook"
	"lifesystem/realtime"
)

// Option configures the engine builder.
type Option func(*config)

type config struct {
	storage engine.Storage
	mode    engine.DispatchMode
	hub     *realtime.Hub
	sinks   []*webhook.Sink
	opts    []engine.Option
}

// WithStorage sets the persistence adapter.
func WithStorage(s engine.Storage) Option { return func(c *config) { c.storage = s } }

// WithDispatchMode selects sync or async event dispatch.
func WithDispatchMode(m engine.DispatchMode) Option { return func(c *config) { c.mode = m } }

// WithRealtime wires a realtime hub to receive all engine events.
func WithRealtime(h *realtime.Hub) Option { return func(c *config) { c.hub = h } }

// WithWebhooks forwards every engine event to sink.
func WithWebhooks(sink *webhook.Sink) Option {
	return func(c *config) {
		if sink != nil {
			c.sinks = append(c.sinks, sink)
		}
	}
}

// WithClock sets the engine's time source.
func WithClock(clk engine.Clock) Option { return engineOption(engine.WithClock(clk)) }

// WithRandom sets the engine's randomness source.
func WithRandom(r engine.Random) Option { return engineOption(engine.WithRandom(r)) }

// WithLocation sets the zone calendar days are computed in.
func WithLocation(loc *time.Location) Option { return engineOption(engine.WithLocation(loc)) }

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option { return engineOption(engine.WithLogger(l)) }

// WithPlayerName names a newly created player.
func WithPlayerName(name string) Option { return engineOption(engine.WithPlayerName(name)) }

func engineOption(o engine.Option) Option {
	return func(c *config) { c.opts = append(c.opts, o) }
}

// New builds a configured Engine. If not provided, defaults are used:
//   - storage: in-memory
//   - dispatch: async
//
// The returned engine holds default state until Load is called.
func New(opts ...Option) *engine.Engine {
	cfg := &config{mode: engine.DispatchAsync}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.storage == nil {
		cfg.storage = mem.New()
	}
	bus := engine.NewEventBus(cfg.mode)
	if cfg.hub != nil {
		hub := cfg.hub
		bus.SubscribeAll(func(ctx context.Context, e core.Event) { hub.Broadcast(ctx, e) })
	}
	for _, sink := range cfg.sinks {
		bus.SubscribeAll(sink.OnEvent)
	}
	return engine.New(cfg.storage, bus, cfg.opts...)
}

// Start builds an engine, restores saved state and runs the startup check-in.
// Corrupt or unreadable storage is not fatal: the engine still runs and the
// load error is returned alongside it.
func Start(ctx context.Context, opts ...Option) (*engine.Engine, error) {
	eng := New(opts...)
	loadErr := eng.Load(ctx)

	var corrupt *core.DeserializationError
	var persist *core.PersistenceError
	if loadErr != nil && !errors.As(loadErr, &corrupt) && !errors.As(loadErr, &persist) {
		eng.Close()
		return nil, loadErr
	}
	if err := eng.CheckIn(ctx); err != nil {
		eng.Close()
		return nil, err
	}
	return eng, loadErr
}
