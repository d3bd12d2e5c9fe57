package root

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"

	"lifesystem/adapters/jsonfile"
	mem "lifesystem/adapters/memory"
	redisAdapter "lifesystem/adapters/redis"
	sqlxAdapter "lifesystem/adapters/sqlx"
	"lifesystem/api/httpapi"
	"lifesystem/config"
	"lifesystem/engine"
	"lifesystem/gamify"
	"lifesystem/integrations/webhook"
	"lifesystem/realtime"
	"lifesystem/scheduler"
)

// App aggregates the assembled components.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Hub       *realtime.Hub
	Engine    *engine.Engine
	Scheduler *scheduler.Scheduler
	Handler   http.Handler
	Server    *http.Server
}

// ConfigPath is the optional config file given on the command line.
type ConfigPath string

func provideConfig(path ConfigPath) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(string(path))
}

func provideLogger(cfg *config.Config) *slog.Logger {
	return setupLogging(cfg, os.Stdout, os.Stderr)
}

func provideHub() *realtime.Hub {
	return realtime.NewHub()
}

func provideStorage(cfg *config.Config) (engine.Storage, func(), error) {
	return setupStorage(cfg)
}

func provideWebhooks(cfg *config.Config, logger *slog.Logger) *webhook.Sink {
	return webhook.New(cfg.Notifications.Webhooks,
		webhook.WithTimeout(cfg.Notifications.Timeout),
		webhook.WithLogger(logger))
}

func provideEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger, hub *realtime.Hub, storage engine.Storage, sink *webhook.Sink) (*engine.Engine, func(), error) {
	loc, err := cfg.Engine.Location()
	if err != nil {
		return nil, nil, err
	}
	opts := []gamify.Option{
		gamify.WithStorage(storage),
		gamify.WithRealtime(hub),
		gamify.WithDispatchMode(engine.ParseDispatchMode(cfg.Engine.Dispatch)),
		gamify.WithLocation(loc),
		gamify.WithLogger(logger),
		gamify.WithPlayerName(cfg.Engine.PlayerName),
	}
	if len(sink.Endpoints()) > 0 {
		opts = append(opts, gamify.WithWebhooks(sink))
	}
	if cfg.Engine.Seed != 0 {
		opts = append(opts, gamify.WithRandom(rand.New(rand.NewPCG(cfg.Engine.Seed, cfg.Engine.Seed))))
	}

	eng, err := gamify.Start(ctx, opts...)
	if eng == nil {
		return nil, nil, err
	}
	if err != nil {
		// corrupt or unreachable storage; the engine runs on defaults
		logger.Warn("saved progress not loaded", "error", err)
	}
	return eng, eng.Close, nil
}

func provideScheduler(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) (*scheduler.Scheduler, error) {
	loc, err := cfg.Engine.Location()
	if err != nil {
		return nil, err
	}
	return scheduler.New(eng, scheduler.Config{
		Interval: cfg.Engine.TickInterval,
		Location: loc,
		Logger:   logger,
	})
}

func provideHandler(eng *engine.Engine, hub *realtime.Hub, cfg *config.Config) http.Handler {
	return httpapi.NewMux(eng, hub, httpapi.Options{
		PathPrefix:       cfg.Server.PathPrefix,
		AllowCORSOrigin:  cfg.Server.CORSOrigin,
		APIKeys:          cfg.Security.APIKeys,
		RateLimitEnabled: cfg.Security.EnableRateLimit,
		RateLimitRPM:     cfg.Security.RateLimit.RequestsPerMinute,
		RateLimitBurst:   cfg.Security.RateLimit.BurstSize,
		RateLimitCleanup: cfg.Security.RateLimit.CleanupInterval,
	})
}

func provideServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

// setupLogging configures the logger based on configuration.
func setupLogging(cfg *config.Config, stdout, stderr io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	out := stdout
	if cfg.Logging.Output == "stderr" {
		out = stderr
	}

	switch cfg.Logging.Format {
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	if len(cfg.Logging.Attributes) > 0 {
		handler = handler.WithAttrs(convertAttributes(cfg.Logging.Attributes))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// convertAttributes converts map[string]string to []slog.Attr.
func convertAttributes(attrs map[string]string) []slog.Attr {
	var result []slog.Attr
	for k, v := range attrs {
		result = append(result, slog.String(k, v))
	}
	return result
}

// setupStorage creates the storage adapter named by configuration. The
// returned cleanup releases connections.
func setupStorage(cfg *config.Config) (engine.Storage, func(), error) {
	slot := cfg.Storage.Slot
	noop := func() {}
	switch cfg.Storage.Adapter {
	case "memory":
		return mem.New().Slot(slot), noop, nil
	case "file":
		return jsonfile.New(cfg.Storage.File.Path, slot), noop, nil
	case "redis":
		store, err := redisAdapter.New(cfg.Storage.Redis, slot)
		if err != nil {
			return nil, nil, fmt.Errorf("redis storage: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case "sql":
		store, err := sqlxAdapter.New(cfg.Storage.SQL, slot)
		if err != nil {
			return nil, nil, fmt.Errorf("sql storage: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage adapter: %s", cfg.Storage.Adapter)
	}
}
