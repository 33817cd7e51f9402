package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/forum-client/internal/domain"
	"github.com/example/forum-client/internal/listing"
	"github.com/example/forum-client/internal/offline"
	"github.com/example/forum-client/internal/platform/auth"
	"github.com/example/forum-client/internal/platform/config"
	"github.com/example/forum-client/internal/platform/events"
	"github.com/example/forum-client/internal/platform/httpserver"
	"github.com/example/forum-client/internal/platform/logging"
	"github.com/example/forum-client/internal/platform/natsconn"
	"github.com/example/forum-client/internal/platform/run"
	"github.com/example/forum-client/internal/remote"
	"github.com/example/forum-client/internal/session"
	webconfig "github.com/example/forum-client/services/web/internal/config"
	"github.com/example/forum-client/services/web/internal/handlers"
	webhttp "github.com/example/forum-client/services/web/internal/http"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	webCfg, err := webconfig.LoadWeb()
	if err != nil {
		log.Error("load web config", zap.Error(err))
		run.Exit(1)
	}

	runner := run.New(log)
	instance := uuid.NewString()

	store, err := offline.NewStore(offline.Config{
		RedisURL:     webCfg.RedisURL,
		DatabaseURL:  webCfg.DatabaseURL,
		TTL:          webCfg.OfflineTTL,
		RenderTarget: webCfg.RenderTarget,
		IsProd:       cfg.IsProd(),
		Logger:       log,
	})
	if err != nil {
		log.Error("init offline store", zap.Error(err))
		run.Exit(1)
	}
	if c, ok := store.(io.Closer); ok {
		runner.OnShutdown(func(context.Context) error { return c.Close() })
	}

	var forum remote.API
	switch webCfg.RemoteMode {
	case webconfig.RemoteMemory:
		mem := remote.NewMemoryAPI()
		mem.AddPost(domain.Post{Name: "Welcome", CommunityName: "main", Body: "Running against the in-memory forum."})
		forum = mem
		log.Info("using in-memory forum")
	default:
		forum = remote.NewHTTPClient(webCfg.RemoteBaseURL, webCfg.RemoteRPS)
	}

	status := remote.NewStatus(true, log)

	var (
		nc        *nats.Conn
		publisher *events.Publisher
	)
	natsOpts := natsconn.Options{URL: webCfg.NATSURL, Name: cfg.ServiceName, Logger: log}
	if natsconn.Enabled(natsOpts) {
		conn, err := natsconn.Connect(natsOpts)
		if err != nil {
			log.Warn("nats unavailable, cache invalidation stays local", zap.Error(err))
		} else {
			nc = conn
			publisher = events.New(nc, instance, log)
			runner.OnShutdown(func(context.Context) error { return nc.Drain() })
		}
	}

	app := session.NewApp(session.Options{
		API:      forum,
		Network:  status,
		Store:    store,
		Events:   publisher,
		PageSize: webCfg.PageSize,
		Logger:   log,
	})

	if nc != nil {
		if _, err := listing.NewInvalidator(instance, app, log).Subscribe(nc); err != nil {
			log.Warn("subscribe cache invalidation", zap.Error(err))
		}
	}

	limiter := webhttp.NewRateLimiter(webCfg.RateLimitRPS, webCfg.RateLimitBurst)

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{
		ReadyFunc: func() error {
			if f, ok := store.(*offline.Fallback); ok && f.Degraded() {
				return errors.New("offline store degraded to memory")
			}
			return nil
		},
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("forum client"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Use(auth.Identify(auth.JWTVerifier{Secret: webCfg.JWTSecret}))
		handlers.Mount(r, app)
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	code := runner.WithSignals(func(ctx context.Context) error {
		prober := &remote.Prober{Pinger: forum, Status: status, Interval: webCfg.ProbeInterval, Logger: log}
		go prober.Run(ctx)
		go sweep(ctx, log, app, limiter, webCfg.SessionIdle)
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// sweep drops idle sessions and rate limit buckets.
func sweep(ctx context.Context, log *zap.Logger, app *session.App, limiter *webhttp.RateLimiter, idle time.Duration) {
	if idle <= 0 {
		return
	}
	t := time.NewTicker(idle / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n := app.Sessions().Sweep(idle)
			m := limiter.Sweep(idle)
			if n > 0 || m > 0 {
				log.Debug("swept idle clients", zap.Int("sessions", n), zap.Int("limiters", m))
			}
		}
	}
}
