package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"

	_ "github.com/artem13815/hr/booking/docs"

	apihttp "github.com/artem13815/hr/booking/api/http"
	"github.com/artem13815/hr/booking/api/http/middleware"
	"github.com/artem13815/hr/booking/pkg/assignment"
	"github.com/artem13815/hr/booking/pkg/booking"
	"github.com/artem13815/hr/booking/pkg/booking/automation"
	"github.com/artem13815/hr/booking/pkg/candidate"
	"github.com/artem13815/hr/booking/pkg/config"
	"github.com/artem13815/hr/booking/pkg/health"
	"github.com/artem13815/hr/booking/pkg/health/checkers"
	"github.com/artem13815/hr/booking/pkg/lifecycle"
	"github.com/artem13815/hr/booking/pkg/logging"
	"github.com/artem13815/hr/booking/pkg/notify"
	"github.com/artem13815/hr/booking/pkg/notify/redisstream"
	"github.com/artem13815/hr/booking/pkg/repository/memory"
	pgrepo "github.com/artem13815/hr/booking/pkg/repository/postgres"
	"github.com/artem13815/hr/booking/pkg/security/jwt"
	"github.com/artem13815/hr/booking/pkg/storage/postgres"
	redisstore "github.com/artem13815/hr/booking/pkg/storage/redis"
)

const streamMaxLen = 100_000

// stores is the persistence backend chosen by config.
type stores struct {
	assignments assignment.Repository
	candidates  candidate.Registry
	checker     health.Checker
}

func provideStores(ctx context.Context, cfg config.Config, log *logging.Logger) (stores, func(), error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory storage, state is lost on restart")
		return stores{
			assignments: memory.NewAssignmentStore(),
			candidates:  memory.NewCandidateStore(),
		}, func() {}, nil
	}
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return stores{}, nil, err
	}
	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		pool.Close()
		return stores{}, nil, err
	}
	if len(applied) > 0 {
		log.Info("migrations applied", "versions", applied)
	}
	return stores{
		assignments: pgrepo.NewAssignmentRepository(pool),
		candidates:  pgrepo.NewCandidateRepository(pool),
		checker:     checkers.NewPostgresChecker(pool),
	}, pool.Close, nil
}

func provideAssignmentRepository(s stores) assignment.Repository { return s.assignments }

func provideCandidateRegistry(s stores) candidate.Registry { return s.candidates }

func provideDirectory(r candidate.Registry) candidate.Directory { return r }

// provideRedis returns a nil client when REDIS_ADDR is empty.
func provideRedis(ctx context.Context, cfg config.Config, log *logging.Logger) (*redis.Client, func(), error) {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured, event stream and shared rate limit disabled")
		return nil, func() {}, nil
	}
	client, err := redisstore.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideReadiness(s stores, rdb *redis.Client) health.ReadinessUseCase {
	var list []health.Checker
	if s.checker != nil {
		list = append(list, s.checker)
	}
	if rdb != nil {
		list = append(list, checkers.NewRedisChecker(rdb))
	}
	return health.NewService(list...)
}

func providePublishers(cfg config.Config, rdb *redis.Client, log *logging.Logger) []notify.Publisher {
	pubs := []notify.Publisher{notify.NewLogPublisher(log)}
	if rdb != nil {
		pubs = append(pubs, redisstream.New(rdb, cfg.RedisStream, streamMaxLen))
	}
	if cfg.WebhookURL != "" {
		pubs = append(pubs, notify.NewWebhook(cfg.WebhookURL, cfg.WebhookSecret))
	}
	return pubs
}

// provideDispatcher returns a started dispatcher. App.Shutdown drains it.
func provideDispatcher(cfg config.Config, log *logging.Logger, pubs []notify.Publisher) *notify.Dispatcher {
	opts := notify.DefaultOptions()
	opts.Workers = cfg.DispatchWorkers
	opts.QueueSize = cfg.DispatchQueue
	if cfg.DispatchMaxAttempts > 0 {
		opts.MaxAttempts = uint64(cfg.DispatchMaxAttempts)
	}
	d := notify.NewDispatcher(opts, log, pubs...)
	d.Start()
	return d
}

func provideLifecycleOptions() lifecycle.Options { return lifecycle.DefaultOptions() }

// providePolicy registers the automated-candidate hook on the booking service.
func providePolicy(svc *booking.Service, candidates candidate.Directory, store assignment.Repository, log *logging.Logger) *automation.Policy {
	p := automation.NewPolicy(svc, candidates, store, log)
	p.Register()
	return p
}

func provideAuth(cfg config.Config) fiber.Handler {
	return jwt.NewAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)
}

func provideLimiter(rdb *redis.Client, log *logging.Logger) middleware.Limiter {
	if rdb == nil {
		return middleware.NewLocalLimiter()
	}
	return middleware.NewRedisLimiter(rdb, log)
}

func provideRateLimit(cfg config.Config, limiter middleware.Limiter) apihttp.RateLimit {
	return apihttp.RateLimit{
		Limiter: limiter,
		Limit:   cfg.AcceptRateLimit,
		Window:  cfg.AcceptRateWindow(),
	}
}

func provideFiber(log *logging.Logger, h apihttp.Handlers, auth fiber.Handler, rl apihttp.RateLimit) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "booking-service", DisableStartupMessage: true})
	app.Use(middleware.RequestLogger(log))

	// Register routes
	apihttp.Register(app, h, auth, rl)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)
	return app
}
