package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/collectif/platform/modules/associations"
	"github.com/collectif/platform/modules/campaigns"
	"github.com/collectif/platform/modules/directory"
	"github.com/collectif/platform/modules/donations"
	"github.com/collectif/platform/modules/members"
	"github.com/collectif/platform/modules/pages"
	"github.com/collectif/platform/pkg/config"
	"github.com/collectif/platform/pkg/email"
	"github.com/collectif/platform/pkg/guard"
	"github.com/collectif/platform/pkg/httpserver"
	"github.com/collectif/platform/pkg/jwt"
	"github.com/collectif/platform/pkg/logger"
	"github.com/collectif/platform/pkg/pg"
	"github.com/collectif/platform/pkg/redis"
	"github.com/collectif/platform/pkg/requestid"
	"github.com/collectif/platform/pkg/scopeddb"
	"github.com/collectif/platform/pkg/tenant"
)

type appConfig struct {
	AppEnv         string        `env:"APP_ENV" envDefault:"development"`
	PlatformDomain string        `env:"PLATFORM_DOMAIN,required"`
	JWTSigningKey  string        `env:"JWT_SIGNING_KEY,required"`
	WebhookSecret  string        `env:"DONATION_WEBHOOK_SECRET,required"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	RedisEnabled   bool          `env:"REDIS_ENABLED" envDefault:"false"`

	Log   logger.Config
	HTTP  httpserver.Config
	PG    pg.Config
	Redis redis.Config
	Email email.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Log,
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			tenant.LoggerExtractor(),
		),
	)
	slog.SetDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	checks := []func(context.Context) error{pg.Healthcheck(pool)}

	// Tenant lookups fall back to a per-process cache when redis is off;
	// a multi-replica deployment should enable redis so suspensions
	// propagate across replicas within one TTL.
	cache := tenant.NewInMemoryCache()
	if cfg.RedisEnabled {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		cache = tenant.NewRedisCache(client, "tenant")
		checks = append(checks, redis.Healthcheck(client))
	}

	unscoped := scopeddb.NewUnscoped(pool)

	dirStore := directory.NewStore(unscoped)
	dirHandler := directory.NewHandler(directory.NewService(dirStore, log, cfg.PlatformDomain))

	tokens, err := jwt.New([]byte(cfg.JWTSigningKey))
	if err != nil {
		return fmt.Errorf("init token service: %w", err)
	}

	memberSvc := members.NewService(members.NewStore(), members.NewGlobalStore(unscoped), tokens, cfg.SessionTTL, log)
	memberHandler := members.NewHandler(memberSvc, cfg.AppEnv != "development")

	var mail email.Sender
	if cfg.Email.PostmarkServerToken != "" {
		if mail, err = email.NewPostmarkSender(cfg.Email); err != nil {
			return fmt.Errorf("init postmark: %w", err)
		}
	} else {
		mail = email.NewLogSender(log)
	}

	campaignStore := campaigns.NewStore()
	campaignHandler := campaigns.NewHandler(campaignStore, cfg.PlatformDomain)

	donationSvc := donations.NewService(donations.NewStore(), campaignStore, mail, log)
	donationHandler := donations.NewHandler(donationSvc, cfg.WebhookSecret)

	assocHandler := associations.NewHandler(associations.NewStore())
	pageHandler := pages.NewHandler(pages.NewStore())

	router := newRouter(routerDeps{
		cfg:             cfg,
		log:             log,
		pool:            pool,
		cache:           cache,
		dirStore:        dirStore,
		dirHandler:      dirHandler,
		memberSvc:       memberSvc,
		memberHandler:   memberHandler,
		assocHandler:    assocHandler,
		campaignHandler: campaignHandler,
		donationHandler: donationHandler,
		pageHandler:     pageHandler,
		checks:          checks,
	})

	return httpserver.NewFromConfig(cfg.HTTP, log).Run(ctx, router)
}

type routerDeps struct {
	cfg             appConfig
	log             *slog.Logger
	pool            scopeddb.DBTX
	cache           tenant.Cache
	dirStore        *directory.Store
	dirHandler      *directory.Handler
	memberSvc       *members.Service
	memberHandler   *members.Handler
	assocHandler    *associations.Handler
	campaignHandler *campaigns.Handler
	donationHandler *donations.Handler
	pageHandler     *pages.Handler
	checks          []func(context.Context) error
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)

	r.Get("/healthz", httpserver.HealthCheckHandler(d.checks...))

	authn := members.Authenticator(d.memberSvc)

	// Platform surface. Served from the bare platform domain, so no tenant
	// is resolved here; the directory itself is the thing being managed.
	r.Route("/platform", func(r chi.Router) {
		r.Use(authn)
		r.Mount("/auth", d.memberHandler.PlatformAuthRouter())

		r.Group(func(r chi.Router) {
			r.Use(guard.RequirePlatformAdmin(d.log))
			r.Mount("/tenants", d.dirHandler.Router())
		})
	})

	// Tenant surface. Every route below runs with a resolved active tenant
	// and a database handle scoped to it.
	r.Group(func(r chi.Router) {
		r.Use(tenant.Middleware(
			tenant.NewDefaultResolver(d.cfg.PlatformDomain),
			d.dirStore,
			tenant.WithCache(d.cache),
			tenant.WithLogger(d.log),
			tenant.WithSkipPaths([]string{"/platform", "/healthz"}),
		))
		r.Use(tenant.RequireTenant(nil))
		r.Use(scopeddb.Middleware(d.pool))
		r.Use(authn)

		// Public: visitors donate and read published content without an
		// account. The payment processor's webhook authenticates with an
		// HMAC signature instead of a session.
		r.Mount("/auth", d.memberHandler.AuthRouter())
		r.Mount("/p", d.pageHandler.PublicRouter())
		r.Mount("/campaigns", d.campaignHandler.ReadRouter())
		r.Mount("/donations", d.donationHandler.PublicRouter())
		r.Post("/webhooks/donations", d.donationHandler.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(guard.RequireMember(d.log))
			r.Put("/me/password", d.memberHandler.ChangePassword)
			r.Mount("/associations", d.assocHandler.ReadRouter())
		})

		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAdmin(d.log))
			r.Mount("/admin/members", d.memberHandler.AdminRouter())
			r.Mount("/admin/associations", d.assocHandler.WriteRouter())
			r.Mount("/admin/campaigns", d.campaignHandler.WriteRouter())
			r.Mount("/admin/donations", d.donationHandler.AdminRouter())
			r.Mount("/admin/pages", d.pageHandler.AdminRouter())
		})
	})

	return r
}
