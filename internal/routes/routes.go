package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/roofline/roofline/internal/auth"
	"github.com/roofline/roofline/internal/config"
	"github.com/roofline/roofline/internal/identity"
	"github.com/roofline/roofline/internal/listing"
	"github.com/roofline/roofline/internal/middleware"
	"github.com/roofline/roofline/internal/notification"
	"github.com/roofline/roofline/internal/signup"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !isDev(d.Cfg.Env) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}
	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	// Health
	RegisterHealthRoutes(app, d)

	// Repositories
	var (
		accountRepo identity.Repository
		pendingRepo signup.Repository
		listingRepo listing.Repository
	)
	if d.DB != nil {
		accountRepo = identity.NewPostgresRepository(d.DB)
		pendingRepo = signup.NewPostgresRepository(d.DB)
		listingRepo = listing.NewPostgresRepository(d.DB)
	} else {
		accountRepo = identity.NewMemoryRepository()
		pendingRepo = signup.NewMemoryRepository()
		listingRepo = listing.NewMemoryRepository()
	}

	// Services and handlers
	var notifier notification.Notifier
	if d.Cfg.SMTPHost != "" {
		notifier = notification.NewEmailNotifier(notification.EmailConfig{
			Host:     d.Cfg.SMTPHost,
			Port:     d.Cfg.SMTPPort,
			Username: d.Cfg.SMTPUser,
			Password: d.Cfg.SMTPPass,
			From:     d.Cfg.SMTPFrom,
		})
	} else {
		notifier = notification.NewLoggerNotifier(d.Logger)
	}

	tokenSvc := auth.NewTokenService([]byte(d.Cfg.JWTSecret), d.Cfg.TokenTTL)
	signupSvc := signup.NewService(pendingRepo, accountRepo, tokenSvc, notifier, d.Logger, signup.Options{
		CodeTTL:      d.Cfg.OTPTTL,
		ResendStrict: d.Cfg.OTPResendStrict,
	})
	authSvc := auth.NewService(accountRepo, tokenSvc)
	authHandler := auth.NewHandler(signupSvc, authSvc)
	identityHandler := identity.NewHandler(identity.NewService(accountRepo))
	listingHandler := listing.NewHandler(listing.NewService(listingRepo))

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	guard := middleware.RequireAccount(tokenSvc, accountRepo)

	// Duplicate listing submissions are the one place a retried POST must
	// not create a second resource; signup retries are handled by the
	// pending-slot semantics instead.
	var idem fiber.Handler
	if d.Cache != nil {
		idem = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}

	RegisterAuthRoutes(api, authHandler)
	RegisterListingRoutes(api, listingHandler, guard, idem)
	RegisterProfileRoutes(api, identityHandler, guard)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
