// Package main is the entrypoint for the InfoSort API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/infosort/infosort/internal/auth"
	"github.com/infosort/infosort/internal/config"
	"github.com/infosort/infosort/internal/handler"
	"github.com/infosort/infosort/internal/middleware"
	"github.com/infosort/infosort/internal/repository"
	"github.com/infosort/infosort/internal/server"
	"github.com/infosort/infosort/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration. A missing JWT_SECRET fails here, by design.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Apply schema migrations before opening the pool
	if err := repository.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error(
			"failed to migrate database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Token issuer: also the verifier used by the request gate
	issuer, err := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTExpiresIn)
	if err != nil {
		logger.Error("failed to initialize token issuer", "error", err)
		os.Exit(1)
	}

	// Initialize services
	authService := service.NewAuthService(repo, issuer)
	userService := service.NewUserService(repo)
	tagService := service.NewTagService(repo)
	itemService := service.NewItemService(repo)
	assocService := service.NewAssociationService(repo)

	// Initialize handlers
	dev := cfg.IsDevelopment()
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo)
	authHandler := handler.NewAuthHandler(authService, logger, dev)
	userHandler := handler.NewUserHandler(userService, logger, dev)
	tagHandler := handler.NewTagHandler(tagService, logger, dev)
	itemHandler := handler.NewItemHandler(itemService, logger, dev)
	assocHandler := handler.NewAssociationHandler(assocService, logger, dev)

	r := setupRouter(h, healthHandler, authHandler, userHandler, tagHandler, itemHandler, assocHandler, issuer, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"token_ttl", cfg.JWTExpiresIn.String(),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
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

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	tagHandler *handler.TagHandler,
	itemHandler *handler.ItemHandler,
	assocHandler *handler.AssociationHandler,
	verifier *auth.TokenIssuer,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	authCfg := middleware.AuthConfig{
		Logger:   logger,
		Verifier: verifier,
	}

	r.Route("/api", func(r chi.Router) {
		// Open endpoints: registration and login
		r.Post("/auth/login", authHandler.Login)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Create)
			r.Get("/", userHandler.List)
			r.Get("/{lineUserId}", userHandler.Get)
			r.Delete("/{lineUserId}", userHandler.Delete)
		})

		// Everything below requires a bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", tagHandler.List)
				r.Get("/{id}", tagHandler.Get)
				r.Post("/", tagHandler.Create)
				r.Put("/{id}", tagHandler.Update)
				r.Delete("/{id}", tagHandler.Delete)
			})

			r.Route("/items", func(r chi.Router) {
				r.Get("/", itemHandler.List)
				r.Get("/type/{type}", itemHandler.ListByType)
				r.Get("/{id}", itemHandler.Get)
				r.Post("/", itemHandler.Create)
				r.Put("/{id}", itemHandler.Update)
				r.Delete("/{id}", itemHandler.Delete)
			})

			r.Route("/item-tag-associations", func(r chi.Router) {
				r.Post("/", assocHandler.Create)
				r.Delete("/{itemId}/{tagId}", assocHandler.Delete)
				r.Get("/item/{itemId}/tags", assocHandler.TagsForItem)
				r.Get("/tag/{tagId}/items", assocHandler.ItemsForTag)
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
