package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/corporate-inc/contact-api/authenticator"
	"github.com/corporate-inc/contact-api/config"
	"github.com/corporate-inc/contact-api/controllers"
	"github.com/corporate-inc/contact-api/database"
	"github.com/corporate-inc/contact-api/jobs"
	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/metrics"
	authmiddleware "github.com/corporate-inc/contact-api/middleware"
	"github.com/corporate-inc/contact-api/ratelimiter"
	"github.com/corporate-inc/contact-api/repositories"
	"github.com/corporate-inc/contact-api/services"
	"github.com/corporate-inc/contact-api/tracing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "contact-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is a development convenience; absence is fine
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logging.NewLogger(&logging.Config{
		Level:    cfg.Logging.Level,
		Backend:  cfg.Logging.Backend,
		FilePath: cfg.Logging.File,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(ctx, tracing.Config{
			ServiceName:    controllers.ServiceName,
			ServiceVersion: controllers.ServiceVersion,
			Environment:    cfg.Tracing.Environment,
			Endpoint:       cfg.Tracing.Endpoint,
			SampleRatio:    cfg.Tracing.SampleRatio,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error(logging.General, logging.Shutdown, "tracer shutdown failed",
					map[logging.ExtraKey]any{logging.ErrorMessage: err.Error()})
			}
		}()
	}

	if err := database.InitializeDatabase(cfg.Database.Path); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.CloseDB()
	db := database.GetDB()

	repos := repositories.NewRepositories(db)

	submissionLimiter := ratelimiter.NewSlidingWindow(
		cfg.RateLimit.SubmissionMax, cfg.RateLimit.SubmissionWindow, cfg.RateLimit.CleanupInterval)
	defer submissionLimiter.Close()

	apiLimiter := ratelimiter.NewSlidingWindow(
		cfg.RateLimit.GlobalMax, cfg.RateLimit.GlobalWindow, cfg.RateLimit.CleanupInterval)
	defer apiLimiter.Close()

	notifier := services.NewLogNotifier(log)
	srvs := services.NewServices(repos, submissionLimiter, notifier, cfg.Privacy.IPSalt, log)
	ctrl := controllers.NewControllers(srvs, db, log)

	auth, err := newAuthProvider(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize auth provider: %w", err)
	}

	router, err := setupRouter(cfg, ctrl, auth, repos, apiLimiter, log)
	if err != nil {
		return fmt.Errorf("failed to setup router: %w", err)
	}

	pruner := jobs.NewRetentionPruner(srvs.Retention, log, cfg.Retention.CleanupInterval)
	pruner.Start()
	defer pruner.Stop()

	var handler http.Handler = router
	if cfg.Tracing.Enabled {
		handler = otelhttp.NewHandler(router, "contact-api")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(logging.General, logging.Startup, "contact-api listening",
			map[logging.ExtraKey]any{logging.AppName: controllers.ServiceName, logging.Path: cfg.Database.Path})
		fmt.Printf("contact-api %s listening on %s (db: %s)\n",
			controllers.ServiceVersion, cfg.Addr(), cfg.Database.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info(logging.General, logging.Shutdown, "shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}

// newAuthProvider selects the configured identity provider
func newAuthProvider(cfg config.AuthConfig) (authenticator.Provider, error) {
	authCfg := authenticator.Config{
		Domain:       cfg.Domain,
		TenantID:     cfg.TenantID,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		CallbackURL:  cfg.CallbackURL,
	}

	switch cfg.Provider {
	case "azuread":
		return authenticator.NewAzureADProvider(authCfg)
	default:
		return authenticator.NewOpenIDProvider(authCfg)
	}
}

// setupRouter configures all routes
func setupRouter(cfg *config.Config, ctrl *controllers.Controllers, auth authenticator.Provider,
	repos *repositories.Repositories, apiLimiter ratelimiter.Limiter, log logging.Logger) (*chi.Mux, error) {

	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(chimiddleware.Compress(5))
	r.Use(authmiddleware.SecurityHeaders)
	r.Use(metrics.Middleware)

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:    "memory",
		CookieName:  "contact_session",
		Secure:      cfg.HTTP.SecureCookies,
		Gclifetime:  3600,
		Maxlifetime: 3600,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	r.Use(authmiddleware.AuditTrail(repos.Audit, cfg.Privacy.IPSalt, log))

	// PUBLIC ROUTES (no authentication required)
	r.Get("/login", ctrl.Auth.Login(auth))
	r.Get("/callback", ctrl.Auth.Callback(auth))
	r.Get("/logout", ctrl.Auth.Logout)
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(authmiddleware.RateLimit(apiLimiter))

		r.Get("/health", ctrl.Health.Check)
		r.Get("/contact/csrf", ctrl.Contact.CSRFToken)
		r.Post("/contact", ctrl.Contact.Submit)

		// Data subject routes (authentication required)
		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireAuth)
			r.Get("/users/{id}", ctrl.Privacy.Export)
			r.Delete("/users/{id}", ctrl.Privacy.Erase)
		})
	})

	// ADMIN ROUTES (authentication required)
	r.Route("/admin", func(r chi.Router) {
		r.Use(authmiddleware.RequireAuth)

		r.Get("/submissions", ctrl.Admin.ListSubmissions)
		r.Get("/submissions/{id}", ctrl.Admin.GetSubmission)
		r.Get("/audit", ctrl.Admin.ListAuditEvents)
		r.Post("/retention/cleanup", ctrl.Admin.RunRetentionCleanup)
	})

	return r, nil
}
