// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/markgaal068/bigHITS/internal/auth"
	"github.com/markgaal068/bigHITS/internal/cache"
	"github.com/markgaal068/bigHITS/internal/catalog"
	"github.com/markgaal068/bigHITS/internal/collection"
	"github.com/markgaal068/bigHITS/internal/config"
	"github.com/markgaal068/bigHITS/internal/handler"
	"github.com/markgaal068/bigHITS/internal/handler/api"
	"github.com/markgaal068/bigHITS/internal/logging"
	"github.com/markgaal068/bigHITS/internal/metrics"
	"github.com/markgaal068/bigHITS/internal/middleware"
	"github.com/markgaal068/bigHITS/internal/render"
	"github.com/markgaal068/bigHITS/internal/scheduler"
	"github.com/markgaal068/bigHITS/internal/session"
	"github.com/markgaal068/bigHITS/internal/store"
	"github.com/markgaal068/bigHITS/internal/version"
	"github.com/markgaal068/bigHITS/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const (
	evictViewsSchedule   = "@every 1m"
	loginCleanupSchedule = "@every 10m"
	shutdownTimeout      = 30 * time.Second
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "bigHITS - blog, shop and tutoring site with admin\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIGHITS_SESSION_SECRET   Session and token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIGHITS_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIGHITS_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIGHITS_SITE_URL         Public base URL for robots.txt and the sitemap\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIGHITS_DB_DRIVER        Database driver: sqlite|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIGHITS_DB_PATH          SQLite database path (default: ./data/bighits.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIGHITS_DB_DSN           MySQL DSN (required for mysql)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIGHITS_DATA_SOURCE      Catalog source: sql|memory (default: sql)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIGHITS_MOCK_LATENCY     Simulated latency of the memory source (default: 1s)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIGHITS_REDIS_URL        Redis URL for shared caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIGHITS_DO_SEED          Seed the admin user and demo catalog on startup\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIGHITS_ADMIN_EMAIL      Seeded admin email (default: admin@bighits.com)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BIGHITS_ADMIN_PASSWORD   Seeded admin password (required outside development)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.SlogLevel())
	slog.SetDefault(logger)
	slog.Info("starting bigHITS", "version", info.Version, "env", cfg.Env)

	if cfg.DBDriver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	slog.Info("initializing database", "driver", cfg.DBDriver)
	db, err := store.Open(cfg.DBDriver, cfg.DBSource())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	if err := store.Migrate(db, cfg.DBDriver); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("migrations completed")

	ctx := context.Background()
	if cfg.DoSeed {
		opts := store.SeedOptions{
			AdminEmail:    cfg.AdminEmail,
			AdminPassword: cfg.SeedAdminPassword(),
			Fixtures:      true,
		}
		if err := store.Seed(ctx, db, opts); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	cacheInstance, err := cache.New(cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       cfg.CacheTTL,
		MaxSize:          cfg.CacheMaxSize,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = cacheInstance.Close() }()

	queries := store.New(db)

	var sources catalog.Sources
	if cfg.UseMemorySource() {
		slog.Info("using in-memory catalog", "latency", cfg.MockLatency)
		sources = catalog.NewMemorySources(cfg.MockLatency)
	} else {
		sources = store.NewSources(db)
	}
	sources = cache.WrapSources(sources, cacheInstance, cfg.CacheTTL)

	// scs keeps sessions in SQLite; MySQL deployments keep them in memory.
	sessionManager := session.NewMemory(cfg.IsDevelopment())
	if cfg.DBDriver == config.DriverSQLite {
		sessionManager = session.New(db, cfg.IsDevelopment())
	}
	cookies := session.NewCookieProvider(sessionManager, queries)
	tokens := auth.NewTokens([]byte(cfg.SessionSecret), cfg.JWTTTL)
	bearer := session.NewBearerProvider(tokens, cacheInstance)

	m := metrics.New()
	if sp, ok := cacheInstance.(cache.StatsProvider); ok {
		m.RegisterCache(sp)
	}

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		Flashes:     sessionManager,
		SiteName:    "bigHITS",
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	registry := collection.NewRegistry()
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	totals := cache.NewTotals(cacheInstance, sources, queries, cfg.CacheTTL)
	viewer := handler.SessionViewer(cookies)

	publicHandler := handler.NewPublicHandler(renderer, sources)
	authHandler := handler.NewAuthHandler(queries, renderer, cookies, loginProtection, registry, viewer)
	adminHandler := handler.NewAdminHandler(renderer, totals)
	blogsHandler := handler.NewCollectionHandler(handler.BlogKind(sources.Blogs), renderer, registry, viewer, m)
	productsHandler := handler.NewCollectionHandler(handler.ProductKind(sources.Products), renderer, registry, viewer, m)
	tutorsHandler := handler.NewCollectionHandler(handler.TutorKind(sources.Tutors), renderer, registry, viewer, m)

	checks := map[string]handler.CheckFunc{"database": db.PingContext}
	if p, ok := cacheInstance.(interface{ Ping(context.Context) error }); ok {
		checks["cache"] = p.Ping
	}
	healthHandler := handler.NewHealthHandler(info.Version, checks)
	seoHandler := handler.NewSEOHandler(sources, cfg.SiteURL, cfg.IsDevelopment())

	apiHandler := api.NewHandler(queries, tokens, bearer, registry, loginProtection)
	resources := api.NewResources(sources, registry, m)

	jobs := scheduler.New(logger)
	for _, job := range []scheduler.Job{
		scheduler.RefreshStatsJob(cfg.StatsSchedule, totals, m),
		scheduler.EvictViewsJob(evictViewsSchedule, registry, cfg.ViewIdleTTL, m),
		scheduler.LoginCleanupJob(loginCleanupSchedule, loginProtection),
	} {
		if err := jobs.Add(job); err != nil {
			return fmt.Errorf("scheduling %s: %w", job.Name, err)
		}
	}
	jobs.Start()
	defer jobs.Stop()

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(m.Instrument)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadSession(cookies))

	// Public site
	r.Get("/", publicHandler.Home)
	r.Get("/blog", publicHandler.Blog)
	r.Get("/blog/{slug}", publicHandler.Post)
	r.Get("/shop", publicHandler.Shop)
	r.Get("/tutoring", publicHandler.Tutoring)
	r.Get("/robots.txt", seoHandler.Robots)
	r.Get("/sitemap.xml", seoHandler.Sitemap)

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Handle("/metrics", m.Handler())

	// Auth
	r.Route("/auth", func(r chi.Router) {
		r.Get("/signin", authHandler.SignInForm)
		r.With(loginProtection.Middleware()).Post("/signin", authHandler.SignIn)
		r.Post("/signout", authHandler.SignOut)
	})

	// Admin
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(cookies))
		r.Get("/", adminHandler.Dashboard)
		r.Route("/"+catalog.KindBlogs, blogsHandler.Routes)
		r.Route("/"+catalog.KindProducts, productsHandler.Routes)
		r.Route("/"+catalog.KindTutors, tutorsHandler.Routes)
	})

	// JSON API
	apiLimiter := middleware.NewRateLimiter(10, 20)
	r.Route("/api", func(r chi.Router) {
		r.Use(apiLimiter.Middleware())
		r.Get("/status", apiHandler.Status)
		r.With(loginProtection.Middleware()).Post("/auth/token", apiHandler.Token)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdminAPI(bearer))
			r.Post("/auth/signout", apiHandler.SignOut)
			r.Route("/admin/"+catalog.KindBlogs, resources.Blogs.Routes)
			r.Route("/admin/"+catalog.KindProducts, resources.Products.Routes)
			r.Route("/admin/"+catalog.KindTutors, resources.Tutors.Routes)
		})
	})

	r.NotFound(publicHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
