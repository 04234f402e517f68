package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"donations/internal/backend"
	"donations/internal/cache"
	"donations/internal/charts"
	"donations/internal/cli"
	"donations/internal/core"
	apphttp "donations/internal/http"
	applog "donations/internal/log"
	"donations/internal/services"
	"donations/internal/theme"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err,
			"data_backend", backendCfg.DataBackend, "prefs_backend", backendCfg.PrefsBackend)
		os.Exit(1)
	}

	fallback, err := theme.Parse(cfg.DefaultTheme)
	if err != nil {
		fallback = theme.Light
	}
	prefs := theme.Load(ctx, result.Preferences, fallback)

	chartCache := cache.NewLRUCache[[]byte](cfg.ChartCacheSize, cfg.ChartCacheTTL)
	cacheManager := cache.NewManager(logger)
	cacheManager.Register(chartCache)
	cacheManager.StartCleanup(cfg.ChartCacheTTL)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Dependencies{
		Service: services.NewDashboardService(result.Dataset, cfg.ExportFilename, logger),
		Theme:   prefs,
		Charts:  charts.NewRenderer(chartCache, logger),
		Health:  result.Health,
		Logger:  logger,
	}, apphttp.Settings{
		CurrencySymbol:     cfg.CurrencySymbol,
		DefaultWindow:      core.WindowSize(cfg.DefaultWindow),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cacheManager.Stop()
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", applog.FieldError, err)
			}
		}
	})

	logger.Info("Starting donations dashboard",
		applog.FieldOperation, applog.OpStartup,
		"port", cfg.Port,
		"data_backend", cfg.DataBackend,
		"prefs_backend", cfg.PrefsBackend,
		applog.FieldRecords, result.Dataset.Len(),
		applog.FieldTheme, prefs.Current())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
