package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/marcofalcone/basket-deal-tracker/internal/api/handlers"
	"github.com/marcofalcone/basket-deal-tracker/internal/api/middleware"
	"github.com/marcofalcone/basket-deal-tracker/internal/config"
	"github.com/marcofalcone/basket-deal-tracker/internal/engine"
	"github.com/marcofalcone/basket-deal-tracker/internal/scraper"
	"github.com/marcofalcone/basket-deal-tracker/internal/store"
	"github.com/marcofalcone/basket-deal-tracker/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and refresh scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	sc := scraper.New(cfg.Scraper.BaseURL)

	engineOpts := []engine.EngineOption{engine.WithLogger(log)}
	if cfg.Refresh.Enabled {
		limiter := scraper.NewRateLimiter(
			cfg.Scraper.RateLimit.PerSecond,
			cfg.Scraper.RateLimit.Burst,
			cfg.Scraper.RateLimit.DailyLimit,
		)
		fetcher := scraper.NewFetcher(limiter,
			scraper.WithUserAgent(cfg.Scraper.UserAgent),
			scraper.WithHTTPClient(&http.Client{Timeout: cfg.Scraper.FetchTimeout}),
		)
		engineOpts = append(engineOpts, engine.WithFetcher(fetcher))
	}
	eng := engine.NewEngine(st, sc, engineOpts...)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Recovery(log))
	e.Use(middleware.Metrics())

	healthH := handlers.NewHealthHandler(st)
	e.GET("/healthz", healthH.Healthz)
	e.GET("/readyz", healthH.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	humaCfg := huma.DefaultConfig("Basket Deal Tracker API", Version)
	api := humaecho.New(e, humaCfg)
	handlers.RegisterItemRoutes(api, handlers.NewItemsHandler(st, sc))
	handlers.RegisterDealRoutes(api, handlers.NewDealsHandler(st, eng))
	handlers.RegisterExtractRoutes(api, handlers.NewExtractHandler(sc))
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(st))

	var sched *engine.Scheduler
	if cfg.Refresh.Enabled {
		sched, err = engine.NewScheduler(eng, cfg.Refresh.Interval, log)
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		sched.Start()
		log.Info("refresh scheduler started", "interval", cfg.Refresh.Interval)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	if sched != nil {
		// Wait for an in-flight refresh to finish before closing the store.
		<-sched.Stop().Done()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
