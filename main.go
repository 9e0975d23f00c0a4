package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Aashish23092/vaeba-calculator/client"
	"github.com/Aashish23092/vaeba-calculator/config"
	"github.com/Aashish23092/vaeba-calculator/handler"
	"github.com/Aashish23092/vaeba-calculator/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional
	_ = godotenv.Load(".env")

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	plans := service.DefaultPlanCatalog()
	if cfg.PlansFile != "" {
		if plans, err = service.LoadPlanCatalog(cfg.PlansFile); err != nil {
			return err
		}
	}
	if _, err := plans.Get(cfg.DefaultPlan); err != nil {
		return fmt.Errorf("default plan: %w", err)
	}

	var ocr service.OCREngine
	if cfg.OCREnabled {
		tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath, cfg.OCRLanguage, logger)
		ocr = tesseractClient
	}

	extraction := service.NewExtractionService(service.NewPDFProcessor(), ocr, logger)
	store := service.NewSessionStore(cfg.SessionTTL)
	sessions := service.NewSessionService(
		store,
		plans,
		extraction,
		service.NewCalculator(logger),
		service.NewExportService(logger),
		cfg.DefaultPlan,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go store.RunSweeper(ctx, sweepInterval(cfg.SessionTTL), func(removed int) {
		logger.Info("sessions.swept", "removed", removed, "remaining", store.Len())
	})

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(sessions, cfg.MaxFileSize, logger)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server.start",
			"addr", srv.Addr,
			"ocr", extraction.OCREnabled(),
			"ocr_error", extraction.OCRError(),
			"default_plan", cfg.DefaultPlan,
			"plans", len(plans.List()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
}

// sweepInterval checks for idle sessions four times per TTL, at most once a minute.
func sweepInterval(ttl time.Duration) time.Duration {
	if d := ttl / 4; d > time.Minute {
		return d
	}
	return time.Minute
}
