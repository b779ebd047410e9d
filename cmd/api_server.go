package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rm-hull/glitch-lab/internal"
	"github.com/rm-hull/glitch-lab/internal/config"
	"github.com/rm-hull/glitch-lab/internal/editor"
	"github.com/rm-hull/glitch-lab/internal/presets"
	"github.com/rm-hull/glitch-lab/internal/server"
	"github.com/sirupsen/logrus"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

// presetStoreCheck reports the preset database on /healthz.
type presetStoreCheck struct {
	store presets.Store
}

func (c presetStoreCheck) Pass() bool {
	return c.store.Ping() == nil
}

func (c presetStoreCheck) Name() string {
	return "preset-store"
}

func ApiServer(cfg config.Config, port int, debug bool, logger *logrus.Logger) error {
	if debug {
		internal.UserInfo(logger)
		internal.EnvironmentVars(logger)
	}

	store, err := presets.Open(cfg.PresetDB)
	if err != nil {
		return err
	}
	defer store.Close()

	maintenance, err := presets.StartMaintenance(store, cfg.VacuumSchedule, logger)
	if err != nil {
		return fmt.Errorf("failed to schedule preset maintenance: %w", err)
	}
	defer maintenance.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop := editor.NewLoop(cfg.RefreshHz)
	go loop.Run(ctx)
	manager := editor.NewManager(loop, cfg.Device, logger)

	sweeper, err := server.NewSessionSweeper(loop, manager, cfg.SessionTTL, logger)
	if err != nil {
		return err
	}

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(logger.Writer(), "/healthz", "/metrics"),
		prometheus.Instrument(),
	)

	if debug {
		logger.Warn("pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{presetStoreCheck{store: store}})
	if err != nil {
		return fmt.Errorf("failed to initialize healthcheck: %w", err)
	}

	server.New(loop, manager, store, server.Limits{UploadBytes: cfg.MaxUploadBytes, Pixels: cfg.MaxPixels}, logger).Register(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.WithFields(logrus.Fields{
		"port":    port,
		"device":  cfg.Device,
		"refresh": cfg.RefreshHz,
	}).Info("starting HTTP API server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP API server failed on port %d: %w", port, err)
	}

	if err := sweeper.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}
	return nil
}
