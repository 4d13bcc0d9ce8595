// Command maidbook-server exposes the restore engine over HTTP for owners
// and admins.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maidbook/maidbook/internal/api"
	"github.com/maidbook/maidbook/internal/config"
	"github.com/maidbook/maidbook/internal/db"
	"github.com/maidbook/maidbook/internal/db/migrations"
	"github.com/maidbook/maidbook/internal/dbpool"
	"github.com/maidbook/maidbook/internal/models"
	"github.com/maidbook/maidbook/internal/service"
	"github.com/maidbook/maidbook/internal/store"
	"github.com/maidbook/maidbook/internal/targets"
)

const shutdownTimeout = 15 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}

	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), int32(cfg.DBMaxConns)) //nolint:gosec // validated to 1..100.
	if err != nil {
		log.WithError(err).Fatal("connecting to database")
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		log.WithError(err).Fatal("running migrations")
	}

	restore := service.NewRestoreService(
		store.NewRestoreStore(store.Base{Pool: pool, Log: log}),
		service.Options{
			MaxErrors:     cfg.Restore.MaxErrors,
			StatusDefault: models.BookingStatus(cfg.Restore.StatusDefault),
			Location:      cfg.Location(),
		},
		log,
	)

	// The targets file is re-read per request so it can be edited between runs.
	targetsFile := cfg.Restore.TargetsFile
	targetSource := func() ([]models.TargetIdentity, error) {
		if targetsFile == "" {
			return nil, models.ErrMissingTargets
		}
		return targets.Load(targetsFile)
	}

	handler := api.NewRouter(&api.RouterDeps{
		Log:           log,
		DB:            pool,
		Restore:       restore,
		Principals:    store.NewPrincipalStore(pool),
		Targets:       targetSource,
		BookingsPath:  cfg.Restore.BookingsPath,
		CustomersPath: cfg.Restore.CustomersPath,
		CORSOrigins:   cfg.CORSOrigins,
		Version:       config.Version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
