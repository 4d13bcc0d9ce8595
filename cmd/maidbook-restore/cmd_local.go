package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maidbook/maidbook/internal/config"
	"github.com/maidbook/maidbook/internal/db"
	"github.com/maidbook/maidbook/internal/db/migrations"
	"github.com/maidbook/maidbook/internal/dbpool"
	"github.com/maidbook/maidbook/internal/models"
	"github.com/maidbook/maidbook/internal/service"
	"github.com/maidbook/maidbook/internal/store"
	"github.com/maidbook/maidbook/internal/targets"
)

// inputFlags are shared by run and preflight. Empty values fall back to config.
type inputFlags struct {
	bookings  string
	customers string
	targets   string
	company   string
	user      string
	dryRun    bool
}

func (f *inputFlags) register(cmd *cobra.Command, withDryRun bool) {
	cmd.Flags().StringVar(&f.bookings, "bookings", "", "Bookings export CSV (env: RESTORE_BOOKINGS_CSV)")
	cmd.Flags().StringVar(&f.customers, "customers", "", "Customers export CSV (env: RESTORE_CUSTOMERS_CSV)")
	cmd.Flags().StringVar(&f.targets, "targets", "", "Target identities YAML/JSON file (env: RESTORE_TARGETS_FILE)")
	cmd.Flags().StringVar(&f.company, "company", "", "Company ID to restore into (env: RESTORE_COMPANY_ID)")
	cmd.Flags().StringVar(&f.user, "user", "", "User ID owning restored clients (env: RESTORE_USER_ID)")
	if withDryRun {
		cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Perform every lookup but write nothing; migrations are not applied")
	}
}

// input merges flags over config and loads the targets file.
func (f *inputFlags) input(rc config.RestoreConfig) (models.RestoreInput, error) {
	in := models.RestoreInput{
		CompanyID:     firstNonEmpty(f.company, rc.CompanyID),
		UserID:        firstNonEmpty(f.user, rc.UserID),
		BookingsPath:  firstNonEmpty(f.bookings, rc.BookingsPath),
		CustomersPath: firstNonEmpty(f.customers, rc.CustomersPath),
		DryRun:        f.dryRun,
	}

	path := firstNonEmpty(f.targets, rc.TargetsFile)
	if path == "" {
		return in, models.ErrMissingTargets
	}

	list, err := targets.Load(path)
	if err != nil {
		return in, err
	}

	in.Targets = list

	return in, in.Validate()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

// engine is everything a local command needs.
type engine struct {
	cfg  *config.Config
	log  *logrus.Logger
	pool *dbpool.Pool
	svc  *service.RestoreService
}

var errPendingMigrations = errors.New("database schema has pending migrations; run `maidbook-restore migrate` first")

// requireSchema fails when any migration is unapplied.
func requireSchema(statuses []db.MigrationStatus) error {
	var pending []string

	for _, s := range statuses {
		if !s.Applied {
			pending = append(pending, s.File)
		}
	}

	if len(pending) > 0 {
		return fmt.Errorf("%w: %s", errPendingMigrations, strings.Join(pending, ", "))
	}

	return nil
}

// openEngine connects to the database. With migrate set it applies pending
// migrations; otherwise it refuses to run against an out-of-date schema so
// read-only commands never change it. Any failure is fatal to the command.
func openEngine(ctx context.Context, migrate bool) (*engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := newLogger(cfg.LogLevel)

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), int32(cfg.DBMaxConns)) //nolint:gosec // validated to 1..100.
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if migrate {
		err = db.RunMigrations(ctx, pool, log, migrations.FS)
	} else {
		var statuses []db.MigrationStatus

		statuses, err = db.Status(ctx, pool, migrations.FS)
		if err == nil {
			err = requireSchema(statuses)
		}
	}

	if err != nil {
		pool.Close()
		return nil, err
	}

	svc := service.NewRestoreService(
		store.NewRestoreStore(store.Base{Pool: pool, Log: log}),
		service.Options{
			MaxErrors:     cfg.Restore.MaxErrors,
			StatusDefault: models.BookingStatus(cfg.Restore.StatusDefault),
			Location:      cfg.Location(),
		},
		log,
	)

	return &engine{cfg: cfg, log: log, pool: pool, svc: svc}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newRunCmd() *cobra.Command {
	var f inputFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Restore matched rows into the database",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signalContext()
			defer cancel()

			e, err := openEngine(ctx, !f.dryRun)
			if err != nil {
				fatal("startup", err)
			}
			defer e.pool.Close()

			in, err := f.input(e.cfg.Restore)
			if err != nil {
				fatal("input", err)
			}

			report, err := e.svc.Run(ctx, in)
			if err != nil {
				fatal("restore", err)
			}

			printRunReport(report)
		},
	}
	f.register(cmd, true)
	return cmd
}

func newPreflightCmd() *cobra.Command {
	var f inputFlags

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Report existing targets and input file presence without writing",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signalContext()
			defer cancel()

			e, err := openEngine(ctx, false)
			if err != nil {
				fatal("startup", err)
			}
			defer e.pool.Close()

			in, err := f.input(e.cfg.Restore)
			if err != nil {
				fatal("input", err)
			}

			report, err := e.svc.Preflight(ctx, in)
			if err != nil {
				fatal("preflight", err)
			}

			printPreflight(report)
		},
	}
	f.register(cmd, false)
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signalContext()
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				fatal("loading config", err)
			}

			log := newLogger(cfg.LogLevel)

			pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), 1)
			if err != nil {
				fatal("connecting to database", err)
			}
			defer pool.Close()

			if !statusOnly {
				if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
					fatal("migrate", err)
				}
			}

			statuses, err := db.Status(ctx, pool, migrations.FS)
			if err != nil {
				fatal("migration status", err)
			}

			if flagFmt == "json" {
				formatJSON(statuses)
				return
			}

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				rows = append(rows, []string{fmt.Sprintf("%d", s.Version), s.File, fmt.Sprintf("%t", s.Applied)})
			}
			formatTable([]string{"VERSION", "FILE", "APPLIED"}, rows)
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "Only print migration status")
	return cmd
}
