// Package service provides the restore engine that sits between the entry
// points (HTTP handler, CLI) and the data stores.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maidbook/maidbook/internal/address"
	"github.com/maidbook/maidbook/internal/csvsource"
	"github.com/maidbook/maidbook/internal/domain"
	"github.com/maidbook/maidbook/internal/matcher"
	"github.com/maidbook/maidbook/internal/metrics"
	"github.com/maidbook/maidbook/internal/models"
)

// DedupWindow is the half-width of the range around a booking's scheduled
// time inside which an existing booking counts as the same one.
const DedupWindow = 2 * time.Hour

// DefaultMaxErrors caps each category's error list when Options leaves it unset.
const DefaultMaxErrors = 10

// RestoreStore is the data-access interface RestoreService depends on.
type RestoreStore interface {
	ClientCompany(ctx context.Context, id string) (string, error)
	ExistingClientIDs(ctx context.Context, companyID string, ids []string) ([]string, error)
	FindClientByContact(ctx context.Context, companyID, phone, email string) (string, error)
	CreateClient(ctx context.Context, c *models.Client) error
	FindAddressID(ctx context.Context, clientID string) (string, error)
	CreateAddress(ctx context.Context, a *models.Address) error
	NearestBooking(ctx context.Context, companyID, clientID string, at, from, to time.Time) (time.Time, bool, error)
	CreateBooking(ctx context.Context, b *models.Booking) error
}

// Compile-time check: *RestoreService must satisfy domain.RestoreService.
var _ domain.RestoreService = (*RestoreService)(nil)

// Options tunes a RestoreService.
type Options struct {
	// MaxErrors caps each category's error list. Counters are never capped.
	MaxErrors int
	// StatusDefault is used when a status cell matches no keyword rule.
	StatusDefault models.BookingStatus
	// Location interprets export dates that carry no zone.
	Location *time.Location
}

// RestoreService reconciles export rows into clients, addresses, and bookings.
// It is not safe for concurrent Runs; callers serialize access.
type RestoreService struct {
	store RestoreStore
	opts  Options
	log   *logrus.Logger
	now   func() time.Time
}

// NewRestoreService creates a RestoreService, filling unset options with defaults.
func NewRestoreService(store RestoreStore, opts Options, log *logrus.Logger) *RestoreService {
	if opts.MaxErrors <= 0 {
		opts.MaxErrors = DefaultMaxErrors
	}

	if !opts.StatusDefault.Valid() {
		opts.StatusDefault = models.StatusScheduled
	}

	if opts.Location == nil {
		opts.Location = time.UTC
	}

	return &RestoreService{store: store, opts: opts, log: log, now: time.Now}
}

// Preflight reports how many targets already exist and whether both input files are readable.
func (s *RestoreService) Preflight(ctx context.Context, in models.RestoreInput) (*models.PreflightReport, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ids := make([]string, len(in.Targets))
	for i, t := range in.Targets {
		ids[i] = t.ID
	}

	existing, err := s.store.ExistingClientIDs(ctx, in.CompanyID, ids)
	if err != nil {
		return nil, fmt.Errorf("preflight: %w", err)
	}

	found := make(map[string]bool, len(existing))
	for _, id := range existing {
		found[id] = true
	}

	missing := make([]string, 0, len(ids)-len(found))
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}

	return &models.PreflightReport{
		Targets:  len(ids),
		Existing: len(found),
		Missing:  missing,
		Files: models.PreflightFiles{
			Bookings:  fileStatus(in.BookingsPath),
			Customers: fileStatus(in.CustomersPath),
		},
	}, nil
}

func fileStatus(path string) models.FileStatus {
	info, err := os.Stat(path)

	return models.FileStatus{Path: path, Present: err == nil && !info.IsDir()}
}

// Run reads both exports and restores every row that matches a target.
// Input problems abort before any write. Row-level failures are recorded in
// the report and processing continues. A cancelled context aborts between
// rows without a report.
func (s *RestoreService) Run(ctx context.Context, in models.RestoreInput) (*models.RunReport, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	bookings, err := readExport(in.BookingsPath)
	if err != nil {
		return nil, fmt.Errorf("bookings export: %w", err)
	}

	customers, err := readExport(in.CustomersPath)
	if err != nil {
		return nil, fmt.Errorf("customers export: %w", err)
	}

	r := &run{
		svc:       s,
		in:        in,
		report:    newReport(in.DryRun, s.now()),
		resolver:  address.NewResolver(customers),
		clientIDs: make(map[string]string, len(in.Targets)),
		addresses: make(map[string]string),
		created:   make(map[string][]time.Time),
		matched:   make(map[string]bool),
	}
	r.report.RowsRead = models.RowsRead{Bookings: len(bookings), Customers: len(customers)}

	if err := r.restoreClients(ctx); err != nil {
		return nil, s.abort(err)
	}

	if err := r.restoreBookings(ctx, matcher.New(in.Targets), bookings); err != nil {
		return nil, s.abort(err)
	}

	r.report.Clients.Matched = len(r.matched)
	r.report.FinishedAt = s.now()

	metrics.RestoreRuns.WithLabelValues("completed").Inc()
	metrics.RestoreDuration.Observe(r.report.FinishedAt.Sub(r.report.StartedAt).Seconds())

	s.log.WithFields(logrus.Fields{
		"company_id":        in.CompanyID,
		"user_id":           in.UserID,
		"dry_run":           in.DryRun,
		"targets":           len(in.Targets),
		"clients_restored":  r.report.Clients.Restored,
		"clients_skipped":   r.report.Clients.Skipped,
		"bookings_matched":  r.report.Bookings.Matched,
		"bookings_restored": r.report.Bookings.Restored,
		"bookings_skipped":  r.report.Bookings.Skipped,
		"addresses":         r.report.Addresses.Restored,
	}).Info("audit")

	return r.report, nil
}

func (s *RestoreService) abort(err error) error {
	metrics.RestoreRuns.WithLabelValues("aborted").Inc()

	return err
}

func readExport(path string) ([]csvsource.SourceRow, error) {
	if path == "" {
		return nil, models.ErrMissingFile
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, models.ErrMissingFile)
	}

	return csvsource.ReadFile(path)
}

func newReport(dryRun bool, started time.Time) *models.RunReport {
	return &models.RunReport{
		DryRun:    dryRun,
		StartedAt: started,
		Clients:   models.ClientStats{Errors: []string{}},
		Addresses: models.AddressStats{Errors: []string{}},
		Bookings:  models.BookingStats{Errors: []string{}, Warnings: []string{}},
	}
}

// run holds the state of one Run invocation.
type run struct {
	svc      *RestoreService
	in       models.RestoreInput
	report   *models.RunReport
	resolver *address.Resolver

	// clientIDs maps target id to the client id its rows attach to.
	clientIDs map[string]string
	// addresses is the per-run clientID -> addressID cache.
	addresses map[string]string
	// created holds booking times written (or planned, in a dry run) this run.
	created map[string][]time.Time
	// matched records targets hit by at least one booking row.
	matched map[string]bool
}

func (r *run) appendError(list *[]string, format string, args ...any) {
	if len(*list) < r.svc.opts.MaxErrors {
		*list = append(*list, fmt.Sprintf(format, args...))
	}
}

func count(category, outcome string) {
	metrics.RestoreRows.WithLabelValues(category, outcome).Inc()
}
