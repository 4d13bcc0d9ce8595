package models

import (
	"fmt"
	"strings"
	"time"
)

// TargetIdentity is one entry of the client allow-list a restore is scoped to.
// The ID is reused verbatim as the restored client's primary key.
type TargetIdentity struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email,omitempty" yaml:"email"`
	Phone     string    `json:"phone,omitempty" yaml:"phone"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// RestoreInput describes one restore invocation.
type RestoreInput struct {
	CompanyID     string           `json:"company_id"`
	UserID        string           `json:"user_id"`
	Targets       []TargetIdentity `json:"targets"`
	BookingsPath  string           `json:"bookings_path"`
	CustomersPath string           `json:"customers_path"`
	// DryRun performs every lookup but writes nothing.
	DryRun bool `json:"dry_run"`
}

// Validate checks that the input carries the context a restore needs.
func (in *RestoreInput) Validate() error {
	if in.CompanyID == "" {
		return ErrMissingCompanyID
	}

	if in.UserID == "" {
		return ErrMissingUserID
	}

	return ValidateTargets(in.Targets)
}

// ValidateTargets checks that targets is non-empty and every identity has a
// unique, non-blank id.
func ValidateTargets(targets []TargetIdentity) error {
	if len(targets) == 0 {
		return ErrMissingTargets
	}

	seen := make(map[string]bool, len(targets))

	for i, t := range targets {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return fmt.Errorf("target %d: %w", i, ErrMissingTargetID)
		}

		if seen[id] {
			return fmt.Errorf("target %q: %w", id, ErrDuplicateTarget)
		}

		seen[id] = true
	}

	return nil
}

// RowsRead counts tokenized rows per source file.
type RowsRead struct {
	Bookings  int `json:"bookings"`
	Customers int `json:"customers"`
}

// ClientStats summarises client upserts.
type ClientStats struct {
	Matched  int      `json:"matched"`
	Restored int      `json:"restored"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}

// AddressStats summarises address upserts.
type AddressStats struct {
	Restored     int      `json:"restored"`
	Reused       int      `json:"reused"`
	Placeholders int      `json:"placeholders"`
	Failed       int      `json:"failed"`
	Errors       []string `json:"errors"`
}

// BookingStats summarises booking upserts.
type BookingStats struct {
	Matched     int      `json:"matched"`
	Restored    int      `json:"restored"`
	Skipped     int      `json:"skipped"`
	Unparseable int      `json:"unparseable"`
	Failed      int      `json:"failed"`
	Errors      []string `json:"errors"`
	// Warnings lists rows skipped because another booking sits inside the
	// dedup window at a different instant, e.g. a same-day reschedule.
	Warnings []string `json:"warnings"`
}

// RunReport is the outcome of one restore invocation. It is never persisted.
type RunReport struct {
	DryRun     bool         `json:"dry_run"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	RowsRead   RowsRead     `json:"rows_read"`
	Clients    ClientStats  `json:"clients"`
	Addresses  AddressStats `json:"addresses"`
	Bookings   BookingStats `json:"bookings"`
}

// FileStatus reports whether an input file is readable.
type FileStatus struct {
	Path    string `json:"path"`
	Present bool   `json:"present"`
}

// PreflightFiles groups the two input file statuses.
type PreflightFiles struct {
	Bookings  FileStatus `json:"bookings"`
	Customers FileStatus `json:"customers"`
}

// PreflightReport describes the restore's starting state without changing it.
type PreflightReport struct {
	Targets  int            `json:"targets"`
	Existing int            `json:"existing"`
	Missing  []string       `json:"missing"`
	Files    PreflightFiles `json:"files"`
}
