package client

import "time"

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// TargetIdentity is one client the restore is scoped to.
type TargetIdentity struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email,omitempty" yaml:"email"`
	Phone     string    `json:"phone,omitempty" yaml:"phone"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// FileStatus reports whether a server-side export file is readable.
type FileStatus struct {
	Path    string `json:"path"`
	Present bool   `json:"present"`
}

// PreflightReport is returned by GET /api/v1/admin/restore.
type PreflightReport struct {
	Targets  int      `json:"targets"`
	Existing int      `json:"existing"`
	Missing  []string `json:"missing"`
	Files    struct {
		Bookings  FileStatus `json:"bookings"`
		Customers FileStatus `json:"customers"`
	} `json:"files"`
}

// RunReport is returned by POST /api/v1/admin/restore.
type RunReport struct {
	DryRun     bool      `json:"dry_run"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	RowsRead   struct {
		Bookings  int `json:"bookings"`
		Customers int `json:"customers"`
	} `json:"rows_read"`
	Clients struct {
		Matched  int      `json:"matched"`
		Restored int      `json:"restored"`
		Skipped  int      `json:"skipped"`
		Failed   int      `json:"failed"`
		Errors   []string `json:"errors"`
	} `json:"clients"`
	Addresses struct {
		Restored     int      `json:"restored"`
		Reused       int      `json:"reused"`
		Placeholders int      `json:"placeholders"`
		Failed       int      `json:"failed"`
		Errors       []string `json:"errors"`
	} `json:"addresses"`
	Bookings struct {
		Matched     int      `json:"matched"`
		Restored    int      `json:"restored"`
		Skipped     int      `json:"skipped"`
		Unparseable int      `json:"unparseable"`
		Failed      int      `json:"failed"`
		Errors      []string `json:"errors"`
		Warnings    []string `json:"warnings"`
	} `json:"bookings"`
}
