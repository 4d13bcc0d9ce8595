package client

import (
	"context"
	"net/url"
)

// RestoreService calls the admin restore endpoints.
type RestoreService struct {
	c *Client
}

// RunOptions controls a remote restore.
type RunOptions struct {
	DryRun bool
	// Targets replaces the server's configured targets file when non-empty.
	Targets []TargetIdentity
}

// Preflight reports existing and missing targets and export file presence.
func (s *RestoreService) Preflight(ctx context.Context) (*PreflightReport, error) {
	var resp PreflightReport
	if err := s.c.get(ctx, "/api/v1/admin/restore", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Run executes a restore on the server. IsConflict reports true on the
// returned error when another restore is already running.
func (s *RestoreService) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	params := url.Values{}
	if opts.DryRun {
		params.Set("dry_run", "true")
	}

	var body any
	if len(opts.Targets) > 0 {
		body = map[string]any{"targets": opts.Targets}
	}

	var resp RunReport
	if err := s.c.post(ctx, "/api/v1/admin/restore", params, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
