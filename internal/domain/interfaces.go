// Package domain defines the canonical service interfaces shared across the
// HTTP layer, the restore CLI, and tests. Consumers should depend on these
// interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/maidbook/maidbook/internal/models"
)

// RestoreService reconciles backup exports into the CRM tables.
type RestoreService interface {
	// Run executes a restore. A report is returned whenever the pipeline
	// completes, even if individual rows failed.
	Run(ctx context.Context, in models.RestoreInput) (*models.RunReport, error)
	// Preflight reports the starting state without writing anything.
	Preflight(ctx context.Context, in models.RestoreInput) (*models.PreflightReport, error)
}
