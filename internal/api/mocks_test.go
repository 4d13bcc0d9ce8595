package api_test

import (
	"context"
	"errors"
	"sync"

	"github.com/maidbook/maidbook/internal/models"
)

// mockRestoreService records inputs and returns configured responses.
type mockRestoreService struct {
	mu     sync.Mutex
	inputs []models.RestoreInput

	runErr       error
	preflightErr error
	// started and release, when set, make Run block until release is closed.
	started chan struct{}
	release chan struct{}
}

func (m *mockRestoreService) record(in models.RestoreInput) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, in)
}

func (m *mockRestoreService) lastInput() models.RestoreInput {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.inputs[len(m.inputs)-1]
}

func (m *mockRestoreService) Run(_ context.Context, in models.RestoreInput) (*models.RunReport, error) {
	m.record(in)

	if m.started != nil {
		close(m.started)
		<-m.release
	}

	if m.runErr != nil {
		return nil, m.runErr
	}

	return &models.RunReport{
		DryRun:   in.DryRun,
		Clients:  models.ClientStats{Restored: len(in.Targets), Errors: []string{}},
		Bookings: models.BookingStats{Restored: 3, Errors: []string{}, Warnings: []string{}},
	}, nil
}

func (m *mockRestoreService) Preflight(_ context.Context, in models.RestoreInput) (*models.PreflightReport, error) {
	m.record(in)

	if m.preflightErr != nil {
		return nil, m.preflightErr
	}

	return &models.PreflightReport{
		Targets:  len(in.Targets),
		Existing: 0,
		Missing:  []string{in.Targets[0].ID},
		Files: models.PreflightFiles{
			Bookings:  models.FileStatus{Path: in.BookingsPath, Present: true},
			Customers: models.FileStatus{Path: in.CustomersPath, Present: false},
		},
	}, nil
}

var errTargetsUnavailable = errors.New("targets file unreadable")

func defaultTargets() ([]models.TargetIdentity, error) {
	return []models.TargetIdentity{{ID: "client-a", Name: "Ann"}}, nil
}

func failingTargets() ([]models.TargetIdentity, error) {
	return nil, errTargetsUnavailable
}

func noTargets() ([]models.TargetIdentity, error) {
	return nil, models.ErrMissingTargets
}
