package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/maidbook/maidbook/internal/models"
)

// AddressStore handles address lookups and inserts.
type AddressStore struct {
	Base
}

// NewAddressStore creates a new AddressStore.
func NewAddressStore(base Base) *AddressStore {
	return &AddressStore{Base: base}
}

// FindAddressID returns the client's primary address, falling back to its
// oldest one. Returns models.ErrAddressNotFound when the client has none.
func (s *AddressStore) FindAddressID(ctx context.Context, clientID string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id string

	err := s.Pool.QueryRow(ctx,
		`SELECT id::text FROM addresses WHERE client_id = $1
		ORDER BY is_primary DESC, created_at LIMIT 1`, clientID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", models.ErrAddressNotFound
	}

	if err != nil {
		return "", fmt.Errorf("finding address for client %s: %w", clientID, err)
	}

	return id, nil
}

// CreateAddress inserts a.
func (s *AddressStore) CreateAddress(ctx context.Context, a *models.Address) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.Pool.Exec(ctx,
		`INSERT INTO addresses (id, client_id, street, city, state, zip, is_primary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.ClientID, a.Street, a.City, a.State, a.Zip, a.IsPrimary)
	if err != nil {
		return fmt.Errorf("creating address for client %s: %w", a.ClientID, mapWriteError(err))
	}

	return nil
}
