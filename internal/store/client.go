package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/maidbook/maidbook/internal/models"
)

// ClientStore handles client lookups and inserts.
type ClientStore struct {
	Base
}

// NewClientStore creates a new ClientStore.
func NewClientStore(base Base) *ClientStore {
	return &ClientStore{Base: base}
}

// ClientCompany returns the company that owns client id.
// Returns models.ErrClientNotFound when no client has that id.
func (s *ClientStore) ClientCompany(ctx context.Context, id string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var companyID string

	err := s.Pool.QueryRow(ctx, "SELECT company_id FROM clients WHERE id = $1", id).Scan(&companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", models.ErrClientNotFound
	}

	if err != nil {
		return "", fmt.Errorf("checking client %s: %w", id, err)
	}

	return companyID, nil
}

// ExistingClientIDs returns the subset of ids that already exist in companyID.
func (s *ClientStore) ExistingClientIDs(ctx context.Context, companyID string, ids []string) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, "SELECT id FROM clients WHERE company_id = $1 AND id = ANY($2)", companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("listing existing clients: %w", err)
	}

	found, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning existing clients: %w", err)
	}

	return found, nil
}

// FindClientByContact returns the oldest client in companyID whose phone
// digits equal phone or whose lowercased email equals email. Empty arguments
// never match. Returns models.ErrClientNotFound when nothing matches.
func (s *ClientStore) FindClientByContact(ctx context.Context, companyID, phone, email string) (string, error) {
	if phone == "" && email == "" {
		return "", models.ErrClientNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT id FROM clients
		WHERE company_id = $1
		  AND (($2 <> '' AND regexp_replace(coalesce(phone, ''), '[^0-9]', '', 'g') = $2)
		    OR ($3 <> '' AND lower(trim(coalesce(email, ''))) = $3))
		ORDER BY created_at, id
		LIMIT 1`

	var id string

	err := s.Pool.QueryRow(ctx, query, companyID, phone, email).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", models.ErrClientNotFound
	}

	if err != nil {
		return "", fmt.Errorf("finding client by contact: %w", err)
	}

	return id, nil
}

// CreateClient inserts c with its caller-supplied id and timestamps.
func (s *ClientStore) CreateClient(ctx context.Context, c *models.Client) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.Pool.Exec(ctx,
		`INSERT INTO clients (id, company_id, user_id, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.CompanyID, c.UserID, c.Name, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating client %s: %w", c.ID, mapWriteError(err))
	}

	return nil
}
