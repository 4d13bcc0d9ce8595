package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/maidbook/maidbook/internal/dbpool"
	"github.com/maidbook/maidbook/internal/models"
)

// PrincipalStore resolves API keys to the user they were issued to.
type PrincipalStore struct {
	Pool *dbpool.Pool
}

// NewPrincipalStore creates a new PrincipalStore.
func NewPrincipalStore(pool *dbpool.Pool) *PrincipalStore {
	return &PrincipalStore{Pool: pool}
}

// HashAPIKey returns the hex SHA-256 digest stored in api_keys.key_hash.
func HashAPIKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))

	return hex.EncodeToString(sum[:])
}

// GetPrincipalByAPIKey looks up the user, company, and role behind apiKey.
func (s *PrincipalStore) GetPrincipalByAPIKey(ctx context.Context, apiKey string) (*models.Principal, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var p models.Principal

	err := s.Pool.QueryRow(ctx,
		`SELECT u.id, u.company_id, u.role FROM api_keys k
		JOIN users u ON u.id = k.user_id
		WHERE k.key_hash = $1`, HashAPIKey(apiKey)).Scan(&p.UserID, &p.CompanyID, &p.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrPrincipalNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("looking up principal by API key: %w", err)
	}

	return &p, nil
}
