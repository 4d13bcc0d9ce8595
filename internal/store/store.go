// Package store provides the PostgreSQL data access used by the restore engine.
//
// Each store owns one table family (clients, addresses, bookings, principals)
// and embeds shared helpers via the Base struct. Stores never import each other.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/maidbook/maidbook/internal/dbpool"
	"github.com/maidbook/maidbook/internal/models"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// mapWriteError turns unique violations into models.ErrDuplicateKey.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return models.ErrDuplicateKey
	}

	return err
}

// nullable maps "" to NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// RestoreStore bundles the stores the restore engine writes through.
type RestoreStore struct {
	*ClientStore
	*AddressStore
	*BookingStore
}

// NewRestoreStore creates a RestoreStore sharing one Base.
func NewRestoreStore(base Base) *RestoreStore {
	return &RestoreStore{
		ClientStore:  NewClientStore(base),
		AddressStore: NewAddressStore(base),
		BookingStore: NewBookingStore(base),
	}
}
