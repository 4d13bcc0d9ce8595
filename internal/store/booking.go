package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maidbook/maidbook/internal/models"
)

// BookingStore handles booking lookups and inserts.
type BookingStore struct {
	Base
}

// NewBookingStore creates a new BookingStore.
func NewBookingStore(base Base) *BookingStore {
	return &BookingStore{Base: base}
}

// NearestBooking returns the scheduled time of the client's booking closest
// to at within [from, to], both ends inclusive. ok is false when the window is empty.
func (s *BookingStore) NearestBooking(
	ctx context.Context, companyID, clientID string, at, from, to time.Time,
) (time.Time, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var found time.Time

	err := s.Pool.QueryRow(ctx,
		`SELECT scheduled_date FROM bookings
		WHERE company_id = $1 AND client_id = $2
		  AND scheduled_date BETWEEN $3 AND $4
		ORDER BY abs(extract(epoch FROM scheduled_date - $5::timestamptz))
		LIMIT 1`,
		companyID, clientID, from, to, at).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}

	if err != nil {
		return time.Time{}, false, fmt.Errorf("checking booking window for client %s: %w", clientID, err)
	}

	return found, true, nil
}

// CreateBooking inserts b.
func (s *BookingStore) CreateBooking(ctx context.Context, b *models.Booking) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.Pool.Exec(ctx,
		`INSERT INTO bookings (id, company_id, client_id, address_id, scheduled_date, duration, price,
			status, service_type, is_recurring, recurrence_frequency, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		b.ID, b.CompanyID, b.ClientID, b.AddressID, b.ScheduledDate, b.Duration, b.Price.StringFixed(2),
		string(b.Status), string(b.ServiceType), b.IsRecurring, nullable(string(b.RecurrenceFrequency)), b.Notes)
	if err != nil {
		return fmt.Errorf("creating booking for client %s: %w", b.ClientID, mapWriteError(err))
	}

	return nil
}
