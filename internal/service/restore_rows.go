package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/maidbook/maidbook/internal/address"
	"github.com/maidbook/maidbook/internal/csvsource"
	"github.com/maidbook/maidbook/internal/identity"
	"github.com/maidbook/maidbook/internal/mapping"
	"github.com/maidbook/maidbook/internal/matcher"
	"github.com/maidbook/maidbook/internal/models"
)

// restoreClients creates a client for every target that has none yet.
// A target is skipped when its id exists in the company, or when another
// client of the company already holds its phone or email; in the latter case
// its rows attach to that client. An id owned by another company fails the
// target, so none of its rows are restored.
func (r *run) restoreClients(ctx context.Context) error {
	stats := &r.report.Clients

	for _, t := range r.in.Targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		owner, err := r.svc.store.ClientCompany(ctx, t.ID)

		switch {
		case err == nil && owner == r.in.CompanyID:
			stats.Skipped++
			r.clientIDs[t.ID] = t.ID
			count("client", "skipped")

			continue
		case err == nil:
			r.clientFailed(t, models.ErrClientInOtherCompany)

			continue
		case !errors.Is(err, models.ErrClientNotFound):
			r.clientFailed(t, err)

			continue
		}

		other, err := r.svc.store.FindClientByContact(ctx, r.in.CompanyID,
			identity.NormalizePhone(t.Phone), identity.NormalizeEmail(t.Email))

		switch {
		case err == nil:
			stats.Skipped++
			r.clientIDs[t.ID] = other
			count("client", "skipped")
			r.svc.log.WithFields(logrus.Fields{"target_id": t.ID, "client_id": other}).
				Info("target shares contact with existing client")

			continue
		case !errors.Is(err, models.ErrClientNotFound):
			r.clientFailed(t, err)

			continue
		}

		if !r.in.DryRun {
			if err := r.svc.store.CreateClient(ctx, r.newClient(t)); err != nil {
				r.clientFailed(t, err)

				continue
			}
		}

		stats.Restored++
		r.clientIDs[t.ID] = t.ID
		count("client", "restored")
	}

	return nil
}

func (r *run) newClient(t models.TargetIdentity) *models.Client {
	created := t.CreatedAt
	if created.IsZero() {
		created = r.svc.now()
	}

	c := &models.Client{
		ID:        t.ID,
		CompanyID: r.in.CompanyID,
		UserID:    r.in.UserID,
		Name:      t.Name,
		CreatedAt: created,
		UpdatedAt: created,
	}

	if t.Email != "" {
		email := t.Email
		c.Email = &email
	}

	if t.Phone != "" {
		phone := t.Phone
		c.Phone = &phone
	}

	return c
}

func (r *run) clientFailed(t models.TargetIdentity, err error) {
	r.report.Clients.Failed++
	r.appendError(&r.report.Clients.Errors, "client %s (%s): %v", t.ID, t.Name, err)
	count("client", "failed")
	r.svc.log.WithError(err).WithField("target_id", t.ID).Warn("client restore failed")
}

// restoreBookings walks the bookings export in file order.
func (r *run) restoreBookings(ctx context.Context, m *matcher.Matcher, rows []csvsource.SourceRow) error {
	stats := &r.report.Bookings

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, ok := m.Match(row)
		if !ok {
			continue
		}

		stats.Matched++
		r.matched[rec.Target.ID] = true

		clientID, ok := r.clientIDs[rec.Target.ID]
		if !ok {
			stats.Failed++
			r.appendError(&stats.Errors, "line %d: client %s was not restored", row.Line(), rec.Target.ID)
			count("booking", "failed")

			continue
		}

		at, ok := mapping.ScheduledAt(row.Date(), row.Time(), r.svc.opts.Location)
		if !ok {
			stats.Unparseable++
			count("booking", "unparseable")

			continue
		}

		addressID, ok := r.ensureAddress(ctx, clientID, rec)
		if !ok {
			stats.Failed++
			count("booking", "failed")

			continue
		}

		r.restoreBooking(ctx, row, clientID, addressID, at)
	}

	return nil
}

func (r *run) restoreBooking(ctx context.Context, row csvsource.SourceRow, clientID, addressID string, at time.Time) {
	stats := &r.report.Bookings

	existing, hit := r.nearestCreated(clientID, at)
	if !hit {
		var err error

		existing, hit, err = r.svc.store.NearestBooking(ctx, r.in.CompanyID, clientID, at, at.Add(-DedupWindow), at.Add(DedupWindow))
		if err != nil {
			r.bookingFailed(row, clientID, err)

			return
		}
	}

	if hit {
		stats.Skipped++
		count("booking", "skipped")

		if !existing.Equal(at) {
			r.appendError(&stats.Warnings, "line %d: client %s booking at %s skipped; existing booking at %s is within %s",
				row.Line(), clientID, at.Format(time.RFC3339), existing.Format(time.RFC3339), DedupWindow)
		}

		return
	}

	rec := mapping.Recurrence(row.Frequency())
	b := &models.Booking{
		ID:                  uuid.New().String(),
		CompanyID:           r.in.CompanyID,
		ClientID:            clientID,
		AddressID:           addressID,
		ScheduledDate:       at,
		Duration:            mapping.DurationMinutes(row.Duration()),
		Price:               mapping.Currency(row.Price()),
		Status:              mapping.Status(row.Status(), r.svc.opts.StatusDefault),
		ServiceType:         mapping.ServiceType(row.Service()),
		IsRecurring:         rec.IsRecurring,
		RecurrenceFrequency: rec.Frequency,
	}

	if notes := row.Notes(); notes != "" {
		b.Notes = &notes
	}

	if !r.in.DryRun {
		if err := r.svc.store.CreateBooking(ctx, b); err != nil {
			r.bookingFailed(row, clientID, err)

			return
		}
	}

	stats.Restored++
	r.created[clientID] = append(r.created[clientID], at)
	count("booking", "restored")
}

// nearestCreated checks bookings created earlier in this run. In a dry run
// nothing reaches the store, so this is the only guard against in-file repeats.
func (r *run) nearestCreated(clientID string, at time.Time) (time.Time, bool) {
	var (
		best time.Time
		gap  time.Duration
		hit  bool
	)

	for _, t := range r.created[clientID] {
		d := t.Sub(at)
		if d < 0 {
			d = -d
		}

		if d <= DedupWindow && (!hit || d < gap) {
			best, gap, hit = t, d, true
		}
	}

	return best, hit
}

func (r *run) bookingFailed(row csvsource.SourceRow, clientID string, err error) {
	r.report.Bookings.Failed++
	r.appendError(&r.report.Bookings.Errors, "line %d: client %s: %v", row.Line(), clientID, err)
	count("booking", "failed")
	r.svc.log.WithError(err).WithFields(logrus.Fields{"line": row.Line(), "client_id": clientID}).
		Warn("booking restore failed")
}

// ensureAddress returns the address the client's bookings attach to,
// creating at most one per client per run. ok is false when no address
// could be found or created.
func (r *run) ensureAddress(ctx context.Context, clientID string, rec matcher.MatchedRecord) (string, bool) {
	if id, ok := r.addresses[clientID]; ok {
		return id, true
	}

	stats := &r.report.Addresses

	id, err := r.svc.store.FindAddressID(ctx, clientID)

	switch {
	case err == nil:
		stats.Reused++
		r.addresses[clientID] = id
		count("address", "reused")

		return id, true
	case !errors.Is(err, models.ErrAddressNotFound):
		r.addressFailed(rec, clientID, err)

		return "", false
	}

	input, src := r.resolver.Resolve(rec.Row, rec.Target)
	addr := &models.Address{
		ID:           uuid.New().String(),
		ClientID:     clientID,
		AddressInput: input,
		IsPrimary:    true,
	}

	if !r.in.DryRun {
		if err := r.svc.store.CreateAddress(ctx, addr); err != nil {
			r.addressFailed(rec, clientID, err)

			return "", false
		}
	}

	stats.Restored++
	count("address", "restored")

	if src == address.SourcePlaceholder {
		stats.Placeholders++
		count("address", "placeholder")
	}

	r.addresses[clientID] = addr.ID

	return addr.ID, true
}

func (r *run) addressFailed(rec matcher.MatchedRecord, clientID string, err error) {
	r.report.Addresses.Failed++
	r.appendError(&r.report.Addresses.Errors, "line %d: client %s: %v", rec.Row.Line(), clientID, err)
	count("address", "failed")
	r.svc.log.WithError(err).WithFields(logrus.Fields{"line": rec.Row.Line(), "client_id": clientID}).
		Warn("address restore failed")
}
