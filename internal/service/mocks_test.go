package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/maidbook/maidbook/internal/identity"
	"github.com/maidbook/maidbook/internal/models"
)

// memStore is an in-memory RestoreStore that records every call.
type memStore struct {
	mu    sync.Mutex
	calls []string

	clients   map[string]*models.Client
	addresses map[string][]*models.Address
	bookings  []*models.Booking

	// failBooking, when set, is consulted before each CreateBooking.
	failBooking func(b *models.Booking) error
	// failLookup, when set, fails every ClientCompany call.
	failLookup error
}

func newMemStore() *memStore {
	return &memStore{
		clients:   make(map[string]*models.Client),
		addresses: make(map[string][]*models.Address),
	}
}

func (m *memStore) record(name string) {
	m.calls = append(m.calls, name)
}

func (m *memStore) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.calls {
		if strings.HasPrefix(c, "Create") {
			n++
		}
	}

	return n
}

func (m *memStore) ClientCompany(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ClientCompany")

	if m.failLookup != nil {
		return "", m.failLookup
	}

	c, ok := m.clients[id]
	if !ok {
		return "", models.ErrClientNotFound
	}

	return c.CompanyID, nil
}

func (m *memStore) ExistingClientIDs(_ context.Context, companyID string, ids []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ExistingClientIDs")

	var out []string

	for _, id := range ids {
		if c, ok := m.clients[id]; ok && c.CompanyID == companyID {
			out = append(out, id)
		}
	}

	return out, nil
}

func (m *memStore) FindClientByContact(_ context.Context, companyID, phone, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindClientByContact")

	for _, c := range m.clients {
		if c.CompanyID != companyID {
			continue
		}

		if phone != "" && c.Phone != nil && identity.NormalizePhone(*c.Phone) == phone {
			return c.ID, nil
		}

		if email != "" && c.Email != nil && identity.NormalizeEmail(*c.Email) == email {
			return c.ID, nil
		}
	}

	return "", models.ErrClientNotFound
}

func (m *memStore) CreateClient(_ context.Context, c *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateClient")

	if _, ok := m.clients[c.ID]; ok {
		return models.ErrDuplicateKey
	}

	m.clients[c.ID] = c

	return nil
}

func (m *memStore) FindAddressID(_ context.Context, clientID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FindAddressID")

	if list := m.addresses[clientID]; len(list) > 0 {
		return list[0].ID, nil
	}

	return "", models.ErrAddressNotFound
}

func (m *memStore) CreateAddress(_ context.Context, a *models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateAddress")

	m.addresses[a.ClientID] = append(m.addresses[a.ClientID], a)

	return nil
}

func (m *memStore) NearestBooking(_ context.Context, companyID, clientID string, at, from, to time.Time) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("NearestBooking")

	var (
		best time.Time
		gap  time.Duration
		hit  bool
	)

	for _, b := range m.bookings {
		if b.CompanyID != companyID || b.ClientID != clientID {
			continue
		}

		if b.ScheduledDate.Before(from) || b.ScheduledDate.After(to) {
			continue
		}

		d := b.ScheduledDate.Sub(at)
		if d < 0 {
			d = -d
		}

		if !hit || d < gap {
			best, gap, hit = b.ScheduledDate, d, true
		}
	}

	return best, hit, nil
}

func (m *memStore) CreateBooking(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateBooking")

	if m.failBooking != nil {
		if err := m.failBooking(b); err != nil {
			return err
		}
	}

	m.bookings = append(m.bookings, b)

	return nil
}

func (m *memStore) bookingsFor(clientID string) []*models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Booking

	for _, b := range m.bookings {
		if b.ClientID == clientID {
			out = append(out, b)
		}
	}

	return out
}
