// Package address supplies a best-effort address for a matched booking row.
package address

import (
	"github.com/maidbook/maidbook/internal/csvsource"
	"github.com/maidbook/maidbook/internal/identity"
	"github.com/maidbook/maidbook/internal/models"
)

// Placeholder values written when no source carries an address.
const (
	PlaceholderStreet = "Address needed"
	PlaceholderCity   = "City needed"
)

// Source names where a resolved address came from.
type Source string

// Address sources, most to least trusted.
const (
	SourceBooking        Source = "booking"
	SourceCustomersPhone Source = "customers_phone"
	SourceCustomersEmail Source = "customers_email"
	SourcePlaceholder    Source = "placeholder"
)

// Resolver looks up customer-export addresses by normalized phone and email.
type Resolver struct {
	byKey map[string]models.AddressInput
}

// NewResolver indexes customer rows that carry both a street and a city.
// When two rows share a key the earlier one wins.
func NewResolver(customers []csvsource.SourceRow) *Resolver {
	r := &Resolver{byKey: make(map[string]models.AddressInput)}

	for _, row := range customers {
		addr, ok := fromRow(row)
		if !ok {
			continue
		}

		if p := identity.NormalizePhone(row.Phone()); p != "" {
			r.put(phoneKey(p), addr)
		}

		if e := identity.NormalizeEmail(row.Email()); e != "" {
			r.put(emailKey(e), addr)
		}
	}

	return r
}

// Len returns the number of indexed keys.
func (r *Resolver) Len() int { return len(r.byKey) }

func (r *Resolver) put(key string, addr models.AddressInput) {
	if _, exists := r.byKey[key]; exists {
		return
	}

	r.byKey[key] = addr
}

// Resolve returns the booking row's own address when present, else the
// customer export's address for the identity's phone then email, else
// placeholders. It never fails.
func (r *Resolver) Resolve(row csvsource.SourceRow, target models.TargetIdentity) (models.AddressInput, Source) {
	if addr, ok := fromRow(row); ok {
		return addr, SourceBooking
	}

	if p := identity.NormalizePhone(target.Phone); p != "" {
		if addr, ok := r.byKey[phoneKey(p)]; ok {
			return addr, SourceCustomersPhone
		}
	}

	if e := identity.NormalizeEmail(target.Email); e != "" {
		if addr, ok := r.byKey[emailKey(e)]; ok {
			return addr, SourceCustomersEmail
		}
	}

	return models.AddressInput{Street: PlaceholderStreet, City: PlaceholderCity}, SourcePlaceholder
}

func fromRow(row csvsource.SourceRow) (models.AddressInput, bool) {
	addr := models.AddressInput{
		Street: row.Street(),
		City:   row.City(),
		State:  row.State(),
		Zip:    row.Zip(),
	}

	return addr, addr.Street != "" && addr.City != ""
}

func phoneKey(digits string) string { return "phone:" + digits }
func emailKey(email string) string  { return "email:" + email }
