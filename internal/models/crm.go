// Package models defines data types for the maidbook restore engine.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

// Booking statuses.
const (
	StatusScheduled BookingStatus = "SCHEDULED"
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusNoShow    BookingStatus = "NO_SHOW"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}

	return false
}

// ServiceType is the kind of cleaning performed.
type ServiceType string

// Service types.
const (
	ServiceStandard   ServiceType = "STANDARD"
	ServiceDeepClean  ServiceType = "DEEP_CLEAN"
	ServiceMoveInOut  ServiceType = "MOVE_IN_OUT"
	ServiceCommercial ServiceType = "COMMERCIAL"
)

// Frequency is how often a recurring booking repeats. FrequencyNone marks a one-time booking.
type Frequency string

// Recurrence frequencies.
const (
	FrequencyNone     Frequency = ""
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyBiweekly Frequency = "BIWEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
)

// Recurrence pairs the recurring flag with its frequency.
type Recurrence struct {
	IsRecurring bool
	Frequency   Frequency
}

// Client is a customer of a cleaning company.
type Client struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddressInput holds the street-level fields of an address before it is persisted.
type AddressInput struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Address is a service location belonging to a client.
type Address struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	AddressInput
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// Booking is a scheduled cleaning visit.
type Booking struct {
	ID                  string          `json:"id"`
	CompanyID           string          `json:"company_id"`
	ClientID            string          `json:"client_id"`
	AddressID           string          `json:"address_id"`
	ScheduledDate       time.Time       `json:"scheduled_date"`
	Duration            int             `json:"duration"`
	Price               decimal.Decimal `json:"price"`
	Status              BookingStatus   `json:"status"`
	ServiceType         ServiceType     `json:"service_type"`
	IsRecurring         bool            `json:"is_recurring"`
	RecurrenceFrequency Frequency       `json:"recurrence_frequency,omitempty"`
	Notes               *string         `json:"notes,omitempty"`
}

// Role is a user's permission level within a company.
type Role string

// Roles.
const (
	RoleOwner   Role = "OWNER"
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleCleaner Role = "CLEANER"
)

// Principal is the authenticated caller of an HTTP request.
type Principal struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      Role   `json:"role"`
}
