// Package mapping translates free-text export fields into canonical booking values.
//
// Keyword rules are evaluated in order and the first match wins; matching is
// case-insensitive substring containment.
package mapping

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/maidbook/maidbook/internal/models"
)

// DefaultDurationMinutes is used when an export's duration is missing or malformed.
const DefaultDurationMinutes = 120

// Status maps export status text to a BookingStatus. Text matching no rule
// maps to fallback; the two historical restore scripts disagreed on this
// value, so callers must choose it explicitly.
func Status(s string, fallback models.BookingStatus) models.BookingStatus {
	s = strings.ToLower(s)

	switch {
	case strings.Contains(s, "cancel"):
		return models.StatusCancelled
	case strings.Contains(s, "complete"), strings.Contains(s, "done"):
		return models.StatusCompleted
	case strings.Contains(s, "no show"):
		return models.StatusNoShow
	case strings.Contains(s, "confirm"):
		return models.StatusConfirmed
	case strings.Contains(s, "pending"):
		return models.StatusPending
	default:
		return fallback
	}
}

// ServiceType maps a service description to a ServiceType.
func ServiceType(s string) models.ServiceType {
	s = strings.ToLower(s)

	switch {
	case strings.Contains(s, "deep"):
		return models.ServiceDeepClean
	case strings.Contains(s, "move"):
		return models.ServiceMoveInOut
	case strings.Contains(s, "office"), strings.Contains(s, "commercial"):
		return models.ServiceCommercial
	default:
		return models.ServiceStandard
	}
}

// Recurrence maps a frequency description to a Recurrence. Unrecognised text
// is a one-time booking.
func Recurrence(s string) models.Recurrence {
	s = strings.ToLower(s)

	switch {
	case strings.Contains(s, "weekly") && !strings.Contains(s, "bi"):
		return models.Recurrence{IsRecurring: true, Frequency: models.FrequencyWeekly}
	case strings.Contains(s, "biweekly"), strings.Contains(s, "bi-weekly"), strings.Contains(s, "bi weekly"):
		return models.Recurrence{IsRecurring: true, Frequency: models.FrequencyBiweekly}
	case strings.Contains(s, "monthly"):
		return models.Recurrence{IsRecurring: true, Frequency: models.FrequencyMonthly}
	default:
		return models.Recurrence{}
	}
}

// DurationMinutes parses "H:MM" into minutes, returning DefaultDurationMinutes
// for empty, malformed or zero-length input.
func DurationMinutes(s string) int {
	hours, minutes, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return DefaultDurationMinutes
	}

	h, err := strconv.Atoi(strings.TrimSpace(hours))
	if err != nil || h < 0 {
		return DefaultDurationMinutes
	}

	m, err := strconv.Atoi(strings.TrimSpace(minutes))
	if err != nil || m < 0 {
		return DefaultDurationMinutes
	}

	if total := h*60 + m; total > 0 {
		return total
	}

	return DefaultDurationMinutes
}

// Currency strips everything but digits and '.' and parses the rest.
// Unparseable or empty input is zero.
func Currency(s string) decimal.Decimal {
	var b strings.Builder

	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}

	return d
}
