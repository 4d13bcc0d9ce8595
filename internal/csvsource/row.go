package csvsource

import (
	"strings"

	"github.com/maidbook/maidbook/internal/identity"
)

// Header aliases seen across booking-tool and spreadsheet exports, lowercase.
var (
	fullNameHeaders  = []string{"name", "full name", "customer name", "client name", "customer"}
	firstNameHeaders = []string{"first name", "firstname", "first_name", "customer first name"}
	lastNameHeaders  = []string{"last name", "lastname", "last_name", "customer last name"}
	phoneHeaders     = []string{"phone", "phone number", "customer phone", "mobile", "mobile phone", "cell phone"}
	emailHeaders     = []string{"email", "email address", "customer email", "e-mail"}
	statusHeaders    = []string{"status", "booking status"}
	serviceHeaders   = []string{"service", "service type", "service name", "service category"}
	frequencyHeaders = []string{"frequency", "recurrence", "service frequency", "booking frequency"}
	durationHeaders  = []string{"duration", "length", "estimated duration", "service duration"}
	priceHeaders     = []string{"price", "final amount", "amount", "total", "booking price", "final price"}
	dateHeaders      = []string{"date", "booking date", "service date", "scheduled date", "start date"}
	timeHeaders      = []string{"time", "start time", "booking time", "arrival time"}
	streetHeaders    = []string{"address", "street", "street address", "address line 1", "service address"}
	cityHeaders      = []string{"city"}
	stateHeaders     = []string{"state", "province", "region"}
	zipHeaders       = []string{"zip", "zip code", "zipcode", "postal code", "postcode"}
	notesHeaders     = []string{"notes", "booking notes", "customer notes", "special instructions", "comments"}
)

// SourceRow is one tokenized CSV record. Accessors resolve the first
// non-empty value among known header aliases and strip spreadsheet text wrappers.
type SourceRow struct {
	line   int
	fields map[string]string
}

func newSourceRow(line int, header, values []string) SourceRow {
	fields := make(map[string]string, len(header))

	for i, h := range header {
		key := strings.ToLower(h)
		if _, dup := fields[key]; dup {
			continue
		}

		v := ""
		if i < len(values) {
			v = values[i]
		}

		fields[key] = v
	}

	return SourceRow{line: line, fields: fields}
}

// NewSourceRow builds a row from header/value pairs. Intended for tests and callers
// that already hold parsed records.
func NewSourceRow(line int, kv map[string]string) SourceRow {
	fields := make(map[string]string, len(kv))
	for k, v := range kv {
		fields[strings.ToLower(strings.TrimSpace(k))] = v
	}

	return SourceRow{line: line, fields: fields}
}

// Line returns the 1-based line number of the row in its source file.
func (r SourceRow) Line() int { return r.line }

// Get returns the value under header (case-insensitive), or "".
func (r SourceRow) Get(header string) string {
	return identity.UnwrapExcelText(r.fields[strings.ToLower(header)])
}

func (r SourceRow) first(aliases []string) string {
	for _, a := range aliases {
		if v := strings.TrimSpace(identity.UnwrapExcelText(r.fields[a])); v != "" {
			return v
		}
	}

	return ""
}

// FullName returns the customer's display name.
func (r SourceRow) FullName() string {
	return identity.FullName(r.first(fullNameHeaders), r.first(firstNameHeaders), r.first(lastNameHeaders))
}

// Phone returns the raw phone value.
func (r SourceRow) Phone() string { return r.first(phoneHeaders) }

// Email returns the raw email value.
func (r SourceRow) Email() string { return r.first(emailHeaders) }

// Status returns the free-text booking status.
func (r SourceRow) Status() string { return r.first(statusHeaders) }

// Service returns the free-text service description.
func (r SourceRow) Service() string { return r.first(serviceHeaders) }

// Frequency returns the free-text recurrence description.
func (r SourceRow) Frequency() string { return r.first(frequencyHeaders) }

// Duration returns the raw "H:MM" duration.
func (r SourceRow) Duration() string { return r.first(durationHeaders) }

// Price returns the raw price text.
func (r SourceRow) Price() string { return r.first(priceHeaders) }

// Date returns the raw scheduled date, which may include a time of day.
func (r SourceRow) Date() string { return r.first(dateHeaders) }

// Time returns the raw scheduled time of day, if exported separately.
func (r SourceRow) Time() string { return r.first(timeHeaders) }

// Street returns the street line of the address.
func (r SourceRow) Street() string { return r.first(streetHeaders) }

// City returns the address city.
func (r SourceRow) City() string { return r.first(cityHeaders) }

// State returns the address state or province.
func (r SourceRow) State() string { return r.first(stateHeaders) }

// Zip returns the postal code.
func (r SourceRow) Zip() string { return r.first(zipHeaders) }

// Notes returns free-text booking notes.
func (r SourceRow) Notes() string { return r.first(notesHeaders) }
