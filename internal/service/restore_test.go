package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/maidbook/maidbook/internal/address"
	"github.com/maidbook/maidbook/internal/models"
)

const (
	testCompany = "company-1"
	testUser    = "user-1"
)

var targetX = models.TargetIdentity{
	ID:        "client-x",
	Name:      "Xena Example",
	Email:     "xena@example.com",
	Phone:     "5551234567",
	CreatedAt: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
}

const customersCSV = `Name,Phone,Email,Address,City,State,Zip
Xena Example,555.123.4567,xena@example.com,"42 Main St, Apt 3",Springfield,IL,62701
Someone Else,5550000000,else@example.com,1 Side Rd,Shelbyville,IL,62565
`

func newTestRestoreService(store *memStore, maxErrors int) *RestoreService {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	svc := NewRestoreService(store, Options{MaxErrors: maxErrors, Location: time.UTC}, log)
	svc.now = func() time.Time { return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) }

	return svc
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func newInput(t *testing.T, bookingsCSV string, targets ...models.TargetIdentity) models.RestoreInput {
	t.Helper()

	dir := t.TempDir()

	return models.RestoreInput{
		CompanyID:     testCompany,
		UserID:        testUser,
		Targets:       targets,
		BookingsPath:  writeFile(t, dir, "bookings.csv", bookingsCSV),
		CustomersPath: writeFile(t, dir, "customers.csv", customersCSV),
	}
}

func TestRun_EndToEnd(t *testing.T) {
	bookings := `Customer Name,Phone,Status,Frequency,Duration,Price,Date,Time,Address,City
Xena Example,(555) 123-4567,Completed - paid in full,Bi-Weekly,2:00,$150.00,2024-03-05,10:00,,
Nobody Known,5559999999,Scheduled,Weekly,1:00,$80.00,2024-03-06,09:00,9 Nowhere,Ghost Town
`
	store := newMemStore()
	svc := newTestRestoreService(store, 10)

	report, err := svc.Run(context.Background(), newInput(t, bookings, targetX))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.RowsRead.Bookings != 2 || report.RowsRead.Customers != 2 {
		t.Errorf("rows read = %+v", report.RowsRead)
	}

	if report.Clients.Restored != 1 || report.Clients.Matched != 1 {
		t.Errorf("clients = %+v", report.Clients)
	}

	if report.Bookings.Matched != 1 || report.Bookings.Restored != 1 {
		t.Fatalf("bookings = %+v", report.Bookings)
	}

	got := store.bookingsFor(targetX.ID)
	if len(got) != 1 {
		t.Fatalf("bookings stored = %d, want 1", len(got))
	}

	b := got[0]
	if b.Status != models.StatusCompleted {
		t.Errorf("status = %s, want COMPLETED", b.Status)
	}

	if b.RecurrenceFrequency != models.FrequencyBiweekly || !b.IsRecurring {
		t.Errorf("recurrence = %v/%s, want BIWEEKLY", b.IsRecurring, b.RecurrenceFrequency)
	}

	if b.Duration != 120 {
		t.Errorf("duration = %d, want 120", b.Duration)
	}

	if b.Price.StringFixed(2) != "150.00" {
		t.Errorf("price = %s, want 150.00", b.Price)
	}

	if !b.ScheduledDate.Equal(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("scheduled = %v", b.ScheduledDate)
	}

	addrs := store.addresses[targetX.ID]
	if len(addrs) != 1 {
		t.Fatalf("addresses = %d, want 1", len(addrs))
	}

	if addrs[0].Street != "42 Main St, Apt 3" || addrs[0].City != "Springfield" || addrs[0].Zip != "62701" {
		t.Errorf("address = %+v", addrs[0].AddressInput)
	}

	if b.AddressID != addrs[0].ID {
		t.Errorf("booking address = %s, want %s", b.AddressID, addrs[0].ID)
	}

	c := store.clients[targetX.ID]
	if c == nil || !c.CreatedAt.Equal(targetX.CreatedAt) || c.CompanyID != testCompany {
		t.Errorf("client = %+v", c)
	}
}

func TestRun_Idempotent(t *testing.T) {
	bookings := `Name,Phone,Date,Time
Xena Example,5551234567,2024-03-05,10:00
Xena Example,5551234567,2024-03-12,10:00
`
	store := newMemStore()
	svc := newTestRestoreService(store, 10)
	in := newInput(t, bookings, targetX)

	first, err := svc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	if first.Bookings.Restored != 2 || first.Addresses.Restored != 1 {
		t.Fatalf("first run = %+v / %+v", first.Bookings, first.Addresses)
	}

	second, err := svc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if second.Clients.Restored != 0 || second.Bookings.Restored != 0 || second.Addresses.Restored != 0 {
		t.Errorf("second run restored something: %+v", second)
	}

	if second.Clients.Skipped != 1 || second.Bookings.Skipped != 2 || second.Addresses.Reused != 1 {
		t.Errorf("second run skips = clients %d bookings %d reused %d",
			second.Clients.Skipped, second.Bookings.Skipped, second.Addresses.Reused)
	}

	if len(second.Bookings.Warnings) != 0 {
		t.Errorf("exact repeats should not warn: %v", second.Bookings.Warnings)
	}

	if n := len(store.bookingsFor(targetX.ID)); n != 2 {
		t.Errorf("bookings stored = %d, want 2", n)
	}
}

func TestRun_DedupWindow(t *testing.T) {
	store := newMemStore()
	store.clients[targetX.ID] = &models.Client{ID: targetX.ID, CompanyID: testCompany}
	store.addresses[targetX.ID] = []*models.Address{{ID: "addr-1", ClientID: targetX.ID}}
	store.bookings = []*models.Booking{{
		ID: "b-1", CompanyID: testCompany, ClientID: targetX.ID,
		ScheduledDate: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
	}}

	bookings := `Phone,Date,Time
5551234567,2024-03-05,11:30
5551234567,2024-03-05,13:00
`
	svc := newTestRestoreService(store, 10)

	report, err := svc.Run(context.Background(), newInput(t, bookings, targetX))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Bookings.Skipped != 1 || report.Bookings.Restored != 1 {
		t.Fatalf("bookings = %+v", report.Bookings)
	}

	if len(report.Bookings.Warnings) != 1 || !strings.Contains(report.Bookings.Warnings[0], "line 2") {
		t.Errorf("warnings = %v", report.Bookings.Warnings)
	}

	got := store.bookingsFor(targetX.ID)
	if len(got) != 2 || !got[1].ScheduledDate.Equal(time.Date(2024, 3, 5, 13, 0, 0, 0, time.UTC)) {
		t.Errorf("stored bookings = %+v", got)
	}

	if got[1].AddressID != "addr-1" {
		t.Errorf("address = %s, want reused addr-1", got[1].AddressID)
	}
}

func TestRun_InFileRepeatWithinWindow(t *testing.T) {
	bookings := `Phone,Date,Time
5551234567,2024-03-05,10:00
5551234567,2024-03-05,12:00
`
	store := newMemStore()
	svc := newTestRestoreService(store, 10)

	in := newInput(t, bookings, targetX)
	in.DryRun = true

	report, err := svc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Bookings.Restored != 1 || report.Bookings.Skipped != 1 {
		t.Errorf("bookings = %+v", report.Bookings)
	}
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	bookings := `Name,Phone,Date
Xena Example,5551234567,2024-03-05
`
	store := newMemStore()
	svc := newTestRestoreService(store, 10)

	in := newInput(t, bookings, targetX)
	in.DryRun = true

	report, err := svc.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.DryRun {
		t.Error("report.DryRun = false")
	}

	if report.Clients.Restored != 1 || report.Addresses.Restored != 1 || report.Bookings.Restored != 1 {
		t.Errorf("report = %+v", report)
	}

	if n := store.writes(); n != 0 {
		t.Errorf("writes = %d, want 0", n)
	}
}

func TestRun_ClientSharingContactReusesExisting(t *testing.T) {
	phone := "(555) 123-4567"
	store := newMemStore()
	store.clients["legacy-7"] = &models.Client{ID: "legacy-7", CompanyID: testCompany, Phone: &phone}

	bookings := `Phone,Date
5551234567,2024-03-05
`
	svc := newTestRestoreService(store, 10)

	report, err := svc.Run(context.Background(), newInput(t, bookings, targetX))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Clients.Skipped != 1 || report.Clients.Restored != 0 {
		t.Errorf("clients = %+v", report.Clients)
	}

	if len(store.bookingsFor("legacy-7")) != 1 {
		t.Errorf("booking not attached to existing client")
	}

	if _, ok := store.clients[targetX.ID]; ok {
		t.Errorf("duplicate client created")
	}
}

func TestRun_PlaceholderAddress(t *testing.T) {
	target := models.TargetIdentity{ID: "client-p", Name: "Pat NoAddress", Phone: "5557770000"}
	bookings := `Name,Phone,Date
Pat NoAddress,5557770000,2024-03-05
`
	store := newMemStore()
	svc := newTestRestoreService(store, 10)

	report, err := svc.Run(context.Background(), newInput(t, bookings, target))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Addresses.Placeholders != 1 {
		t.Errorf("placeholders = %d, want 1", report.Addresses.Placeholders)
	}

	addr := store.addresses[target.ID][0]
	if addr.Street != address.PlaceholderStreet || addr.City != address.PlaceholderCity {
		t.Errorf("address = %+v", addr.AddressInput)
	}
}

func TestRun_UnparseableDateSkipped(t *testing.T) {
	bookings := `Phone,Date
5551234567,sometime soon
5551234567,2024-03-05
`
	store := newMemStore()
	svc := newTestRestoreService(store, 10)

	report, err := svc.Run(context.Background(), newInput(t, bookings, targetX))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Bookings.Unparseable != 1 || report.Bookings.Restored != 1 || len(report.Bookings.Errors) != 0 {
		t.Errorf("bookings = %+v", report.Bookings)
	}
}

func TestRun_RowFailuresIsolatedAndCapped(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Phone,Date\n")

	for day := 1; day <= 6; day++ {
		sb.WriteString("5551234567,2024-03-0")
		sb.WriteByte(byte('0' + day))
		sb.WriteString("\n")
	}

	store := newMemStore()
	store.failBooking = func(b *models.Booking) error {
		if b.ScheduledDate.Day() <= 4 {
			return models.ErrDuplicateKey
		}

		return nil
	}
	svc := newTestRestoreService(store, 2)

	report, err := svc.Run(context.Background(), newInput(t, sb.String(), targetX))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Bookings.Failed != 4 || report.Bookings.Restored != 2 {
		t.Errorf("bookings = %+v", report.Bookings)
	}

	if len(report.Bookings.Errors) != 2 {
		t.Errorf("errors = %d, want capped at 2", len(report.Bookings.Errors))
	}
}

func TestRun_ClientLookupFailure(t *testing.T) {
	bookings := `Phone,Date
5551234567,2024-03-05
`
	store := newMemStore()
	store.failLookup = errors.New("db down")
	svc := newTestRestoreService(store, 10)

	report, err := svc.Run(context.Background(), newInput(t, bookings, targetX))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Clients.Failed != 1 || len(report.Clients.Errors) != 1 {
		t.Errorf("clients = %+v", report.Clients)
	}

	if report.Bookings.Failed != 1 || report.Bookings.Restored != 0 {
		t.Errorf("bookings = %+v", report.Bookings)
	}
}

func TestRun_ClientOfOtherCompanyNotTouched(t *testing.T) {
	bookings := `Phone,Date,Time
5551234567,2024-03-05,10:00
`
	store := newMemStore()
	store.clients[targetX.ID] = &models.Client{ID: targetX.ID, CompanyID: "other-company"}
	store.addresses[targetX.ID] = []*models.Address{{ID: "addr-other", ClientID: targetX.ID}}
	svc := newTestRestoreService(store, 10)

	report, err := svc.Run(context.Background(), newInput(t, bookings, targetX))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Clients.Skipped != 0 || report.Clients.Failed != 1 {
		t.Errorf("clients = %+v", report.Clients)
	}

	if len(report.Clients.Errors) != 1 || !strings.Contains(report.Clients.Errors[0], models.ErrClientInOtherCompany.Error()) {
		t.Errorf("client errors = %v", report.Clients.Errors)
	}

	if report.Bookings.Failed != 1 || report.Bookings.Restored != 0 {
		t.Errorf("bookings = %+v", report.Bookings)
	}

	if len(report.Bookings.Errors) != 1 || !strings.Contains(report.Bookings.Errors[0], "client client-x was not restored") {
		t.Errorf("booking errors = %v", report.Bookings.Errors)
	}

	if n := store.writes(); n != 0 {
		t.Errorf("writes = %d, want 0", n)
	}

	if store.clients[targetX.ID].CompanyID != "other-company" {
		t.Error("foreign client was replaced")
	}
}

func TestRun_RejectsBadTargetIDs(t *testing.T) {
	tests := []struct {
		name    string
		targets []models.TargetIdentity
		want    error
	}{
		{"empty id", []models.TargetIdentity{{ID: "", Name: "Nobody", Phone: "5551234567"}}, models.ErrMissingTargetID},
		{"duplicate id", []models.TargetIdentity{targetX, targetX}, models.ErrDuplicateTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			svc := newTestRestoreService(store, 10)

			report, err := svc.Run(context.Background(), newInput(t, "Phone,Date\n5551234567,2024-03-05\n", tt.targets...))
			if !errors.Is(err, tt.want) || report != nil {
				t.Fatalf("got %v, %v; want %v", report, err, tt.want)
			}

			if len(store.calls) != 0 {
				t.Errorf("store calls = %v, want none", store.calls)
			}
		})
	}
}

func TestRun_InputErrors(t *testing.T) {
	svc := newTestRestoreService(newMemStore(), 10)

	in := newInput(t, "Phone,Date\n", targetX)
	in.CustomersPath = filepath.Join(t.TempDir(), "missing.csv")

	if _, err := svc.Run(context.Background(), in); !errors.Is(err, models.ErrMissingFile) {
		t.Errorf("err = %v, want ErrMissingFile", err)
	}

	in = newInput(t, "Phone,Date\n")
	if _, err := svc.Run(context.Background(), in); !errors.Is(err, models.ErrMissingTargets) {
		t.Errorf("err = %v, want ErrMissingTargets", err)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	svc := newTestRestoreService(newMemStore(), 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := svc.Run(ctx, newInput(t, "Phone,Date\n5551234567,2024-03-05\n", targetX))
	if !errors.Is(err, context.Canceled) || report != nil {
		t.Errorf("got %v, %v; want nil report and context.Canceled", report, err)
	}
}

func TestPreflight(t *testing.T) {
	store := newMemStore()
	store.clients[targetX.ID] = &models.Client{ID: targetX.ID, CompanyID: testCompany}
	store.clients["client-z"] = &models.Client{ID: "client-z", CompanyID: "other-company"}
	svc := newTestRestoreService(store, 10)

	in := newInput(t, "Phone\n", targetX,
		models.TargetIdentity{ID: "client-y", Name: "Y"},
		models.TargetIdentity{ID: "client-z", Name: "Z"})
	in.CustomersPath = filepath.Join(t.TempDir(), "gone.csv")

	got, err := svc.Preflight(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Targets != 3 || got.Existing != 1 || len(got.Missing) != 2 || got.Missing[0] != "client-y" || got.Missing[1] != "client-z" {
		t.Errorf("preflight = %+v", got)
	}

	if !got.Files.Bookings.Present || got.Files.Customers.Present {
		t.Errorf("files = %+v", got.Files)
	}
}
