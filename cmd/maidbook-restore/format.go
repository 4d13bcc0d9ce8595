package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/maidbook/maidbook/client"
	"github.com/maidbook/maidbook/internal/models"
)

var errRemoteBusy = errors.New("another restore is already running on the server")

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Println(strings.Join(parts, "  "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

func itoa(n int) string { return strconv.Itoa(n) }

// reportRows flattens a run report into one row per category. Columns that do
// not apply to a category are left as "-".
func reportRows(r *models.RunReport) [][]string {
	return [][]string{
		{"clients", itoa(r.Clients.Matched), itoa(r.Clients.Restored), itoa(r.Clients.Skipped), "-", itoa(r.Clients.Failed)},
		{"addresses", "-", itoa(r.Addresses.Restored), itoa(r.Addresses.Reused), itoa(r.Addresses.Placeholders), itoa(r.Addresses.Failed)},
		{"bookings", itoa(r.Bookings.Matched), itoa(r.Bookings.Restored), itoa(r.Bookings.Skipped), itoa(r.Bookings.Unparseable), itoa(r.Bookings.Failed)},
	}
}

var reportHeaders = []string{"CATEGORY", "MATCHED", "RESTORED", "SKIPPED/REUSED", "UNPARSEABLE/PLACEHOLDER", "FAILED"}

func printRunReport(r *models.RunReport) {
	if flagFmt == "json" {
		formatJSON(r)
		return
	}

	mode := "live"
	if r.DryRun {
		mode = "dry run"
	}
	fmt.Printf("Restore (%s): read %d booking rows, %d customer rows in %s\n\n",
		mode, r.RowsRead.Bookings, r.RowsRead.Customers, r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	formatTable(reportHeaders, reportRows(r))

	printList("Client errors", r.Clients.Errors)
	printList("Address errors", r.Addresses.Errors)
	printList("Booking errors", r.Bookings.Errors)
	printList("Booking warnings", r.Bookings.Warnings)
}

func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, it := range items {
		fmt.Printf("  - %s\n", it)
	}
}

func presence(fs models.FileStatus) string {
	if fs.Present {
		return "present"
	}
	return "missing"
}

func printPreflight(r *models.PreflightReport) {
	if flagFmt == "json" {
		formatJSON(r)
		return
	}

	formatTable([]string{"CHECK", "VALUE"}, [][]string{
		{"targets", itoa(r.Targets)},
		{"existing", itoa(r.Existing)},
		{"missing", itoa(len(r.Missing))},
		{"bookings file", r.Files.Bookings.Path + " (" + presence(r.Files.Bookings) + ")"},
		{"customers file", r.Files.Customers.Path + " (" + presence(r.Files.Customers) + ")"},
	})
	printList("Missing targets", r.Missing)
}

func printRemoteRunReport(r *client.RunReport) {
	printRunReport(&models.RunReport{
		DryRun:     r.DryRun,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		RowsRead:   models.RowsRead(r.RowsRead),
		Clients:    models.ClientStats(r.Clients),
		Addresses:  models.AddressStats(r.Addresses),
		Bookings:   models.BookingStats(r.Bookings),
	})
}

func printRemotePreflight(r *client.PreflightReport) {
	printPreflight(&models.PreflightReport{
		Targets:  r.Targets,
		Existing: r.Existing,
		Missing:  r.Missing,
		Files: models.PreflightFiles{
			Bookings:  models.FileStatus(r.Files.Bookings),
			Customers: models.FileStatus(r.Files.Customers),
		},
	})
}
