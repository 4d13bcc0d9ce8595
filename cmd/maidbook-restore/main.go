// Command maidbook-restore reconciles backup CSV exports into the CRM tables,
// either directly against PostgreSQL or through a running maidbook server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables set via ldflags.
var (
	version   = "0.3.0"
	commit    = ""
	buildDate = ""
)

var flagFmt string

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("maidbook-restore version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("maidbook-restore version %s-dev", version)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "maidbook-restore",
		Short:        "Restore clients, addresses and bookings from backup exports",
		Version:      versionString(),
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "table", "Output format: json|table")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newPreflightCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newRemoteCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
