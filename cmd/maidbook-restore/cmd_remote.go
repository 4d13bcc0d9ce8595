package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/maidbook/maidbook/client"
	"github.com/maidbook/maidbook/internal/targets"
)

const defaultServerURL = "http://localhost:3040"

var (
	flagURL string
	flagKey string
)

type configFile struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// resolveConfig fills unset --url/--api-key from the environment, then
// from ~/.maidbook/config.yaml. Explicit flags always win.
func resolveConfig() {
	if flagURL == defaultServerURL {
		if v := os.Getenv("MAIDBOOK_URL"); v != "" {
			flagURL = v
		}
	}
	if flagKey == "" {
		flagKey = os.Getenv("MAIDBOOK_API_KEY")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	data, err := os.ReadFile(filepath.Join(home, ".maidbook", "config.yaml"))
	if err != nil {
		return
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return
	}
	if flagURL == defaultServerURL && cfg.URL != "" {
		flagURL = cfg.URL
	}
	if flagKey == "" && cfg.APIKey != "" {
		flagKey = cfg.APIKey
	}
}

func newRemoteClient() *client.Client {
	resolveConfig()
	var opts []client.Option
	if flagKey != "" {
		opts = append(opts, client.WithAPIKey(flagKey))
	}
	return client.New(flagURL, opts...)
}

func newRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Run restore commands against a maidbook server",
	}
	cmd.PersistentFlags().StringVar(&flagURL, "url", defaultServerURL, "Server URL (env: MAIDBOOK_URL)")
	cmd.PersistentFlags().StringVar(&flagKey, "api-key", "", "Owner or admin API key (env: MAIDBOOK_API_KEY)")

	cmd.AddCommand(remotePreflightCmd())
	cmd.AddCommand(remoteRunCmd())
	return cmd
}

func remotePreflightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Show the server's restore preflight report",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := newRemoteClient().Restore.Preflight(context.Background())
			if err != nil {
				fatal("preflight", err)
			}
			printRemotePreflight(resp)
		},
	}
}

func remoteRunCmd() *cobra.Command {
	var (
		dryRun      bool
		targetsFile string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Trigger a restore on the server",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			opts := client.RunOptions{DryRun: dryRun}

			if targetsFile != "" {
				list, err := targets.Load(targetsFile)
				if err != nil {
					fatal("targets", err)
				}
				for _, t := range list {
					opts.Targets = append(opts.Targets, client.TargetIdentity{
						ID: t.ID, Name: t.Name, Email: t.Email, Phone: t.Phone, CreatedAt: t.CreatedAt,
					})
				}
			}

			resp, err := newRemoteClient().Restore.Run(context.Background(), opts)
			if client.IsConflict(err) {
				fatal("restore", errRemoteBusy)
			}
			if err != nil {
				fatal("restore", err)
			}
			printRemoteRunReport(resp)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Perform every lookup but write nothing")
	cmd.Flags().StringVar(&targetsFile, "targets", "", "Send this targets file instead of the server's configured one")
	return cmd
}
