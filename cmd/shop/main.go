// Package main implements the shop CLI.
package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "shop",
	Short:         "Shop - a shopping A/B experiment",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var sharedFlags struct {
	uid            string
	variant        string
	url            string
	duration       time.Duration
	pauseOnConfirm bool
	catalog        string
	eventsDir      string
	sqlite         string
	endpoint       string
	metricsAddr    string
	verbose        bool
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&sharedFlags.uid, "uid", "", "Participant id")
	flags.StringVar(&sharedFlags.variant, "variant", "", "Experiment variant (A or B)")
	flags.StringVar(&sharedFlags.url, "url", "", "Page URL carrying uid and variant query parameters")
	flags.DurationVar(&sharedFlags.duration, "duration", 0, "Session length (default 3m)")
	flags.BoolVar(&sharedFlags.pauseOnConfirm, "pause-on-confirm", false, "Pause the countdown while the finish confirmation is open")
	flags.StringVar(&sharedFlags.catalog, "catalog", "", "Product catalog YAML file")
	flags.StringVar(&sharedFlags.eventsDir, "events-dir", "", "Directory for per-run analytics logs")
	flags.StringVar(&sharedFlags.sqlite, "sqlite", "", "SQLite database for analytics events")
	flags.StringVar(&sharedFlags.endpoint, "endpoint", "", "HTTP endpoint receiving analytics events")
	flags.StringVar(&sharedFlags.metricsAddr, "metrics-addr", "", "Address serving Prometheus metrics")
	flags.BoolVarP(&sharedFlags.verbose, "verbose", "v", false, "Log debug output to stderr")
	addParticipantFlagAliases(rootCmd)
}
