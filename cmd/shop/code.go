package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adnanskuyy/ShoppingABTest/experiment"
)

var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "Compute a completion code",
	Long: `Compute the completion code a session would report.

The code is <participant>-<elapsed whole seconds>-<total items>.`,
	Args: cobra.NoArgs,
	RunE: runCode,
}

var codeFlags struct {
	elapsed time.Duration
	items   int
}

var codeFlagAliases = map[string]string{
	"seconds": "elapsed",
	"total":   "items",
}

func init() {
	rootCmd.AddCommand(codeCmd)
	flags := codeCmd.Flags()
	flags.DurationVar(&codeFlags.elapsed, "elapsed", 0, "Time spent in the session")
	flags.IntVar(&codeFlags.items, "items", 0, "Total items in the cart")
	setFlagAliases(flags, codeFlagAliases)
}

func runCode(cmd *cobra.Command, args []string) error {
	if codeFlags.elapsed < 0 {
		return fmt.Errorf("elapsed must not be negative")
	}
	if codeFlags.items < 0 {
		return fmt.Errorf("items must not be negative")
	}
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	bootstrap, err := cfg.source.Lookup()
	if bootstrap.ParticipantID == "" {
		if err != nil {
			return fmt.Errorf("participant id is required: %w", err)
		}
		return fmt.Errorf("participant id is required; pass --uid")
	}
	code := experiment.CompletionCode(bootstrap.ParticipantID, codeFlags.elapsed, codeFlags.items)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), code)
	return err
}
