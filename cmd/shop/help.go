package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adnanskuyy/ShoppingABTest/experiment"
	"github.com/Adnanskuyy/ShoppingABTest/internal/markdown"
	"github.com/Adnanskuyy/ShoppingABTest/internal/shoptui"
	"github.com/Adnanskuyy/ShoppingABTest/participant"
)

const helpWidth = 80

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Help about any command",
	Args:  cobra.ArbitraryArgs,
	RunE:  runHelp,
}

var helpBriefingCmd = &cobra.Command{
	Use:   "briefing",
	Short: "Show the participant instructions",
	Args:  cobra.NoArgs,
	RunE:  runHelpBriefing,
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
	helpCmd.AddCommand(helpBriefingCmd)
}

func runHelp(cmd *cobra.Command, args []string) error {
	root := cmd.Root()
	if len(args) == 0 {
		return root.Help()
	}

	target, _, err := root.Find(args)
	if err != nil || target == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Unknown help topic %q\n", strings.Join(args, " "))
		return root.Help()
	}

	return target.Help()
}

func runHelpBriefing(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	duration := cfg.duration
	if duration <= 0 {
		duration = experiment.DefaultDuration
	}
	session := participant.Resolve(cfg.source)
	brief := shoptui.Briefing(duration, session.Variant().ShowsTrolley())
	_, err = cmd.OutOrStdout().Write(markdown.SafeRender(helpWidth, 0, []byte(brief)))
	return err
}
