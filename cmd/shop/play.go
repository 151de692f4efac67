package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Adnanskuyy/ShoppingABTest/internal/shoptui"
	"github.com/Adnanskuyy/ShoppingABTest/internal/ui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run a shopping session in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runPlay,
}

var playNoBriefing bool

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolVar(&playNoBriefing, "no-briefing", false, "Start the clock without showing the instructions")
}

func runPlay(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal(os.Stdin) || !ui.IsTerminal(os.Stdout) {
		return fmt.Errorf("play needs an interactive terminal; use shop run for scripted sessions")
	}
	ss, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer ss.close()
	ss.serveMetrics(ss.settings.metricsAddr)

	ctx := cmd.Context()
	if err := ss.scene.Initialize(ctx); err != nil {
		return err
	}
	snap := ss.scene.Snapshot()

	opts := shoptui.Options{TickInterval: ss.settings.tick}
	if !playNoBriefing {
		opts.Briefing = shoptui.Briefing(ss.scene.Controller.Remaining(), snap.ShowTrolley)
	}
	if err := shoptui.Run(ctx, ss.scene, opts); err != nil {
		return err
	}

	result, ok := ss.scene.Controller.Result()
	if !ok {
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styled(consoleLabel, "Completion code:"), styled(consoleCode, result.Code))
	return ss.finish(ctx, &result, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
