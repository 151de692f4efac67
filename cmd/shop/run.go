package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Adnanskuyy/ShoppingABTest/experiment"
	"github.com/Adnanskuyy/ShoppingABTest/internal/ui"
	"github.com/Adnanskuyy/ShoppingABTest/scene"
)

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Play a scripted shopping session",
	Long: `Play a scripted shopping session.

The script is read from the named file, or from stdin when no file or "-" is
given. Each line is one command:

  look <product>   focus a product (look alone clears the focus)
  interact         inspect the focused product
  buy              add the product in the open panel
  close            put the product back
  add <product>    add a product without opening its panel
  end              ask to finish early
  confirm          confirm the finish request
  decline          decline the finish request
  wait <duration>  let time pass ("5", "1.5", "90s", "1m30s")

Blank lines and lines starting with # are ignored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

var runFlags struct {
	realtime bool
	finish   bool
	json     bool
	echo     bool
}

func init() {
	rootCmd.AddCommand(runCmd)
	flags := runCmd.Flags()
	flags.BoolVar(&runFlags.realtime, "realtime", false, "Let wall-clock time pass instead of simulating it")
	flags.BoolVar(&runFlags.finish, "finish", true, "Keep the clock running after the script until the session ends")
	flags.BoolVar(&runFlags.json, "json", false, "Print the session result as JSON")
	flags.BoolVar(&runFlags.echo, "echo", false, "Print each command before it runs")
}

func runRun(cmd *cobra.Command, args []string) error {
	commands, err := readScript(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	ss, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer ss.close()
	ss.serveMetrics(ss.settings.metricsAddr)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var driver scene.Driver = scene.VirtualDriver{Scene: ss.scene}
	if runFlags.realtime {
		runner := experiment.NewRunner(ss.scene, experiment.RunnerOptions{Interval: ss.settings.tick})
		runnerStopped := make(chan struct{})
		go func() {
			defer close(runnerStopped)
			if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
				ss.logger.Warn("runner stopped", zap.Error(err))
			}
		}()
		defer func() {
			cancel()
			<-runnerStopped
		}()
		driver = scene.RealtimeDriver{Runner: runner}
	}

	var initErr error
	if err := driver.Do(ctx, func() { initErr = ss.scene.Initialize(ctx) }); err != nil {
		return err
	}
	if initErr != nil {
		return initErr
	}

	opts := scene.ScriptOptions{Finish: runFlags.finish}
	if runFlags.echo {
		opts.OnCommand = func(c scene.Command) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", styled(consoleMuted, fmt.Sprintf("%3d", c.Line)), c)
		}
	}
	if err := scene.Play(ctx, ss.scene, driver, commands, opts); err != nil {
		return err
	}

	var snap scene.Snapshot
	if err := driver.Do(ctx, func() { snap = ss.scene.Snapshot() }); err != nil {
		return err
	}
	cancel()

	out := cmd.OutOrStdout()
	if runFlags.json {
		if err := encodeJSON(out, snap); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, formatRunSummary(snap))
	}
	return ss.finish(cmd.Context(), snap.Result, out, cmd.ErrOrStderr())
}

func readScript(stdin io.Reader, args []string) ([]scene.Command, error) {
	if len(args) == 0 || args[0] == "-" {
		return scene.ParseScript(stdin)
	}
	file, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer file.Close()
	return scene.ParseScript(file)
}

func formatRunSummary(snap scene.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", styled(consoleLabel, "Participant:"), snap.ParticipantID)
	fmt.Fprintf(&b, "%s %s\n", styled(consoleLabel, "Variant:"), snap.Variant.Label())
	if snap.RunID != "" {
		fmt.Fprintf(&b, "%s %s\n", styled(consoleLabel, "Run:"), snap.RunID)
	}

	items := snap.HUD.Items
	if snap.Result != nil {
		items = snap.Result.Items
		fmt.Fprintf(&b, "%s %s\n", styled(consoleLabel, "Ended:"), snap.Result.Reason)
		fmt.Fprintf(&b, "%s %s\n", styled(consoleLabel, "Elapsed:"), ui.FormatClock(snap.Result.Elapsed))
	} else {
		fmt.Fprintf(&b, "%s %s\n", styled(consoleLabel, "Remaining:"), snap.HUD.Clock)
	}

	if len(items) == 0 {
		b.WriteString(styled(consoleMuted, "Cart is empty") + "\n")
	} else {
		names := make([]string, 0, len(items))
		for name := range items {
			names = append(names, name)
		}
		sort.Strings(names)
		table := ui.NewTableBuilder([]string{"PRODUCT", "QTY"}, len(names))
		for _, name := range names {
			table.AddRow(name, fmt.Sprintf("%d", items[name]))
		}
		b.WriteString(table.String())
	}

	if snap.Result != nil {
		fmt.Fprintf(&b, "%s %s\n", styled(consoleLabel, "Completion code:"), styled(consoleCode, snap.Result.Code))
	}
	return b.String()
}
