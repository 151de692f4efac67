package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adnanskuyy/ShoppingABTest/analytics"
	"github.com/Adnanskuyy/ShoppingABTest/internal/paths"
	"github.com/Adnanskuyy/ShoppingABTest/internal/ui"
)

var eventsCmd = &cobra.Command{
	Use:   "events [run-id|path]",
	Short: "Show recorded analytics events",
	Long: `Show recorded analytics events.

With no argument, lists the recorded runs. With a run id (or a unique prefix
of one) or the path to a .jsonl log, prints that run's events. With --sqlite,
events are read from the database instead of the log files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvents,
}

var eventsJSON bool

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "Output as JSON")
}

type runLog struct {
	ID       string    `json:"id"`
	Path     string    `json:"path"`
	Modified time.Time `json:"modified"`
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	dir, err := paths.ResolveWithDefault(cfg.eventsDir, paths.DefaultEventsDir)
	if err != nil {
		return err
	}
	runs, err := listRunLogs(dir)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return printRunLogs(cmd, runs)
	}

	events, err := loadRunEvents(cmd, cfg, runs, args[0])
	if err != nil {
		return err
	}
	if eventsJSON {
		return encodeJSON(cmd.OutOrStdout(), events)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), formatEventsTable(events))
	return err
}

func loadRunEvents(cmd *cobra.Command, cfg *settings, runs []runLog, arg string) ([]analytics.Event, error) {
	if cfg.sqlitePath != "" {
		runID := arg
		if match, ok := matchRunLog(runs, arg); ok {
			runID = match.ID
		}
		store, err := analytics.OpenSQLite(cfg.sqlitePath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Events(cmd.Context(), runID)
	}

	if strings.HasSuffix(arg, ".jsonl") {
		if _, err := os.Stat(arg); err == nil {
			return analytics.ReadEventFile(arg)
		}
	}
	match, ok := matchRunLog(runs, arg)
	if !ok {
		return nil, fmt.Errorf("no unique run matches %q", arg)
	}
	return analytics.ReadEventFile(match.Path)
}

func listRunLogs(dir string) ([]runLog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read events dir: %w", err)
	}
	runs := make([]runLog, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		runs = append(runs, runLog{
			ID:       strings.TrimSuffix(name, ".jsonl"),
			Path:     filepath.Join(dir, name),
			Modified: info.ModTime(),
		})
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Modified.Equal(runs[j].Modified) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Modified.After(runs[j].Modified)
	})
	return runs, nil
}

func matchRunLog(runs []runLog, prefix string) (runLog, bool) {
	ids := make([]string, len(runs))
	for i, run := range runs {
		ids[i] = run.ID
	}
	id, ok := ui.MatchPrefix(ids, prefix)
	if !ok {
		return runLog{}, false
	}
	for _, run := range runs {
		if run.ID == id {
			return run, true
		}
	}
	return runLog{}, false
}

func printRunLogs(cmd *cobra.Command, runs []runLog) error {
	out := cmd.OutOrStdout()
	if eventsJSON {
		if runs == nil {
			runs = []runLog{}
		}
		return encodeJSON(out, runs)
	}
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, styled(consoleMuted, "No runs recorded"))
		return err
	}

	ids := make([]string, len(runs))
	for i, run := range runs {
		ids[i] = run.ID
	}
	prefixes := ui.UniqueIDPrefixLengths(ids)
	now := time.Now()
	table := ui.NewTableBuilder([]string{"RUN", "MODIFIED"}, len(runs))
	for _, run := range runs {
		table.AddRow(ui.HighlightID(run.ID, ui.PrefixLength(prefixes, run.ID)), ui.FormatTimeAgo(run.Modified, now))
	}
	_, err := fmt.Fprint(out, table.String())
	return err
}

func formatEventsTable(events []analytics.Event) string {
	if len(events) == 0 {
		return styled(consoleMuted, "No events") + "\n"
	}
	start := events[0].Time
	table := ui.NewTableBuilder([]string{"AT", "EVENT", "PARAMS"}, len(events))
	for _, event := range events {
		table.AddRow(ui.FormatOffset(start, event.Time), event.Name, formatParams(event.Params))
	}
	return table.String()
}

func formatParams(params map[string]string) string {
	if len(params) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = key + "=" + params[key]
	}
	return strings.Join(parts, " ")
}
