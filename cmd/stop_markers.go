package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/roadmap/internal/activity"
	"github.com/twiced-technology-gmbh/roadmap/internal/document"
	"github.com/twiced-technology-gmbh/roadmap/internal/filelock"
	"github.com/twiced-technology-gmbh/roadmap/internal/output"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

var stopMarkersCmd = &cobra.Command{
	Use:   "stop-markers FILE",
	Short: "Insert human review checkpoints after selected tasks",
	Long: `Inserts the configured stop marker after the validation checklist of every task in
stop_markers.tasks. Tasks that already carry the marker are left alone, so running the
command again changes nothing. The file is rewritten in place unless --output is given.`,
	Args: exactArgs(1),
	RunE: runStopMarkers,
}

func init() {
	stopMarkersCmd.Flags().Bool("dry-run", false, "report what would change without writing")
	stopMarkersCmd.Flags().StringP("output", "o", "", "write the result to this file instead of FILE")
	stopMarkersCmd.Flags().StringSlice("task", nil, "tasks to mark, overriding stop_markers.tasks (e.g. 1.1,3.*)")
	stopMarkersCmd.Flags().Int("lookback", 0, "lines to search back for the owning heading (overrides config)")
	rootCmd.AddCommand(stopMarkersCmd)
}

// stopMarkerSummary is the JSON report of a stop-markers run.
type stopMarkerSummary struct {
	File       string              `json:"file"`
	Output     string              `json:"output"`
	DryRun     bool                `json:"dry_run"`
	Changed    bool                `json:"changed"`
	Insertions []roadmap.Insertion `json:"insertions"`
	Skips      []roadmap.Skip      `json:"skips"`
	Before     string              `json:"before"`
	After      string              `json:"after"`
}

func runStopMarkers(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := resolveConfig(path)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr())

	opts, err := cfg.RewriteOptions(logger)
	if err != nil {
		return err
	}
	if tasks, _ := cmd.Flags().GetStringSlice("task"); len(tasks) > 0 {
		if opts.AllowList, err = roadmap.NewAllowList(tasks); err != nil {
			return err
		}
	}
	if n, _ := cmd.Flags().GetInt("lookback"); n > 0 {
		opts.Lookback = n
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	dest, _ := cmd.Flags().GetString("output")
	if dest == "" {
		dest = path
	}

	if !dryRun {
		// Ctrl+C abandons the wait for another writer.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		unlock, err := filelock.LockDocument(ctx, dest)
		stop()
		if err != nil {
			return fmt.Errorf("locking %s: %w", dest, err)
		}
		defer func() { _ = unlock() }()
	}

	f, err := document.Read(path)
	if err != nil {
		return err
	}
	res := roadmap.InsertStopMarkers(f.Text, opts)

	summary := stopMarkerSummary{
		File:       path,
		Output:     dest,
		DryRun:     dryRun,
		Changed:    res.Changed(),
		Insertions: res.Insertions,
		Skips:      res.Skips,
		Before:     f.Digest(),
		After:      document.Digest([]byte(res.Text)),
	}
	if summary.Insertions == nil {
		summary.Insertions = []roadmap.Insertion{}
	}
	if summary.Skips == nil {
		summary.Skips = []roadmap.Skip{}
	}

	action := activity.ActionDryRun
	if !dryRun {
		action = activity.ActionStopMarkers
		// An explicit --output always receives the result, changed or not.
		if res.Changed() || dest != path {
			if err := document.WriteAtomic(dest, []byte(res.Text), f.Mode); err != nil {
				return fmt.Errorf("writing roadmap: %w", err)
			}
		}
	}
	logger.Info("stop markers", "file", path, "result", res.String(), "dry_run", dryRun)

	absDoc, err := filepath.Abs(dest)
	if err != nil {
		absDoc = dest
	}
	activity.Record(cfg.ActivityLogPath(),
		activity.NewEntry(action, absDoc, res.String(), summary.Before, summary.After))

	if outputFormat() == output.FormatJSON {
		return output.JSON(cmd.OutOrStdout(), summary)
	}
	printStopMarkerSummary(cmd.OutOrStdout(), summary)
	return nil
}

func printStopMarkerSummary(w io.Writer, s stopMarkerSummary) {
	verb := "Inserted"
	if s.DryRun {
		verb = "Would insert"
	}
	output.Messagef(w, "%s %d stop marker(s) in %s", verb, len(s.Insertions), s.Output)
	for _, ins := range s.Insertions {
		fmt.Fprintf(w, "  + %s at line %d\n", ins.ID, ins.Line)
	}
	for _, sk := range s.Skips {
		// Most blocks are simply not in the allow-list; only report the unusual ones.
		if sk.Reason == roadmap.SkipNotEligible {
			continue
		}
		label := sk.ID
		if label == "" {
			label = "?"
		}
		fmt.Fprintf(w, "  - %s at line %d: %s\n", label, sk.Line, sk.Reason)
	}
}
