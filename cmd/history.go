package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/roadmap/internal/activity"
	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
	"github.com/twiced-technology-gmbh/roadmap/internal/output"
)

const defaultHistoryLimit = 20

var historyCmd = &cobra.Command{
	Use:     "history [FILE]",
	Aliases: []string{"log"},
	Short:   "Show recorded stop-marker runs",
	Long: `Lists the newest entries of the activity log kept in the .roadmap directory.
With FILE, only runs that wrote that document are shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", defaultHistoryLimit, "show at most this many entries (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	var doc string
	if len(args) > 0 {
		doc = args[0]
	}
	cfg, err := resolveConfig(doc)
	if err != nil {
		return err
	}
	path := cfg.ActivityLogPath()
	if path == "" {
		return clierr.New(clierr.ConfigNotFound, "no activity log (run 'roadmap init' to enable one)")
	}

	entries, err := activity.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if doc != "" {
		abs, absErr := filepath.Abs(doc)
		if absErr != nil {
			abs = doc
		}
		kept := entries[:0]
		for _, e := range entries {
			if e.Document == abs {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	if entries == nil {
		entries = []activity.Entry{}
	}

	out := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No activity recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %-20s %s  %s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Action, e.Document, e.Detail)
	}
	return nil
}
