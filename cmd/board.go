package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/roadmap/internal/board"
	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
	"github.com/twiced-technology-gmbh/roadmap/internal/config"
	"github.com/twiced-technology-gmbh/roadmap/internal/document"
	"github.com/twiced-technology-gmbh/roadmap/internal/output"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
	"github.com/twiced-technology-gmbh/roadmap/internal/watcher"
)

var boardCmd = &cobra.Command{
	Use:     "board FILE",
	Aliases: []string{"summary"},
	Short:   "Show a roadmap summary",
	Long: `Displays a summary of the roadmap: task counts per stage and priority, the number
of skipped sections, and the tasks that are ready to start.

Use --watch to keep the display live-updating. The summary re-renders whenever the
roadmap or its config changes on disk. Press Ctrl+C to stop.`,
	Args: exactArgs(1),
	RunE: runBoard,
}

func init() {
	boardCmd.Flags().BoolP("watch", "w", false, "live-update the summary on file changes")
	boardCmd.Flags().String("group-by", "", "group tasks by field ("+strings.Join(board.ValidGroupByFields(), ", ")+")")
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := resolveConfig(path)
	if err != nil {
		return err
	}

	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" && !slices.Contains(board.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidInput, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(board.ValidGroupByFields(), ", "))
	}

	out := cmd.OutOrStdout()
	if err := renderBoard(out, path, cfg, groupBy); err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); !watch {
		return nil
	}
	return watchBoard(cmd, path, cfg, groupBy)
}

func renderBoard(w io.Writer, path string, cfg *config.Config, groupBy string) error {
	f, err := document.Read(path)
	if err != nil {
		return err
	}
	// Only the problem count is shown; `roadmap check` lists them.
	q, problems := roadmap.BuildQueue(f.Parse(), cfg.BuildOptions(nil))

	format := outputFormat()
	if groupBy != "" {
		grouped := board.GroupBy(q.Tasks, groupBy)
		if format == output.FormatJSON {
			return output.JSON(w, grouped)
		}
		output.GroupedTable(w, grouped)
		return nil
	}

	summary := board.Summary(path, q, len(problems))
	switch format {
	case output.FormatJSON:
		return output.JSON(w, summary)
	case output.FormatCompact:
		output.OverviewCompact(w, summary)
	default:
		output.OverviewTable(w, summary)
	}
	return nil
}

func watchBoard(cmd *cobra.Command, path string, cfg *config.Config, groupBy string) error {
	watchPaths := []string{path}
	if cfg.Path() != "" {
		watchPaths = append(watchPaths, cfg.Path())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	w, err := watcher.New(watchPaths, func() {
		clearScreen(out)
		// Re-resolve config in case priorities or phrases changed.
		fresh, loadErr := resolveConfig(path)
		if loadErr != nil {
			fmt.Fprintf(errOut, "Warning: reloading config: %v\n", loadErr)
			fresh = cfg
		}
		if renderErr := renderBoard(out, path, fresh, groupBy); renderErr != nil {
			fmt.Fprintf(errOut, "Warning: rendering summary: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(errOut, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(errOut, "Warning: file watcher: %v\n", watchErr)
	})
	return nil
}

// clearScreen clears the terminal and moves the cursor to the top-left corner.
func clearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[2J\033[H")
}
