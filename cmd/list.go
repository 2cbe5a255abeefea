package cmd

import (
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/roadmap/internal/board"
	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
	"github.com/twiced-technology-gmbh/roadmap/internal/output"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

var listCmd = &cobra.Command{
	Use:     "list FILE",
	Aliases: []string{"ls"},
	Short:   "List queued tasks",
	Long: `Lists the task queue as a table, or compact lines with --compact.

Filters combine with AND. --unblocked keeps only tasks whose dependencies are all
listed in --done (dependencies that are not in the queue never block).`,
	Args: exactArgs(1),
	RunE: runList,
}

func init() {
	f := listCmd.Flags()
	f.Var(&flagOrder, "order", "task order: document or dependency")
	f.StringSlice("stage", nil, "only tasks in these stages")
	f.StringSlice("priority", nil, "only tasks with these priorities (critical, high, medium)")
	f.String("file", "", "only tasks touching this file")
	f.String("search", "", "case-insensitive search across id, name and file")
	f.String("depends-on", "", "only tasks that directly depend on this task")
	f.String("sort", "", "sort by field ("+strings.Join(board.ValidSortFields(), ", ")+")")
	f.BoolP("reverse", "r", false, "reverse the sort order")
	f.IntP("limit", "n", 0, "show at most this many tasks")
	f.Bool("unblocked", false, "only tasks whose dependencies are done")
	f.String("done", "", "comma-separated completed task ids for --unblocked")
	f.String("group-by", "", "group tasks by field ("+strings.Join(board.ValidGroupByFields(), ", ")+")")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args[0])
	if err != nil {
		return err
	}

	opts, err := listOptions(cmd)
	if err != nil {
		return err
	}
	groupBy, _ := cmd.Flags().GetString("group-by")
	if groupBy != "" && !slices.Contains(board.ValidGroupByFields(), groupBy) {
		return clierr.Newf(clierr.InvalidInput, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(board.ValidGroupByFields(), ", "))
	}

	run := &queueRun{
		path:   args[0],
		cfg:    cfg,
		logger: newLogger(cmd.ErrOrStderr()),
		order:  flagOrder,
	}
	q, err := run.build()
	if err != nil {
		return err
	}

	tasks, err := board.List(q.Tasks, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	format := outputFormat().Or(output.FormatTable)

	if groupBy != "" {
		grouped := board.GroupBy(tasks, groupBy)
		if format == output.FormatJSON {
			return output.JSON(out, grouped)
		}
		output.GroupedTable(out, grouped)
		return nil
	}

	switch format {
	case output.FormatJSON:
		return output.JSON(out, &roadmap.Queue{Tasks: tasks})
	case output.FormatCompact:
		output.QueueCompact(out, tasks)
	default:
		output.QueueTable(out, tasks)
	}
	return nil
}

func listOptions(cmd *cobra.Command) (board.ListOptions, error) {
	f := cmd.Flags()
	var opts board.ListOptions

	stages, _ := f.GetStringSlice("stage")
	for _, s := range stages {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 0 {
			return opts, clierr.Newf(clierr.InvalidInput, "invalid --stage %q: must be a non-negative integer", s)
		}
		opts.Filter.Stages = append(opts.Filter.Stages, n)
	}

	priorities, _ := f.GetStringSlice("priority")
	for _, p := range priorities {
		level, err := roadmap.ParsePriority(p)
		if err != nil {
			return opts, err
		}
		opts.Filter.Priorities = append(opts.Filter.Priorities, level)
	}

	opts.Filter.File, _ = f.GetString("file")
	opts.Filter.Search, _ = f.GetString("search")
	if dep, _ := f.GetString("depends-on"); dep != "" {
		id, err := roadmap.ParseTaskID(dep)
		if err != nil {
			return opts, err
		}
		opts.Filter.DependsOn = &id
	}

	opts.SortBy, _ = f.GetString("sort")
	opts.Reverse, _ = f.GetBool("reverse")
	opts.Limit, _ = f.GetInt("limit")
	opts.Unblocked, _ = f.GetBool("unblocked")

	if done, _ := f.GetString("done"); done != "" {
		ids, err := board.ParseIDs(done)
		if err != nil {
			return opts, err
		}
		opts.Done = make(map[roadmap.TaskID]bool, len(ids))
		for _, id := range ids {
			opts.Done[id] = true
		}
	}
	return opts, nil
}
