package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
	"github.com/twiced-technology-gmbh/roadmap/internal/config"
	"github.com/twiced-technology-gmbh/roadmap/internal/document"
	"github.com/twiced-technology-gmbh/roadmap/internal/output"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
	"github.com/twiced-technology-gmbh/roadmap/internal/schema"
	"github.com/twiced-technology-gmbh/roadmap/internal/watcher"
)

const queueFileMode = 0o644

// queueOrder is a pflag.Value for --order.
type queueOrder string

const (
	orderDocument   queueOrder = "document"
	orderDependency queueOrder = "dependency"
)

func (o *queueOrder) String() string { return string(*o) }

func (o *queueOrder) Set(s string) error {
	switch queueOrder(s) {
	case orderDocument, orderDependency:
		*o = queueOrder(s)
		return nil
	}
	return clierr.Newf(clierr.InvalidInput, "invalid order %q (use document or dependency)", s)
}

func (o *queueOrder) Type() string { return "order" }

var (
	_ pflag.Value = (*queueOrder)(nil)

	flagOrder = orderDocument
)

var queueCmd = &cobra.Command{
	Use:   "queue FILE",
	Short: "Build the task queue",
	Long: `Builds the task queue from every "### Task N.M: Name" section and prints it as JSON.
Sections with a malformed header or a duplicate identifier are skipped with a warning.`,
	Args: exactArgs(1),
	RunE: runQueue,
}

func init() {
	queueCmd.Flags().Var(&flagOrder, "order", "task order: document or dependency")
	queueCmd.Flags().Bool("validate", false, "validate the queue against the JSON schema")
	queueCmd.Flags().StringP("output", "o", "", "write the queue JSON to a file instead of stdout")
	queueCmd.Flags().BoolP("watch", "w", false, "rebuild whenever the roadmap changes")
	rootCmd.AddCommand(queueCmd)
}

// queueRun holds everything needed to (re)build and emit one queue.
type queueRun struct {
	path     string
	cfg      *config.Config
	logger   *log.Logger
	order    queueOrder
	validate bool
	dest     string
	format   output.Format
	stdout   io.Writer
}

func runQueue(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := resolveConfig(path)
	if err != nil {
		return err
	}

	validate, _ := cmd.Flags().GetBool("validate")
	dest, _ := cmd.Flags().GetString("output")
	watch, _ := cmd.Flags().GetBool("watch")

	run := &queueRun{
		path:     path,
		cfg:      cfg,
		logger:   newLogger(cmd.ErrOrStderr()),
		order:    flagOrder,
		validate: validate,
		dest:     dest,
		format:   outputFormat().Or(output.FormatJSON),
		stdout:   cmd.OutOrStdout(),
	}

	if err := run.emit(); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New([]string{path}, func() {
		if err := run.emit(); err != nil {
			run.logger.Error("rebuilding queue", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	defer w.Close()

	run.logger.Info("watching for changes", "file", path)
	w.Run(ctx, func(err error) {
		run.logger.Warn("watcher", "err", err)
	})
	return nil
}

// build reads the roadmap and returns the queue in the requested order.
func (r *queueRun) build() (*roadmap.Queue, error) {
	f, err := document.Read(r.path)
	if err != nil {
		return nil, err
	}
	q, problems := roadmap.BuildQueue(f.Parse(), r.cfg.BuildOptions(r.logger))

	if r.order == orderDependency {
		ordered, err := q.DependencyOrder()
		if err != nil {
			return nil, err
		}
		q = &roadmap.Queue{Tasks: ordered}
	}
	if r.validate {
		if err := schema.Validate(q); err != nil {
			return nil, err
		}
	}
	r.logger.Debug("queue built", "tasks", len(q.Tasks), "skipped", len(problems))
	return q, nil
}

func (r *queueRun) emit() error {
	q, err := r.build()
	if err != nil {
		return err
	}

	if r.dest != "" {
		var buf bytes.Buffer
		if err := output.JSON(&buf, q); err != nil {
			return err
		}
		if err := document.WriteAtomic(r.dest, buf.Bytes(), queueFileMode); err != nil {
			return fmt.Errorf("writing queue: %w", err)
		}
		if r.format == output.FormatJSON {
			return nil
		}
		output.Messagef(r.stdout, "Wrote %d tasks to %s", len(q.Tasks), r.dest)
		return nil
	}

	switch r.format {
	case output.FormatTable:
		output.QueueTable(r.stdout, q.Tasks)
	case output.FormatCompact:
		output.QueueCompact(r.stdout, q.Tasks)
	default:
		return output.JSON(r.stdout, q)
	}
	return nil
}
