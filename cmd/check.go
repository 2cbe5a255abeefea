package cmd

import (
	"errors"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
	"github.com/twiced-technology-gmbh/roadmap/internal/document"
	"github.com/twiced-technology-gmbh/roadmap/internal/output"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
	"github.com/twiced-technology-gmbh/roadmap/internal/schema"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Check roadmaps for malformed and duplicate tasks",
	Long: `Builds the queue of every given roadmap and reports each task heading that would be
skipped. Exits with status 1 when any file has a problem.`,
	Args: minArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	results := make([]output.CheckResult, len(args))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range args {
		g.Go(func() error {
			results[i] = checkFile(path)
			return nil
		})
	}
	_ = g.Wait() // checkFile records failures in its result

	out := cmd.OutOrStdout()
	switch outputFormat().Or(output.FormatTable) {
	case output.FormatJSON:
		if err := output.JSON(out, results); err != nil {
			return err
		}
	case output.FormatCompact:
		output.CheckCompact(out, results)
	default:
		output.CheckTable(out, results)
	}

	for _, r := range results {
		if !r.OK {
			return &clierr.SilentError{Code: 1}
		}
	}
	return nil
}

// checkFile builds the queue of one roadmap and collects its problems.
func checkFile(path string) output.CheckResult {
	res := output.CheckResult{File: path, Problems: []output.Problem{}}

	cfg, err := resolveConfig(path)
	if err != nil {
		return failed(res, err)
	}
	f, err := document.Read(path)
	if err != nil {
		return failed(res, err)
	}

	q, problems := roadmap.BuildQueue(f.Parse(), cfg.BuildOptions(nil))
	res.Tasks = len(q.Tasks)
	for _, p := range problems {
		res.Problems = append(res.Problems, output.Problem{
			Line:    p.Line,
			TaskID:  p.ID,
			Code:    p.Err.Code,
			Message: p.Err.Message,
		})
	}

	if _, err := q.DependencyOrder(); err != nil {
		return failed(res, err)
	}
	if err := schema.Validate(q); err != nil {
		return failed(res, err)
	}

	res.OK = len(res.Problems) == 0
	return res
}

func failed(res output.CheckResult, err error) output.CheckResult {
	res.OK = false
	res.Error = err.Error()
	res.Code = clierr.InternalError
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		res.Code = cliErr.Code
	}
	return res
}
