package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/roadmap/internal/output"
)

var lineRefsCmd = &cobra.Command{
	Use:   "line-refs FILE ID",
	Short: "Print the legacy line range of a task",
	Long: `Prints the first "lines N-M" reference of the task as "N M". When the task has
more than one reference the others are listed on stderr, or all of them on stdout with --all.`,
	Args: exactArgs(2), //nolint:mnd // file and id
	RunE: runLineRefs,
}

func init() {
	lineRefsCmd.Flags().Bool("all", false, "print every reference, one per line")
	rootCmd.AddCommand(lineRefsCmd)
}

func runLineRefs(cmd *cobra.Command, args []string) error {
	s, err := loadSection(args[0], args[1])
	if err != nil {
		return err
	}
	primary, err := s.PrimaryLineRef()
	if err != nil {
		return err
	}
	refs := s.LineRefs()
	all, _ := cmd.Flags().GetBool("all")

	out := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(out, map[string]any{"id": s.ID, "primary": primary, "refs": refs})
	}

	if all {
		for _, r := range refs {
			fmt.Fprintf(out, "%d %d\n", r.Start, r.End)
		}
		return nil
	}

	fmt.Fprintf(out, "%d %d\n", primary.Start, primary.End)
	if len(refs) > 1 {
		errOut := cmd.ErrOrStderr()
		fmt.Fprintf(errOut, "Note: found %d line references, using the first.\n", len(refs))
		for i, r := range refs {
			fmt.Fprintf(errOut, "  %d. lines %d-%d\n", i+1, r.Start, r.End)
		}
	}
	return nil
}
