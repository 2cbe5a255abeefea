package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/roadmap/internal/output"
)

const defaultRenderWidth = 100

var showCmd = &cobra.Command{
	Use:   "show FILE ID",
	Short: "Show the full section of a task",
	Long:  `Displays the Markdown section of a single task, rendered when stdout is a terminal.`,
	Args:  exactArgs(2), //nolint:mnd // file and id
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Bool("raw", false, "print the Markdown source without rendering")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := loadSection(args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(out, map[string]any{
			"id":    s.ID,
			"name":  s.Name,
			"start": s.Start() + 1,
			"end":   s.End(),
			"text":  s.Text(),
		})
	}

	raw, _ := cmd.Flags().GetBool("raw")
	if raw || !colorEnabled {
		fmt.Fprintln(out, s.Text())
		return nil
	}

	width := defaultRenderWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	rendered, err := output.RenderMarkdown(s.Text(), width, true)
	if err != nil {
		return err
	}
	fmt.Fprint(out, rendered)
	return nil
}
