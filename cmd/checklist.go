package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/roadmap/internal/output"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist FILE ID",
	Short: "Print the validation checklist of a task",
	Long:  `Prints the items of the task's **Validation:** block, one per line, without the checkbox.`,
	Args:  exactArgs(2), //nolint:mnd // file and id
	RunE:  runChecklist,
}

func init() {
	rootCmd.AddCommand(checklistCmd)
}

func runChecklist(cmd *cobra.Command, args []string) error {
	s, err := loadSection(args[0], args[1])
	if err != nil {
		return err
	}

	items := s.Checklist()
	if outputFormat() == output.FormatJSON {
		if items == nil {
			items = []string{}
		}
		return output.JSON(cmd.OutOrStdout(), map[string]any{"id": s.ID, "checklist": items})
	}
	output.Lines(cmd.OutOrStdout(), items)
	return nil
}
