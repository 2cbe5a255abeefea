package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/roadmap/internal/output"
)

var taskCmd = &cobra.Command{
	Use:   "task FILE ID",
	Short: "Print the fields of one task",
	Long: `Prints the name, file, legacy line range and fidelity flag of a task as
KEY=value lines that a shell script can source. Use --json or --table for other formats.`,
	Args: exactArgs(2), //nolint:mnd // file and id
	RunE: runTask,
}

func init() {
	rootCmd.AddCommand(taskCmd)
}

func runTask(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args[0])
	if err != nil {
		return err
	}
	s, err := loadSection(args[0], args[1])
	if err != nil {
		return err
	}

	d := s.Details(cfg.ExtractOptions())
	switch outputFormat().Or(output.FormatCompact) {
	case output.FormatJSON:
		return output.JSON(cmd.OutOrStdout(), d)
	case output.FormatTable:
		output.DetailTable(cmd.OutOrStdout(), d)
	default:
		output.DetailCompact(cmd.OutOrStdout(), d)
	}
	return nil
}
