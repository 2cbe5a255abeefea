package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/roadmap/internal/output"
)

var requirementsCmd = &cobra.Command{
	Use:   "requirements FILE ID",
	Short: "Print the implementation requirements of a task",
	Long: `Prints the bullets of the task's **Implementation:** block followed by the "// "
comments of its first code block in the configured requirements language.`,
	Args: exactArgs(2), //nolint:mnd // file and id
	RunE: runRequirements,
}

func init() {
	requirementsCmd.Flags().String("lang", "", "code block language to scan (defaults to requirements_language)")
	rootCmd.AddCommand(requirementsCmd)
}

func runRequirements(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args[0])
	if err != nil {
		return err
	}
	s, err := loadSection(args[0], args[1])
	if err != nil {
		return err
	}

	lang, _ := cmd.Flags().GetString("lang")
	if lang == "" {
		lang = cfg.RequirementsLanguage
	}

	reqs := s.Requirements(lang)
	if outputFormat() == output.FormatJSON {
		if reqs == nil {
			reqs = []string{}
		}
		return output.JSON(cmd.OutOrStdout(), map[string]any{"id": s.ID, "requirements": reqs})
	}
	output.Lines(cmd.OutOrStdout(), reqs)
	return nil
}
