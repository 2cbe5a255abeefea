package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/roadmap/internal/config"
	"github.com/twiced-technology-gmbh/roadmap/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Create a roadmap configuration",
	Long: `Creates a .roadmap directory in DIR (default: the current directory) holding a config
file with the default priority symbols and stop-marker settings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("format", string(config.FormatYAML), "config file format (yaml or toml)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	name, _ := cmd.Flags().GetString("format")
	format, err := config.ParseFormat(name)
	if err != nil {
		return err
	}

	cfg, err := config.Init(dir, format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(out, map[string]string{
			"status": "initialized",
			"dir":    cfg.Dir(),
			"config": cfg.Path(),
			"format": string(format),
		})
	}

	output.Messagef(out, "Initialized roadmap config in %s", cfg.Dir())
	output.Messagef(out, "  Config:       %s", cfg.Path())
	output.Messagef(out, "  Activity log: %s", cfg.ActivityLogPath())
	return nil
}
