package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/roadmap/internal/output"
	"github.com/twiced-technology-gmbh/roadmap/internal/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [QUEUE.json]",
	Short: "Print the queue JSON schema, or validate a queue file against it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		_, err := out.Write(schema.Source())
		return err
	}

	data, err := os.ReadFile(args[0]) //nolint:gosec // queue path from the command line
	if err != nil {
		return fmt.Errorf("reading queue: %w", err)
	}
	if err := schema.ValidateJSON(data); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(out, map[string]any{"file": args[0], "ok": true})
	}
	output.Messagef(out, "%s: ok", args[0])
	return nil
}
