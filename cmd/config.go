package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
	"github.com/twiced-technology-gmbh/roadmap/internal/config"
	"github.com/twiced-technology-gmbh/roadmap/internal/output"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify the roadmap configuration",
	Long: `View the effective configuration, get a specific key, or set a writable value.
Without a .roadmap directory the built-in defaults are shown.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  exactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  exactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the effective configuration as a config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigDump,
}

func init() {
	configDumpCmd.Flags().String("format", "", "yaml or toml (defaults to the format of the loaded file)")
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configDumpCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"path": {
			get: func(c *config.Config) any { return c.Path() },
		},
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"priorities": {
			get: func(c *config.Config) any { return c.Priorities },
		},
		"final_sequence": {
			get: func(c *config.Config) any { return c.FinalSequence },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid final_sequence %q: must be an integer", v)
				}
				c.FinalSequence = n
				return nil // validation handles range check
			},
			writable: true,
		},
		"requirements_language": {
			get:      func(c *config.Config) any { return c.RequirementsLanguage },
			set:      func(c *config.Config, v string) error { c.RequirementsLanguage = v; return nil },
			writable: true,
		},
		"fidelity_phrases": {
			get: func(c *config.Config) any { return c.FidelityPhrases },
			set: func(c *config.Config, v string) error {
				c.FidelityPhrases = splitList(v)
				return nil
			},
			writable: true,
		},
		"stop_markers.tasks": {
			get: func(c *config.Config) any { return c.StopMarkers.Tasks },
			set: func(c *config.Config, v string) error {
				tasks := splitList(v)
				if _, err := roadmap.NewAllowList(tasks); err != nil {
					return err
				}
				c.StopMarkers.Tasks = tasks
				return nil
			},
			writable: true,
		},
		"stop_markers.lookback": {
			get: func(c *config.Config) any { return c.StopMarkers.Lookback },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid stop_markers.lookback %q: must be an integer", v)
				}
				c.StopMarkers.Lookback = n
				return nil
			},
			writable: true,
		},
		"stop_markers.block": {
			get: func(c *config.Config) any { return c.MarkerLines() },
		},
		"activity_log": {
			get: func(c *config.Config) any { return c.ActivityLog == nil || *c.ActivityLog },
			set: func(c *config.Config, v string) error {
				on, err := strconv.ParseBool(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid activity_log %q: must be true or false", v)
				}
				c.ActivityLog = &on
				return nil
			},
			writable: true,
		},
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"path",
		"version",
		"priorities",
		"final_sequence",
		"requirements_language",
		"fidelity_phrases",
		"stop_markers.tasks",
		"stop_markers.lookback",
		"stop_markers.block",
		"activity_log",
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig("")
	if err != nil {
		return err
	}

	accessors := configAccessors()
	out := cmd.OutOrStdout()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(out, m)
	}

	for _, key := range allConfigKeys() {
		fmt.Fprintf(out, "%-22s %v\n", key, formatConfigValue(accessors[key].get(cfg)))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig("")
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)
	if outputFormat() == output.FormatJSON {
		return output.JSON(cmd.OutOrStdout(), val)
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatConfigValue(val))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig("")
	if err != nil {
		return err
	}
	if cfg.Path() == "" {
		return clierr.New(clierr.ConfigNotFound, "no roadmap config found (run 'roadmap init' to create one)")
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	out := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(out, map[string]any{"key": key, "value": acc.get(cfg)})
	}
	output.Messagef(out, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func runConfigDump(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig("")
	if err != nil {
		return err
	}

	format := cfg.Format()
	if name, _ := cmd.Flags().GetString("format"); name != "" {
		if format, err = config.ParseFormat(name); err != nil {
			return err
		}
	}

	data, err := cfg.Encode(format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		if len(v) == 0 {
			return "--"
		}
		return strings.Join(v, ", ")
	case map[string]string:
		if len(v) == 0 {
			return "--"
		}
		parts := make([]string, 0, len(v))
		for k, level := range v {
			parts = append(parts, fmt.Sprintf("%s=%s", k, level))
		}
		sort.Strings(parts)
		return strings.Join(parts, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// splitList splits a comma-separated value, dropping empty entries.
// An empty value yields an empty, non-nil list.
func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
