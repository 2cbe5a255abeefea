package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/roadmap/internal/clierr"
	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no roadmap config found (run 'roadmap init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Format is the on-disk encoding of a config file.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatTOML:
		return FormatTOML, nil
	}
	return "", clierr.Newf(clierr.InvalidInput, "unknown config format %q (use yaml or toml)", s)
}

// Config represents the roadmap tool configuration.
type Config struct {
	Version              int               `yaml:"version" toml:"version"`
	Priorities           map[string]string `yaml:"priorities" toml:"priorities"`
	FinalSequence        int               `yaml:"final_sequence" toml:"final_sequence"`
	RequirementsLanguage string            `yaml:"requirements_language" toml:"requirements_language"`
	FidelityPhrases      []string          `yaml:"fidelity_phrases" toml:"fidelity_phrases"`
	StopMarkers          StopMarkerConfig  `yaml:"stop_markers" toml:"stop_markers"`
	ActivityLog          *bool             `yaml:"activity_log,omitempty" toml:"activity_log,omitempty"`

	// StopAfter is the v1 allow-list ("Task 1.1" entries). Migrated into
	// StopMarkers.Tasks and never written back.
	StopAfter []string `yaml:"stop_after,omitempty" toml:"stop_after,omitempty"`

	// path is the absolute path of the loaded file (not serialized).
	path string
}

// StopMarkerConfig configures the stop-marker rewriter.
type StopMarkerConfig struct {
	Tasks    []string `yaml:"tasks" toml:"tasks"`
	Lookback int      `yaml:"lookback" toml:"lookback"`
	Block    string   `yaml:"block" toml:"block"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version:              CurrentVersion,
		Priorities:           DefaultPriorities(),
		FinalSequence:        roadmap.DefaultFinalSequence,
		RequirementsLanguage: DefaultRequirementsLanguage,
		FidelityPhrases:      append([]string{}, DefaultFidelityPhrases...),
		StopMarkers: StopMarkerConfig{
			Tasks:    append([]string{}, DefaultStopTasks...),
			Lookback: roadmap.DefaultLookback,
			Block:    DefaultMarkerBlock(),
		},
		ActivityLog: boolPtr(true),
	}
}

// Path returns the absolute path of the config file, or "" for built-in defaults.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the configuration directory, or "" for built-in defaults.
func (c *Config) Dir() string {
	if c.path == "" {
		return ""
	}
	return filepath.Dir(c.path)
}

// Format returns the encoding of the config file, based on its extension.
func (c *Config) Format() Format {
	if strings.EqualFold(filepath.Ext(c.path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// ActivityLogPath returns where rewrite runs are recorded, or "" when the
// log is disabled or there is no configuration directory.
func (c *Config) ActivityLogPath() string {
	if c.Dir() == "" || (c.ActivityLog != nil && !*c.ActivityLog) {
		return ""
	}
	return filepath.Join(c.Dir(), ActivityLogFileName)
}

// PriorityMap converts the configured symbols to a roadmap.PriorityMap.
// Call Validate first; unknown level names map to MEDIUM.
func (c *Config) PriorityMap() roadmap.PriorityMap {
	m := make(roadmap.PriorityMap, len(c.Priorities))
	for sym, level := range c.Priorities {
		p, err := roadmap.ParsePriority(level)
		if err != nil {
			p = roadmap.PriorityMedium
		}
		m[sym] = p
	}
	return m
}

// MarkerLines returns the stop marker block split into lines.
func (c *Config) MarkerLines() []string {
	return strings.Split(strings.Trim(c.StopMarkers.Block, "\n"), "\n")
}

// ExtractOptions returns the field extraction settings.
func (c *Config) ExtractOptions() roadmap.ExtractOptions {
	return roadmap.ExtractOptions{
		Priorities:      c.PriorityMap(),
		FidelityPhrases: c.FidelityPhrases,
	}
}

// BuildOptions returns the queue builder settings.
func (c *Config) BuildOptions(logger *log.Logger) roadmap.BuildOptions {
	return roadmap.BuildOptions{
		Priorities:    c.PriorityMap(),
		FinalSequence: c.FinalSequence,
		Logger:        logger,
	}
}

// RewriteOptions returns the stop-marker rewriter settings.
func (c *Config) RewriteOptions(logger *log.Logger) (roadmap.RewriteOptions, error) {
	allow, err := roadmap.NewAllowList(c.StopMarkers.Tasks)
	if err != nil {
		return roadmap.RewriteOptions{}, err
	}
	return roadmap.RewriteOptions{
		AllowList: allow,
		Marker:    c.MarkerLines(),
		Lookback:  c.StopMarkers.Lookback,
		Logger:    logger,
	}, nil
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if len(c.Priorities) < 1 {
		return fmt.Errorf("%w: at least 1 priority symbol is required", ErrInvalid)
	}
	for sym, level := range c.Priorities {
		if strings.TrimSpace(sym) == "" {
			return fmt.Errorf("%w: priority symbols must not be empty", ErrInvalid)
		}
		if _, err := roadmap.ParsePriority(level); err != nil {
			return fmt.Errorf("%w: priority %q maps to unknown level %q", ErrInvalid, sym, level)
		}
	}
	if c.FinalSequence < 1 {
		return fmt.Errorf("%w: final_sequence must be >= 1", ErrInvalid)
	}
	if strings.TrimSpace(c.RequirementsLanguage) == "" {
		return fmt.Errorf("%w: requirements_language is required", ErrInvalid)
	}
	if slices.Contains(c.FidelityPhrases, "") {
		return fmt.Errorf("%w: fidelity_phrases must not contain empty phrases", ErrInvalid)
	}
	return c.validateStopMarkers()
}

func (c *Config) validateStopMarkers() error {
	if _, err := roadmap.NewAllowList(c.StopMarkers.Tasks); err != nil {
		return fmt.Errorf("%w: stop_markers.tasks: %w", ErrInvalid, err)
	}
	if c.StopMarkers.Lookback < 1 {
		return fmt.Errorf("%w: stop_markers.lookback must be >= 1", ErrInvalid)
	}
	if strings.TrimSpace(c.StopMarkers.Block) == "" {
		return fmt.Errorf("%w: stop_markers.block is required", ErrInvalid)
	}
	return nil
}

// Init creates the configuration directory under dir and writes a default
// config in the given format.
func Init(dir string, format Format) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfgDir := filepath.Join(absDir, DefaultDir)

	for _, name := range []string{ConfigFileName, TOMLFileName} {
		existing := filepath.Join(cfgDir, name)
		if _, err := os.Stat(existing); err == nil {
			return nil, clierr.Newf(clierr.ConfigAlreadyExists, "config already exists at %s", existing).
				WithDetails(map[string]any{"path": existing})
		}
	}

	if err := os.MkdirAll(cfgDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	cfg := NewDefault()
	name := ConfigFileName
	if format == FormatTOML {
		name = TOMLFileName
	}
	cfg.path = filepath.Join(cfgDir, name)

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}

// Encode renders the config in the given format.
func (c *Config) Encode(format Format) ([]byte, error) {
	if format == FormatTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, fmt.Errorf("marshaling config: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// Save writes the config to its file.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("%w: config has no file path", ErrInvalid)
	}
	data, err := c.Encode(c.Format())
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, fileMode)
}

// Load reads and validates the config in a configuration directory,
// preferring config.yml over config.toml.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	for _, name := range []string{ConfigFileName, TOMLFileName} {
		path := filepath.Join(absDir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, ErrNotFound
}

// LoadFile reads, migrates and validates a single config file.
func LoadFile(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := Config{path: absPath}
	if cfg.Format() == FormatTOML {
		if _, err := toml.DecodeFile(absPath, &cfg); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else {
		data, err := os.ReadFile(absPath) //nolint:gosec // config path from trusted source
		if err != nil {
			if os.IsNotExist(err) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}
	cfg.fillDefaults()

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// fillDefaults sets every omitted field to its default.
func (c *Config) fillDefaults() {
	if c.Priorities == nil {
		c.Priorities = DefaultPriorities()
	}
	if c.FinalSequence == 0 {
		c.FinalSequence = roadmap.DefaultFinalSequence
	}
	if c.RequirementsLanguage == "" {
		c.RequirementsLanguage = DefaultRequirementsLanguage
	}
	if c.FidelityPhrases == nil {
		c.FidelityPhrases = append([]string{}, DefaultFidelityPhrases...)
	}
	if c.StopMarkers.Tasks == nil {
		c.StopMarkers.Tasks = append([]string{}, DefaultStopTasks...)
	}
	if c.StopMarkers.Lookback == 0 {
		c.StopMarkers.Lookback = roadmap.DefaultLookback
	}
	if c.StopMarkers.Block == "" {
		c.StopMarkers.Block = DefaultMarkerBlock()
	}
	if c.ActivityLog == nil {
		c.ActivityLog = boolPtr(true)
	}
}

// FindDir walks upward from startDir looking for a configuration directory
// containing config.yml or config.toml. Returns its absolute path.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		if hasConfigFile(filepath.Join(dir, DefaultDir)) {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the configuration directory itself.
		if filepath.Base(dir) == DefaultDir && hasConfigFile(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.ConfigNotFound,
				"no roadmap config found (run 'roadmap init' to create one)")
		}
		dir = parent
	}
}

func hasConfigFile(dir string) bool {
	for _, name := range []string{ConfigFileName, TOMLFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// Resolve returns the effective config for a roadmap document. An explicit
// path (file or configuration directory) must exist. Otherwise the nearest
// configuration directory above startDir is used, falling back to the
// built-in defaults when there is none.
func Resolve(explicit, startDir string) (*Config, error) {
	if explicit != "" {
		info, err := os.Stat(explicit)
		if err != nil {
			return nil, clierr.Newf(clierr.ConfigNotFound, "config %s not found", explicit).
				WithDetails(map[string]any{"path": explicit})
		}
		if info.IsDir() {
			return Load(explicit)
		}
		return LoadFile(explicit)
	}

	dir, err := FindDir(startDir)
	if err != nil {
		if clierr.CodeOf(err) == clierr.ConfigNotFound {
			return NewDefault(), nil
		}
		return nil, err
	}
	return Load(dir)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}
