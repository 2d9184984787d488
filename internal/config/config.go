// Package config provides configuration management for skillhub.
// It supports a YAML configuration file, environment variables, and
// sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/klauern/skillhub/internal/model"
	"github.com/klauern/skillhub/internal/util"
)

// Config represents the complete skillhub configuration.
type Config struct {
	// Hub locates the canonical skill repository.
	Hub HubConfig `yaml:"hub"`

	// Sync configures projection behavior.
	Sync SyncConfig `yaml:"sync"`

	// Tools holds per-tool overrides keyed by tool identifier. Entries for
	// unknown identifiers define custom tools.
	Tools map[string]ToolConfig `yaml:"tools,omitempty"`

	// Output configures display preferences.
	Output OutputConfig `yaml:"output"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log"`

	// Watch configures the drift watcher.
	Watch WatchConfig `yaml:"watch"`
}

// HubConfig holds hub settings.
type HubConfig struct {
	// Root is the hub root directory. Supports ~ and environment variables.
	Root string `yaml:"root"`
}

// SyncConfig holds projection settings.
type SyncConfig struct {
	// DefaultStrategy is used for tools without their own strategy.
	DefaultStrategy string `yaml:"default_strategy"`
	// PersistState keeps sync state in <hub>/sync-state.toml between runs.
	PersistState bool `yaml:"persist_state"`
	// CollectRecords writes an install record for every collected skill.
	CollectRecords bool `yaml:"collect_records"`
}

// ToolConfig holds configuration for a single tool.
type ToolConfig struct {
	// Enabled disables the tool when explicitly false.
	Enabled *bool `yaml:"enabled,omitempty"`
	// Strategy overrides the default strategy for this tool.
	Strategy string `yaml:"strategy,omitempty"`
	// SkillsPaths replaces the tool's skills directories. The first entry
	// is the primary directory written by sync.
	SkillsPaths []string `yaml:"skills_paths,omitempty"`
}

// IsEnabled reports whether the tool is enabled. Unset means enabled.
func (tc ToolConfig) IsEnabled() bool {
	return tc.Enabled == nil || *tc.Enabled
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default output format (table, json)
	Format string `yaml:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// JSON switches log output to JSON.
	JSON bool `yaml:"json"`
}

// WatchConfig holds drift watcher settings.
type WatchConfig struct {
	// Debounce is the quiet period before a drift check runs.
	Debounce time.Duration `yaml:"debounce"`
	// Repair re-projects drifted skills automatically.
	Repair bool `yaml:"repair"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Hub: HubConfig{
			Root: filepath.Join(util.SkillhubHome(), "store"),
		},
		Sync: SyncConfig{
			DefaultStrategy: string(model.StrategyAuto),
			PersistState:    true,
			CollectRecords:  false,
		},
		Tools: map[string]ToolConfig{},
		Output: OutputConfig{
			Format: "table",
			Color:  "auto",
		},
		Log: LogConfig{
			Level: "warn",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// stateFileName is the name of the persisted sync state file.
const stateFileName = "sync-state.toml"

// FilePath returns the path to the config file.
func FilePath() string {
	return util.ConfigPath()
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}

// Load loads the configuration from the default file, merging with
// defaults. A missing file yields the defaults.
func Load() (*Config, error) {
	cfg, err := LoadFromPath(FilePath())
	if err != nil && os.IsNotExist(err) {
		cfg = Default()
		cfg.applyEnvironment()
		return cfg, nil
	}
	return cfg, err
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.normalizeTools(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg.applyEnvironment()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	if _, err := model.ParseStrategy(c.Sync.DefaultStrategy); err != nil {
		return fmt.Errorf("sync.default_strategy: %w", err)
	}
	for id, tc := range c.Tools {
		if _, err := model.ParseTool(id); err != nil {
			return fmt.Errorf("tools: %w", err)
		}
		if tc.Strategy == "" {
			continue
		}
		if _, err := model.ParseStrategy(tc.Strategy); err != nil {
			return fmt.Errorf("tools.%s.strategy: %w", id, err)
		}
	}
	switch c.Output.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("output.color: unknown value %q", c.Output.Color)
	}
	switch c.Output.Format {
	case "", "table", "json":
	default:
		return fmt.Errorf("output.format: unknown value %q", c.Output.Format)
	}
	return nil
}

// normalizeTools rekeys tool entries by canonical id, so aliases such as
// "claude-code" land on "claude".
func (c *Config) normalizeTools() error {
	tools := make(map[string]ToolConfig, len(c.Tools))
	for id, tc := range c.Tools {
		tool, err := model.ParseTool(id)
		if err != nil {
			return fmt.Errorf("tools: %w", err)
		}
		tools[tool.String()] = tc
	}
	c.Tools = tools
	return nil
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern SKILLHUB_<SECTION>_<KEY>;
// per-tool settings use SKILLHUB_<TOOL>_<KEY>.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("SKILLHUB_HUB_ROOT"); v != "" {
		c.Hub.Root = v
	}

	if v := os.Getenv("SKILLHUB_SYNC_STRATEGY"); v != "" {
		c.Sync.DefaultStrategy = v
	}
	if v := os.Getenv("SKILLHUB_SYNC_PERSIST_STATE"); v != "" {
		c.Sync.PersistState = parseBool(v)
	}
	if v := os.Getenv("SKILLHUB_SYNC_COLLECT_RECORDS"); v != "" {
		c.Sync.CollectRecords = parseBool(v)
	}

	if v := os.Getenv("SKILLHUB_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("SKILLHUB_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}

	if v := os.Getenv("SKILLHUB_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SKILLHUB_LOG_JSON"); v != "" {
		c.Log.JSON = parseBool(v)
	}

	if v := os.Getenv("SKILLHUB_WATCH_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Watch.Debounce = d
		}
	}

	if c.Tools == nil {
		c.Tools = map[string]ToolConfig{}
	}
	for _, id := range c.envToolIDs() {
		prefix := toolEnvPrefix(id)
		tc, changed := c.Tools[id], false
		if v := os.Getenv(prefix + "_SKILLS_PATHS"); v != "" {
			tc.SkillsPaths = splitPaths(v)
			changed = true
		}
		if v := os.Getenv(prefix + "_STRATEGY"); v != "" {
			tc.Strategy = v
			changed = true
		}
		if v := os.Getenv(prefix + "_ENABLED"); v != "" {
			enabled := parseBool(v)
			tc.Enabled = &enabled
			changed = true
		}
		if changed {
			c.Tools[id] = tc
		}
	}
}

// envToolIDs returns built-in tool ids plus any configured custom ids.
func (c *Config) envToolIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, t := range model.BuiltinTools() {
		seen[t.String()] = true
		ids = append(ids, t.String())
	}
	for id := range c.Tools {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// toolEnvPrefix maps a tool id to its environment prefix,
// e.g. "claude" -> "SKILLHUB_CLAUDE".
func toolEnvPrefix(id string) string {
	return "SKILLHUB_" + strings.ToUpper(strings.ReplaceAll(id, "-", "_"))
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitPaths splits a colon-separated path string into individual paths.
// Empty segments are filtered out.
func splitPaths(s string) []string {
	parts := strings.Split(s, ":")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// HubRoot returns the expanded hub root directory.
func (c *Config) HubRoot() string {
	return util.ExpandPath(c.Hub.Root, "")
}

// StatePath returns the sync state file location.
func (c *Config) StatePath() string {
	return filepath.Join(c.HubRoot(), stateFileName)
}

// DefaultStrategy returns the configured default strategy, falling back to
// auto when the value is invalid.
func (c *Config) DefaultStrategy() model.Strategy {
	s, err := model.ParseStrategy(c.Sync.DefaultStrategy)
	if err != nil {
		return model.StrategyAuto
	}
	return s
}

// Tool returns the configuration for a tool, or the zero value.
func (c *Config) Tool(tool model.Tool) ToolConfig {
	return c.Tools[tool.String()]
}

// StrategyFor returns the effective strategy for a tool: its own override
// when valid, otherwise the default.
func (c *Config) StrategyFor(tool model.Tool) model.Strategy {
	if tc, ok := c.Tools[tool.String()]; ok && tc.Strategy != "" {
		if s, err := model.ParseStrategy(tc.Strategy); err == nil {
			return s
		}
	}
	return c.DefaultStrategy()
}

// ExpandedSkillsPaths returns the configured paths expanded against baseDir.
func (tc ToolConfig) ExpandedSkillsPaths(baseDir string) []string {
	return util.ExpandPaths(tc.SkillsPaths, baseDir)
}
