package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// ErrUnknownTitle is returned when a title key is not configured.
var ErrUnknownTitle = errors.New("title not configured")

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadDefaults returns the built-in configuration with environment
// references in save paths resolved. Used when no config file exists.
func LoadDefaults() (*Config, error) {
	return LoadFromViper(viper.New())
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	// Titles declared in the file replace the built-in set instead of merging into it.
	if v.IsSet("titles") {
		cfg.Titles = nil
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME}, $VAR_NAME and Windows-style %VAR_NAME% patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)|%([A-Za-z_][A-Za-z0-9_]*)%`)

// substituteEnvVars replaces environment variable references in path and credential fields.
func substituteEnvVars(cfg *Config) {
	for key, title := range cfg.Titles {
		title.SavePath = expandEnvVar(title.SavePath)
		cfg.Titles[key] = title
	}

	cfg.Store.Host = expandEnvVar(cfg.Store.Host)
	cfg.Store.User = expandEnvVar(cfg.Store.User)
	cfg.Store.Password = expandEnvVar(cfg.Store.Password)
	cfg.Store.Database = expandEnvVar(cfg.Store.Database)
	cfg.Store.Path = expandEnvVar(cfg.Store.Path)

	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)
}

// expandEnvVar expands environment variables in the format ${VAR}, $VAR or %VAR%.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		switch {
		case strings.HasPrefix(match, "${"):
			varName = match[2 : len(match)-1]
		case strings.HasPrefix(match, "%"):
			varName = match[1 : len(match)-1]
		default:
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// GetTitle retrieves a title configuration by key (case-insensitive).
func (c *Config) GetTitle(key string) (*TitleConfig, error) {
	normalized := strings.ToLower(key)
	title, exists := c.Titles[normalized]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTitle, key)
	}
	title.Key = normalized
	return &title, nil
}

// ListTitles returns all configured title keys in sorted order.
func (c *Config) ListTitles() []string {
	keys := make([]string, 0, len(c.Titles))
	for key := range c.Titles {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ResolvedTitles returns every configured title with its Key populated,
// ordered by key.
func (c *Config) ResolvedTitles() []TitleConfig {
	keys := c.ListTitles()
	titles := make([]TitleConfig, 0, len(keys))
	for _, key := range keys {
		title := c.Titles[key]
		title.Key = key
		titles = append(titles, title)
	}
	return titles
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat string, maxPositions int, record bool) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if maxPositions > 0 {
		c.Scan.MaxPositions = maxPositions
	}
	if record {
		c.Store.Enabled = true
	}
}
