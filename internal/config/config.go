// Package config provides configuration structures and loading for savescan.
package config

// Config represents the complete application configuration.
type Config struct {
	Titles  map[string]TitleConfig `yaml:"titles" mapstructure:"titles"`
	Scan    ScanConfig             `yaml:"scan" mapstructure:"scan"`
	Store   StoreConfig            `yaml:"store" mapstructure:"store"`
	HTTP    HTTPConfig             `yaml:"http" mapstructure:"http"`
	Logging LoggingConfig          `yaml:"logging" mapstructure:"logging"`
}

// TitleConfig describes where the saves of one game title live.
type TitleConfig struct {
	Key       string `yaml:"-" mapstructure:"-"`                 // map key, filled by GetTitle/ResolvedTitles
	Name      string `yaml:"name" mapstructure:"name"`           // display name, e.g. "Witcher 2"
	SavePath  string `yaml:"save_path" mapstructure:"save_path"` // directory holding the saves
	Extension string `yaml:"extension" mapstructure:"extension"` // glob filter, e.g. "*.sav"
}

// ScanConfig represents pattern scanning settings.
type ScanConfig struct {
	MaxPositions int    `yaml:"max_positions" mapstructure:"max_positions"` // positions kept per pattern
	AllFiles     bool   `yaml:"all_files" mapstructure:"all_files"`         // scan every save, not only the newest
	Category     string `yaml:"category" mapstructure:"category"`           // restrict to one catalog category
}

// StoreConfig represents the optional pattern store.
type StoreConfig struct {
	Enabled            bool   `yaml:"enabled" mapstructure:"enabled"`
	Driver             string `yaml:"driver" mapstructure:"driver"` // mysql or sqlite
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	Path               string `yaml:"path" mapstructure:"path"` // sqlite database file
	Table              string `yaml:"table" mapstructure:"table"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// HTTPConfig represents the read-only HTTP listing endpoint.
type HTTPConfig struct {
	Listen string `yaml:"listen" mapstructure:"listen"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultMaxPositions is the number of match offsets kept per pattern.
const DefaultMaxPositions = 5

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Titles: map[string]TitleConfig{
			"witcher1": {
				Name:      "Witcher 1",
				SavePath:  `%USERPROFILE%\Documents\The Witcher\saves`,
				Extension: "*.TheWitcherSave",
			},
			"witcher2": {
				Name:      "Witcher 2",
				SavePath:  `%USERPROFILE%\Documents\Witcher 2\gamesaves`,
				Extension: "*.sav",
			},
			"witcher3": {
				Name:      "Witcher 3",
				SavePath:  `%USERPROFILE%\Documents\The Witcher 3\gamesaves`,
				Extension: "*.sav",
			},
		},
		Scan: ScanConfig{
			MaxPositions: DefaultMaxPositions,
			AllFiles:     false,
		},
		Store: StoreConfig{
			Enabled:            false,
			Driver:             "sqlite",
			Port:               3306,
			Path:               "database/witcher_save_manager.db",
			Table:              "pattern_game_mapping",
			TLS:                "preferred",
			MaxConnections:     4,
			MaxIdleConnections: 2,
		},
		HTTP: HTTPConfig{
			Listen: "127.0.0.1:8000",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// DisplayName returns the configured name, falling back to the key.
func (t TitleConfig) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Key
}

// EffectiveExtension returns the glob filter, defaulting to "*.sav".
func (t TitleConfig) EffectiveExtension() string {
	if t.Extension == "" {
		return "*.sav"
	}
	return t.Extension
}
