package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/witcherai/savescan/internal/config"
	"github.com/witcherai/savescan/internal/logger"
	"github.com/witcherai/savescan/internal/render"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

const defaultConfigFile = "savescan.yaml"

// CLI flags that override config file values
var (
	cfgFile      string
	logLevel     string
	logFormat    string
	maxPositions int
	record       bool
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "savescan",
	Short: "Witcher save file discovery and pattern analysis",
	Long: `A CLI tool that discovers save files of the Witcher games, scans their
bytes for known signatures and classifies what it finds against a decision
taxonomy.

Features:
  - Save discovery per title, newest last
  - Overlap-aware byte signature scanning
  - Decision taxonomy classification with fixed, reproducible scoring
  - Cross-title pattern aggregation
  - Optional recording into a MySQL or SQLite pattern store
  - Read-only HTTP listing and an MCP tool server`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			render.SetColor(false)
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile,
		"Path to configuration file (built-in defaults are used when the default file is absent)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Scan overrides
	rootCmd.PersistentFlags().IntVar(&maxPositions, "max-positions", 0,
		"Override how many offsets are kept per pattern")

	// Store overrides
	rootCmd.PersistentFlags().BoolVar(&record, "record", false,
		"Record discovered patterns in the pattern store")

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable coloured output")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel     string
	LogFormat    string
	MaxPositions int
	Record       bool
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:     logLevel,
		LogFormat:    logFormat,
		MaxPositions: maxPositions,
		Record:       record,
	}
}

// loadConfig reads the config file, falling back to built-in defaults when
// the default file does not exist, then applies CLI overrides and validates.
func loadConfig() (*config.Config, error) {
	configFile := GetConfigFile()

	cfg, err := config.Load(configFile)
	if err != nil {
		if configFile != defaultConfigFile || !isNotExist(configFile) {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg, err = config.LoadDefaults()
		if err != nil {
			return nil, fmt.Errorf("failed to load default config: %w", err)
		}
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat, overrides.MaxPositions, overrides.Record)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup loads configuration and initializes the logger.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

func isNotExist(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}
