package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// validCategories mirrors the catalog categories accepted by scan.category.
var validCategories = map[string]bool{
	"":              true,
	"quest":         true,
	"character":     true,
	"political":     true,
	"moral":         true,
	"save_metadata": true,
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if len(c.Titles) == 0 {
		errors = append(errors, ValidationError{
			Field:   "titles",
			Message: "at least one title must be defined",
		})
	}
	names := make(map[string]string, len(c.Titles))
	for _, key := range c.ListTitles() {
		title := c.Titles[key]
		title.Key = key
		errors = append(errors, c.validateTitle(key, &title)...)

		// Results are grouped by display name, so names must be unique.
		name := strings.ToLower(title.DisplayName())
		if other, ok := names[name]; ok {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("titles.%s.name", key),
				Message: fmt.Sprintf("name %q is already used by title %s", title.DisplayName(), other),
			})
			continue
		}
		names[name] = key
	}

	errors = append(errors, c.validateScan()...)

	if c.Store.Enabled {
		errors = append(errors, c.validateStore()...)
	}

	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateTitle(key string, title *TitleConfig) ValidationErrors {
	var errors ValidationErrors
	prefix := fmt.Sprintf("titles.%s", key)

	if title.SavePath == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".save_path",
			Message: "save_path is required",
		})
	}

	if title.Extension != "" && !strings.Contains(title.Extension, "*") {
		errors = append(errors, ValidationError{
			Field:   prefix + ".extension",
			Message: "extension must be a glob such as '*.sav'",
		})
	}

	return errors
}

func (c *Config) validateScan() ValidationErrors {
	var errors ValidationErrors

	if c.Scan.MaxPositions <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scan.max_positions",
			Message: "max_positions must be positive",
		})
	}

	if !validCategories[c.Scan.Category] {
		errors = append(errors, ValidationError{
			Field:   "scan.category",
			Message: "category must be one of quest, character, political, moral, save_metadata",
		})
	}

	return errors
}

func (c *Config) validateStore() ValidationErrors {
	var errors ValidationErrors

	switch c.Store.Driver {
	case "mysql":
		if c.Store.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "store.host",
				Message: "host is required for the mysql driver",
			})
		}
		if c.Store.Port <= 0 || c.Store.Port > 65535 {
			errors = append(errors, ValidationError{
				Field:   "store.port",
				Message: "port must be between 1 and 65535",
			})
		}
		if c.Store.User == "" {
			errors = append(errors, ValidationError{
				Field:   "store.user",
				Message: "user is required for the mysql driver",
			})
		}
		if c.Store.Database == "" {
			errors = append(errors, ValidationError{
				Field:   "store.database",
				Message: "database name is required for the mysql driver",
			})
		}
		validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
		if !validTLS[c.Store.TLS] {
			errors = append(errors, ValidationError{
				Field:   "store.tls",
				Message: "tls must be 'disable', 'preferred', or 'required'",
			})
		}
	case "sqlite":
		if c.Store.Path == "" {
			errors = append(errors, ValidationError{
				Field:   "store.path",
				Message: "path is required for the sqlite driver",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "store.driver",
			Message: "driver must be 'mysql' or 'sqlite'",
		})
	}

	if c.Store.Table == "" {
		errors = append(errors, ValidationError{
			Field:   "store.table",
			Message: "table is required",
		})
	}

	if c.Store.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "store.max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
