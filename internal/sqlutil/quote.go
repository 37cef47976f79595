// Package sqlutil provides identifier quoting for the pattern store.
package sqlutil

import (
	"regexp"
	"strings"
)

// Dialect selects identifier quoting rules.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite"
)

// QuoteIdentifier quotes a MySQL identifier with backticks, doubling any
// embedded backticks.
// Example: "pattern_game_mapping" -> "`pattern_game_mapping`"
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteIdentifierFor quotes name for the given dialect. SQLite uses double
// quotes; anything else is treated as MySQL.
func QuoteIdentifierFor(d Dialect, name string) string {
	if d == SQLite {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return QuoteIdentifier(name)
}

// Identifiers are restricted to alphanumerics and underscore.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier checks if a name is safe to use as a table or column name.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// QuoteIdentifierSafe validates name and quotes it for the given dialect.
// Table names come from configuration, so they are never trusted as-is.
func QuoteIdentifierSafe(d Dialect, name string) (string, error) {
	if !IsValidIdentifier(name) {
		return "", &InvalidIdentifierError{Name: name}
	}
	return QuoteIdentifierFor(d, name), nil
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}
