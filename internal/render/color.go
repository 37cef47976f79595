package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gookit/color"
)

// Confidence bands used for colouring.
const (
	HighConfidence   = 0.9
	MediumConfidence = 0.8
)

// SetColor turns ANSI colouring on or off for all output.
func SetColor(enabled bool) {
	color.Enable = enabled
}

// ConfidenceColor picks green above 0.9, yellow above 0.8 and red otherwise.
func ConfidenceColor(c float64) color.Color {
	switch {
	case c > HighConfidence:
		return color.Green
	case c > MediumConfidence:
		return color.Yellow
	default:
		return color.Red
	}
}

// Confidence formats c with two decimals in its band colour.
func Confidence(c float64) string {
	return ConfidenceColor(c).Sprint(fmt.Sprintf("%.2f", c))
}

// ConfidenceStyle is a Column.Style for cells holding a confidence value.
func ConfidenceStyle(cell, padded string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return padded
	}
	return ConfidenceColor(v).Sprint(padded)
}

// PotentialStyle is a Column.Style for transfer potential cells.
func PotentialStyle(cell, padded string) string {
	switch cell {
	case "high":
		return color.Green.Sprint(padded)
	case "medium":
		return color.Yellow.Sprint(padded)
	default:
		return padded
	}
}
