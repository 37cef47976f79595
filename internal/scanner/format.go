package scanner

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/witcherai/savescan/internal/catalog"
)

var (
	dzipMagic = []byte("DZIP")
	riffMagic = []byte("RIFF")
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
)

// DetectFormat names the container format from the leading magic bytes.
func DetectFormat(data []byte) string {
	switch {
	case bytes.HasPrefix(data, dzipMagic):
		var version uint32
		if len(data) >= 8 {
			version = binary.LittleEndian.Uint32(data[4:8])
		}
		return fmt.Sprintf("DZIP v%d", version)
	case bytes.HasPrefix(data, riffMagic):
		return "RIFF format"
	case bytes.HasPrefix(data, pngMagic):
		return "PNG (possibly screenshot)"
	default:
		return "Unknown/Custom format"
	}
}

// SystemMatch lists which markers of a signature group were present.
type SystemMatch struct {
	System  string   `json:"system"`
	Markers []string `json:"markers"`
}

// String renders the match as "system: a, b".
func (m SystemMatch) String() string {
	return m.System + ": " + strings.Join(m.Markers, ", ")
}

// SignatureSystems reports the signature groups with at least one marker
// present in data, in group order.
func SignatureSystems(data []byte, groups []catalog.SignatureGroup) []SystemMatch {
	var out []SystemMatch
	for _, g := range groups {
		var found []string
		for _, marker := range g.Markers {
			if bytes.Contains(data, marker) {
				found = append(found, markerLabel(marker))
			}
		}
		if len(found) > 0 {
			out = append(out, SystemMatch{System: g.Name, Markers: found})
		}
	}
	return out
}

// markerLabel prints ASCII markers as text and anything else as hex.
func markerLabel(marker []byte) string {
	for _, b := range marker {
		if b < 32 || b >= 127 {
			return "0x" + hex.EncodeToString(marker)
		}
	}
	return string(marker)
}

// HexDump renders up to length bytes as 16-byte rows of
// "offset: hex |ascii|".
func HexDump(data []byte, length int) string {
	if length > len(data) {
		length = len(data)
	}

	var b strings.Builder
	for i := 0; i < length; i += 16 {
		end := min(i+16, length)
		chunk := data[i:end]

		hexParts := make([]string, len(chunk))
		ascii := make([]byte, len(chunk))
		for j, c := range chunk {
			hexParts[j] = fmt.Sprintf("%02x", c)
			if c >= 32 && c < 127 {
				ascii[j] = c
			} else {
				ascii[j] = '.'
			}
		}
		fmt.Fprintf(&b, "%08x: %-48s |%s|\n", i, strings.Join(hexParts, " "), ascii)
	}
	return b.String()
}
