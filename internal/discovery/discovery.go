// Package discovery enumerates save files for a game title on disk.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// screenshotExtension is the sidecar image the games write next to each save.
const screenshotExtension = ".bmp"

// SaveFileRecord describes one save file found during discovery.
// Records are immutable once returned; Path is unique within a result set.
type SaveFileRecord struct {
	Title          string    `json:"title"`
	Path           string    `json:"path"`
	Name           string    `json:"name"`
	SizeBytes      uint64    `json:"size_bytes"`
	ModifiedAt     time.Time `json:"modified_at"`
	ScreenshotPath string    `json:"screenshot_path,omitempty"`
}

// Summary condenses a discovery result for one title.
type Summary struct {
	Title      string          `json:"title"`
	FileCount  int             `json:"file_count"`
	TotalBytes uint64          `json:"total_bytes"`
	Newest     *SaveFileRecord `json:"newest,omitempty"`
	Oldest     *SaveFileRecord `json:"oldest,omitempty"`
}

// Discover lists the files in directory whose names match the glob extension
// (for example "*.sav") and returns them ordered by modification time, oldest
// first. Ties are broken by file name.
//
// A directory that does not exist yields an empty result and no error: a
// missing save folder is an expected condition. Only a malformed glob is
// reported as an error.
func Discover(title, directory, extension string) ([]SaveFileRecord, error) {
	records := []SaveFileRecord{}

	if extension == "" {
		extension = "*"
	}
	if _, err := filepath.Match(extension, ""); err != nil {
		return records, fmt.Errorf("invalid extension filter %q: %w", extension, err)
	}

	info, err := os.Stat(directory)
	if err != nil || !info.IsDir() {
		return records, nil
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		// Unreadable folder is treated like a missing one.
		return records, nil
	}

	for _, entry := range entries {
		matched, _ := filepath.Match(extension, entry.Name())
		if !matched {
			continue
		}

		path := filepath.Join(directory, entry.Name())
		fi, err := os.Stat(path)
		if err != nil {
			// File vanished or became unreadable between listing and stat.
			continue
		}
		if !fi.Mode().IsRegular() {
			continue
		}

		records = append(records, SaveFileRecord{
			Title:          title,
			Path:           path,
			Name:           entry.Name(),
			SizeBytes:      uint64(fi.Size()),
			ModifiedAt:     fi.ModTime(),
			ScreenshotPath: screenshotFor(path),
		})
	}

	// ReadDir returns entries sorted by name, so a stable sort keeps name order on ties.
	slices.SortStableFunc(records, func(a, b SaveFileRecord) int {
		return a.ModifiedAt.Compare(b.ModifiedAt)
	})

	return records, nil
}

// screenshotFor returns the sibling "<stem>.bmp" path when it exists.
func screenshotFor(savePath string) string {
	stem := strings.TrimSuffix(savePath, filepath.Ext(savePath))
	candidate := stem + screenshotExtension
	if fi, err := os.Stat(candidate); err == nil && fi.Mode().IsRegular() {
		return candidate
	}
	return ""
}

// Summarize builds a Summary from records ordered as returned by Discover.
func Summarize(title string, records []SaveFileRecord) Summary {
	summary := Summary{
		Title:     title,
		FileCount: len(records),
	}
	for _, r := range records {
		summary.TotalBytes += r.SizeBytes
	}
	if len(records) > 0 {
		oldest := records[0]
		newest := records[len(records)-1]
		summary.Oldest = &oldest
		summary.Newest = &newest
	}
	return summary
}

// TotalMB returns the summed size in mebibytes.
func (s Summary) TotalMB() float64 {
	return float64(s.TotalBytes) / (1024 * 1024)
}
