package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/witcherai/savescan/internal/config"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// selectTitles resolves title keys from args, or every configured title when
// args is empty.
func selectTitles(cfg *config.Config, args []string) ([]config.TitleConfig, error) {
	if len(args) == 0 {
		return cfg.ResolvedTitles(), nil
	}
	titles := make([]config.TitleConfig, 0, len(args))
	for _, key := range args {
		title, err := cfg.GetTitle(key)
		if err != nil {
			return nil, fmt.Errorf("%w (configured: %v)", err, cfg.ListTitles())
		}
		titles = append(titles, *title)
	}
	return titles, nil
}
