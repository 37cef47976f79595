// Package httpapi serves a read-only JSON listing of discovered save files.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/witcherai/savescan/internal/config"
	"github.com/witcherai/savescan/internal/discovery"
	"github.com/witcherai/savescan/internal/logger"
)

// DefaultTitle is listed when /api/saves is called without a title.
const DefaultTitle = "witcher2"

// SaveFile is the wire form of a discovered save.
type SaveFile struct {
	FileName        string  `json:"file_name"`
	ModifiedTime    float64 `json:"modified_time"`
	ModifiedTimeISO string  `json:"modified_time_iso"`
	Size            uint64  `json:"size"`
	FullPath        string  `json:"full_path"`
	ScreenshotPath  string  `json:"screenshot_path,omitempty"`
}

// Title is the wire form of a configured title.
type Title struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	SavePath  string `json:"save_path"`
	Extension string `json:"extension"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Handler routes the API endpoints.
type Handler struct {
	cfg    *config.Config
	logger *logger.Logger
	mux    *http.ServeMux
}

// NewHandler builds the API mux for cfg.
func NewHandler(cfg *config.Config, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	h := &Handler{cfg: cfg, logger: log, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /api/saves", h.listSaves)
	h.mux.HandleFunc("GET /api/titles", h.listTitles)
	h.mux.HandleFunc("GET /healthz", h.health)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) listSaves(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("title")
	if key == "" {
		key = DefaultTitle
	}

	title, err := h.cfg.GetTitle(key)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrUnknownTitle) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorBody{Error: err.Error()})
		return
	}

	records, err := discovery.Discover(title.DisplayName(), title.SavePath, title.EffectiveExtension())
	if err != nil {
		h.logger.WithTitle(title.DisplayName()).Warnf("Discovery failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}

	saves := make([]SaveFile, len(records))
	for i, rec := range records {
		saves[i] = toSaveFile(rec)
	}
	writeJSON(w, http.StatusOK, saves)
}

func (h *Handler) listTitles(w http.ResponseWriter, _ *http.Request) {
	resolved := h.cfg.ResolvedTitles()
	titles := make([]Title, len(resolved))
	for i, t := range resolved {
		titles[i] = Title{
			Key:       t.Key,
			Name:      t.DisplayName(),
			SavePath:  t.SavePath,
			Extension: t.EffectiveExtension(),
		}
	}
	writeJSON(w, http.StatusOK, titles)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toSaveFile(rec discovery.SaveFileRecord) SaveFile {
	return SaveFile{
		FileName:        rec.Name,
		ModifiedTime:    float64(rec.ModifiedAt.UnixNano()) / float64(time.Second),
		ModifiedTimeISO: rec.ModifiedAt.UTC().Format(time.RFC3339),
		Size:            rec.SizeBytes,
		FullPath:        rec.Path,
		ScreenshotPath:  rec.ScreenshotPath,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
