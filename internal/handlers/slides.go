package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/bracket-wrap/internal/storage"
)

// SlidesHandler serves GET /v1/brackets/{id}/slides.
type SlidesHandler struct {
	log   *slog.Logger
	store storage.Store
}

func NewSlidesHandler(log *slog.Logger, store storage.Store) *SlidesHandler {
	return &SlidesHandler{log: log, store: store}
}

func (h *SlidesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	default:
		writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *SlidesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/brackets/")
	bracketID, rest, ok := strings.Cut(path, "/")
	if !ok || rest != "slides" || bracketID == "" {
		writeError(w, h.log, http.StatusNotFound, "Expected /v1/brackets/{id}/slides")
		return
	}
	if strings.Contains(bracketID, "..") {
		writeError(w, h.log, http.StatusBadRequest, "Invalid bracket ID")
		return
	}

	year, err := yearParam(r)
	if err != nil {
		writeError(w, h.log, http.StatusBadRequest, err.Error())
		return
	}
	groupID := r.URL.Query().Get("group_id")

	data, err := h.store.Slides(r.Context(), bracketID, groupID, year)
	if err != nil {
		writeStoreError(w, h.log, err, "bracket")
		return
	}

	h.log.Debug("Serving slides", "bracket_id", bracketID, "group_id", groupID, "year", year)
	writeJSON(w, h.log, http.StatusOK, data)
}
