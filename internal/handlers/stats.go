package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/bracket-wrap/internal/storage"
)

// StatsReader is the read side of storage.StatsStore.
type StatsReader interface {
	Stats(ctx context.Context, bracketID string) (*storage.Stats, error)
}

// StatsHandler serves GET /v1/stats/{bracketID}.
type StatsHandler struct {
	log   *slog.Logger
	stats StatsReader
}

func NewStatsHandler(log *slog.Logger, stats StatsReader) *StatsHandler {
	return &StatsHandler{log: log, stats: stats}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	bracketID := strings.TrimPrefix(r.URL.Path, "/v1/stats/")
	if bracketID == "" || strings.Contains(bracketID, "/") {
		writeError(w, h.log, http.StatusNotFound, "Expected /v1/stats/{bracketID}")
		return
	}

	stats, err := h.stats.Stats(r.Context(), bracketID)
	if err != nil {
		writeStoreError(w, h.log, err, "stats")
		return
	}
	writeJSON(w, h.log, http.StatusOK, stats)
}
