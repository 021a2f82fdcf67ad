package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jwebster45206/bracket-wrap/internal/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// writeStoreError maps storage.ErrNotFound to 404 and anything else to 500.
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, err error, what string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, logger, http.StatusNotFound, what+" not found")
		return
	}
	logger.Error("Failed to load "+what, "error", err)
	writeError(w, logger, http.StatusInternalServerError, "Failed to retrieve "+what)
}

// yearParam parses the optional year query parameter. Zero means any year.
func yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 0 {
		return 0, errors.New("year must be a positive integer")
	}
	return year, nil
}
