package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/bracket-wrap/internal/storage"
	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
)

// maxQueryLen bounds the group search term.
const maxQueryLen = 100

// GroupSearchHandler serves GET /v1/groups/search?q=&year=.
type GroupSearchHandler struct {
	log   *slog.Logger
	store storage.Store
}

func NewGroupSearchHandler(log *slog.Logger, store storage.Store) *GroupSearchHandler {
	return &GroupSearchHandler{log: log, store: store}
}

func (h *GroupSearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, h.log, http.StatusBadRequest, "q is required")
		return
	}
	if len(q) > maxQueryLen {
		writeError(w, h.log, http.StatusBadRequest, "q is too long")
		return
	}
	year, err := yearParam(r)
	if err != nil {
		writeError(w, h.log, http.StatusBadRequest, err.Error())
		return
	}

	groups, err := h.store.SearchGroups(r.Context(), q, year)
	if err != nil {
		writeStoreError(w, h.log, err, "groups")
		return
	}
	if groups == nil {
		groups = []bracket.Group{}
	}
	writeJSON(w, h.log, http.StatusOK, groups)
}

// TeamsHandler serves GET /v1/teams.
type TeamsHandler struct {
	log   *slog.Logger
	store storage.Store
}

func NewTeamsHandler(log *slog.Logger, store storage.Store) *TeamsHandler {
	return &TeamsHandler{log: log, store: store}
}

func (h *TeamsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.log, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	teams, err := h.store.Teams(r.Context())
	if err != nil {
		writeStoreError(w, h.log, err, "teams")
		return
	}
	writeJSON(w, h.log, http.StatusOK, teams)
}
