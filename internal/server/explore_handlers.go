package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aguli-tv/aguli-admin/internal/explore"
	"github.com/aguli-tv/aguli-admin/logging"
)

const (
	defaultLogLines = 100
	maxLogLines     = 1000
)

func (s *Server) handleExploreList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status, err := explore.ParseStatusFilter(q.Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page := 1
	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "page must be a number")
			return
		}
	}

	posts, err := s.backend.ListExplore(r.Context())
	if err != nil {
		s.writeBackendError(w, r, "explore", err)
		return
	}
	writeData(w, http.StatusOK, explore.Filter(posts, explore.Query{
		Search: strings.TrimSpace(q.Get("q")),
		Status: status,
		Page:   page,
	}))
}

func (s *Server) handleExploreDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.DeleteExplore(r.Context(), r.PathValue("id")); err != nil {
		s.writeBackendError(w, r, "explore", err)
		return
	}
	writeMessage(w, http.StatusOK, "explore post deleted")
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if s.logPath == "" {
		writeError(w, http.StatusNotFound, "log file not configured")
		return
	}
	n := defaultLogLines
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "n must be a positive number")
			return
		}
		n = min(parsed, maxLogLines)
	}
	entries, err := logging.ReadRecent(s.logPath, n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, entries)
}
