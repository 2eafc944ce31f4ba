package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Guliveer/twitch-chat-go/internal/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	accounts := s.accountList()
	names := make([]string, 0, len(accounts))
	for _, a := range accounts {
		names = append(names, a.Username())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"accounts":       names,
		"stream_clients": s.hub.size(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats := overallStats{Accounts: make(map[string]map[model.Kind]int64)}

	for _, a := range s.accountList() {
		counts := a.Bus().Counts()
		stats.Accounts[a.Username()] = counts
		for _, n := range counts {
			stats.TotalEvents += n
		}
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleChannels(w http.ResponseWriter, _ *http.Request) {
	result := make(map[string][]string)
	for _, a := range s.accountList() {
		result[a.Username()] = a.JoinedChannels()
	}
	writeJSON(w, http.StatusOK, result)
}

type overallStats struct {
	TotalEvents int64                           `json:"total_events"`
	Accounts    map[string]map[model.Kind]int64 `json:"accounts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v) //nolint:errcheck
}
