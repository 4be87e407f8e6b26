package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status          string `json:"status"`
	Version         string `json:"version"`
	ActiveSessions  int    `json:"active_sessions"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
}

// handleHealth serves GET /health per spec §6.
func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := a.Sessions.SessionCount(r.Context())
	if err != nil {
		a.Logger.Warnf("api: session count unavailable: %v", err)
		count = 0
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "ok",
		Version:        a.Version,
		ActiveSessions: count,
		UptimeSeconds:  int64(time.Since(a.StartedAt).Seconds()),
	})
}
