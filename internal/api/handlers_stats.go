package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"workers":     s.cfg.WorkerCount,
		"queue_depth": s.orchestrator.QueueDepth(),
		"jobs":        len(s.orchestrator.ListJobs()),
		"processing":  s.orchestrator.Stats(),
	})
}
