package api

import (
	"encoding/json"
	"net/http"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleListJobs lists the jobs still held in memory, newest first.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	status := pipeline.JobStatus(r.URL.Query().Get("status"))

	jobs := make([]pipeline.JobSnapshot, 0)
	for _, job := range s.orchestrator.ListJobs() {
		snap := job.Snapshot()
		if status != "" && snap.Status != status {
			continue
		}
		jobs = append(jobs, snap)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"jobs": jobs})
}

// handleDeleteJob drops a finished job and its outline from memory. Files
// already written by batch runs are not touched.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	found, err := s.orchestrator.DeleteJob(jobID)
	if !found {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":  jobID,
		"deleted": true,
	})
}
