package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"dispatch/internal/domain"
)

type taskResponse struct {
	JobID  *string `json:"job_id"`
	Prompt *string `json:"prompt"`
	ChatID *int64  `json:"chat_id"`
}

// GetTask hands the oldest pending job to a polling worker. No job means the
// all-null sentinel, returned immediately; the worker owns its own backoff.
func (a *App) GetTask(w http.ResponseWriter, r *http.Request) {
	job, ok := a.Store.ClaimNextPending()
	if !ok {
		a.json(w, http.StatusOK, taskResponse{})
		return
	}
	a.Logger.Info().Str("job_id", job.ID).Msg("job claimed by worker")
	a.json(w, http.StatusOK, taskResponse{JobID: &job.ID, Prompt: &job.Prompt, ChatID: &job.ChatID})
}

type taskUpdateRequest struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	ResultURL string `json:"result_url"`
}

// UpdateTask records a worker's terminal report and notifies the originator.
func (a *App) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil || !status.Terminal() {
		a.error(w, http.StatusBadRequest, "bad_request", "status must be COMPLETED or FAILED")
		return
	}

	job, err := a.Store.Transition(req.JobID, status)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "job not found")
		return
	case errors.Is(err, domain.ErrInvalidTransition):
		a.error(w, http.StatusConflict, "conflict", err.Error())
		return
	case err != nil:
		a.error(w, http.StatusInternalServerError, "internal", "failed to update job")
		return
	}

	a.Logger.Info().
		Str("job_id", job.ID).
		Str("status", string(job.Status)).
		Msg("job reached terminal state")

	if job.Status == domain.StatusCompleted {
		a.Notifier.JobCompleted(r.Context(), job, req.ResultURL)
	} else {
		a.Notifier.JobFailed(r.Context(), job)
	}
	a.json(w, http.StatusOK, map[string]string{"message": "task status updated"})
}
