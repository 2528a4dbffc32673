package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"dispatch/internal/domain"
	"dispatch/internal/payment"
)

// PaymentNotify handles signed gateway callbacks. The gateway retries until
// it sees a success body, so every verified-but-actionless outcome still
// acknowledges.
func (a *App) PaymentNotify(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeNotification(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "malformed notification")
		return
	}

	res := a.Verifier.Verify(fields)
	switch res.Outcome {
	case payment.OutcomeRejected:
		a.error(w, http.StatusBadRequest, "auth_failed", res.Reason)
		return
	case payment.OutcomeIgnored:
		a.Logger.Info().Str("reason", res.Reason).Msg("payment notification ignored")
		a.ackPayment(w)
		return
	}

	job, err := a.Store.Transition(res.JobID, domain.StatusPending)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.Logger.Warn().Str("job_id", res.JobID).Msg("payment for unknown job, acknowledged")
		a.ackPayment(w)
		return
	case errors.Is(err, domain.ErrInvalidTransition):
		// Duplicate or late delivery: the job already left AWAITING_PAYMENT.
		a.Logger.Info().Str("job_id", res.JobID).Msg("duplicate payment notification, acknowledged")
		a.ackPayment(w)
		return
	case err != nil:
		a.error(w, http.StatusInternalServerError, "internal", "failed to apply payment")
		return
	}

	a.Logger.Info().Str("job_id", job.ID).Msg("payment verified, job queued")
	a.Notifier.PaymentReceived(r.Context(), job)
	a.ackPayment(w)
}

func (a *App) ackPayment(w http.ResponseWriter) {
	a.json(w, http.StatusOK, map[string]string{"result": "success"})
}

// decodeNotification flattens the callback body into a field map. The gateway
// posted form-encoded bodies historically and JSON after its contract change,
// so both are accepted.
func decodeNotification(r *http.Request) (map[string]string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json notification: %w", err)
		}
		fields := make(map[string]string, len(raw))
		for k, v := range raw {
			switch val := v.(type) {
			case string:
				fields[k] = val
			case float64:
				fields[k] = trimFloat(val)
			case bool:
				fields[k] = fmt.Sprintf("%t", val)
			case nil:
				fields[k] = ""
			default:
				return nil, fmt.Errorf("field %q has unsupported type", k)
			}
		}
		return fields, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form notification: %w", err)
	}
	fields := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		fields[k] = r.PostForm.Get(k)
	}
	return fields, nil
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
