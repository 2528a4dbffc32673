package handlers

import (
	"encoding/json"
	"net/http"

	"dispatch/internal/domain"
	"dispatch/internal/telegram"
)

// TelegramWebhook handles inbound chat updates. The platform only wants a
// 200 back, so every outcome short of a transport failure acknowledges.
func (a *App) TelegramWebhook(w http.ResponseWriter, r *http.Request) {
	var upd telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		a.Logger.Warn().Err(err).Msg("undecodable chat update, dropping")
		w.WriteHeader(http.StatusOK)
		return
	}
	if upd.Message == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	msg := upd.Message
	chatID := msg.Chat.ID
	locale := msg.Locale()
	cmd, args := telegram.ParseCommand(msg.Text)

	ctx := r.Context()
	switch cmd {
	case "/start":
		a.Notifier.Welcome(ctx, chatID, locale)
	case "/help":
		a.Notifier.Help(ctx, chatID, locale)
	case "/vtuber":
		a.createJob(w, r, chatID, locale, args)
		return
	default:
		// Unknown commands and plain chatter are ignored.
	}
	w.WriteHeader(http.StatusOK)
}

func (a *App) createJob(w http.ResponseWriter, r *http.Request, chatID int64, locale, prompt string) {
	ctx := r.Context()
	if prompt == "" {
		a.Notifier.EmptyPrompt(ctx, chatID, locale)
		w.WriteHeader(http.StatusOK)
		return
	}

	initial := domain.StatusPending
	if a.Config.PaymentEnabled {
		initial = domain.StatusAwaitingPayment
	}
	job, err := a.Store.Create(prompt, chatID, locale, initial)
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to create job")
		w.WriteHeader(http.StatusOK)
		return
	}
	a.Logger.Info().
		Str("job_id", job.ID).
		Int64("chat_id", chatID).
		Str("status", string(job.Status)).
		Msg("job created")

	if a.Config.PaymentEnabled {
		img, err := a.QR.Image(job.ID)
		if err != nil {
			a.Logger.Error().Err(err).Str("job_id", job.ID).Msg("payment qr unavailable")
		}
		a.Notifier.PaymentRequired(ctx, job, a.Config.PaymentPrice, a.Config.PaymentCurrency, img)
	} else {
		a.Notifier.JobQueued(ctx, job)
	}
	w.WriteHeader(http.StatusOK)
}
