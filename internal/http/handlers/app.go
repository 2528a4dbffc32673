package handlers

import (
	"encoding/json"
	"net/http"

	"dispatch/internal/infra"
	"dispatch/internal/notify"
	"dispatch/internal/payment"
	"dispatch/internal/qr"
	"dispatch/internal/store"
)

const serviceName = "dispatch-center"

// App bundles the handler dependencies. Verifier and QR stay nil when payment
// gating is disabled.
type App struct {
	Config   *infra.Config
	Logger   *infra.Logger
	Store    *store.Store
	Verifier *payment.Verifier
	Notifier *notify.Dispatcher
	QR       *qr.Source
}

// NewApp wires the handler container.
func NewApp(cfg *infra.Config, logger *infra.Logger, jobs *store.Store, verifier *payment.Verifier, notifier *notify.Dispatcher, qrSource *qr.Source) *App {
	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    jobs,
		Verifier: verifier,
		Notifier: notifier,
		QR:       qrSource,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
