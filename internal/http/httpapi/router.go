package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"dispatch/internal/http/handlers"
	"dispatch/internal/middleware"
)

// NewRouter assembles the five inbound surfaces. The payment route is only
// mounted when gating is enabled.
func NewRouter(app *handlers.App) stdhttp.Handler {
	r := chi.NewRouter()
	webhookPath := "/" + app.Config.BotToken
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(*app.Logger, webhookPath))

	// Health
	r.Get("/", app.Health)

	// Chat platform pushes updates to a token-secret path, as the bot API expects.
	r.Post(webhookPath, app.TelegramWebhook)

	r.Route("/api", func(r chi.Router) {
		if app.Config.PaymentEnabled {
			r.Post("/payment-notify", app.PaymentNotify)
		}
		r.Get("/get-task", app.GetTask)
		r.Post("/update-task", app.UpdateTask)
	})

	return r
}
