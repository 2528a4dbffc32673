package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dispatch/internal/http/handlers"
	"dispatch/internal/http/httpapi"
	"dispatch/internal/infra"
	"dispatch/internal/notify"
	"dispatch/internal/payment"
	"dispatch/internal/qr"
	"dispatch/internal/store"
	"dispatch/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	bot, err := telegram.NewClient(telegram.Options{
		Token:   cfg.BotToken,
		BaseURL: cfg.TelegramBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build telegram client")
	}

	jobs := store.New()
	notifier := notify.NewDispatcher(bot, &logger)

	var verifier *payment.Verifier
	var qrSource *qr.Source
	if cfg.PaymentEnabled {
		scheme, err := payment.NewScheme(cfg.PaymentSignScheme, cfg.PaymentAppSecret, cfg.PaymentSignFields)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid payment signature scheme")
		}
		verifier, err = payment.NewVerifier(payment.Options{
			Scheme:         scheme,
			ExpectedAmount: cfg.PaymentPrice,
			OrderIDField:   cfg.PaymentOrderIDField,
			Logger:         &logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid payment configuration")
		}
		qrSource = qr.NewSource(qr.Options{
			StaticPath: cfg.QRImagePath,
			PayPageURL: cfg.PaymentPageURL,
			AppID:      cfg.PaymentAppID,
			Amount:     cfg.PaymentPrice,
		})
	}

	app := handlers.NewApp(cfg, &logger, jobs, verifier, notifier, qrSource)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registerWebhook(ctx, bot, cfg, logger)

	if cfg.WorkerReclaimAfter > 0 {
		go reclaimLoop(ctx, jobs, cfg.WorkerReclaimAfter, logger)
	} else {
		logger.Warn().Msg("WORKER_RECLAIM_AFTER unset; a dead worker leaves its job RUNNING forever")
	}

	go func() {
		logger.Info().Msgf("dispatch center listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// registerWebhook points the chat platform at this deployment. A failure is
// logged but not fatal so the API can still be exercised directly.
func registerWebhook(ctx context.Context, bot *telegram.Client, cfg *infra.Config, logger infra.Logger) {
	if cfg.PublicServerURL == "" {
		logger.Warn().Msg("PUBLIC_SERVER_URL not set; skipping webhook registration")
		return
	}
	hookURL := cfg.PublicServerURL + "/" + cfg.BotToken
	if err := bot.SetWebhook(ctx, hookURL); err != nil {
		logger.Error().Err(err).Msg("failed to register telegram webhook")
		return
	}
	logger.Info().Msg("telegram webhook registered")
}

func reclaimLoop(ctx context.Context, jobs *store.Store, after time.Duration, logger infra.Logger) {
	ticker := time.NewTicker(after / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range jobs.ReclaimStuck(after) {
				logger.Warn().Str("job_id", id).Msg("requeued job stuck in RUNNING")
			}
		}
	}
}
