package handlers

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"dispatch/internal/infra"
	"dispatch/internal/notify"
	"dispatch/internal/payment"
	"dispatch/internal/qr"
	"dispatch/internal/store"
)

const testSecret = "partner-secret"

type recordingSender struct {
	mu       sync.Mutex
	messages []string
	chats    []int64
	photos   int
}

func (r *recordingSender) SendMessage(_ context.Context, chatID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats = append(r.chats, chatID)
	r.messages = append(r.messages, text)
	return nil
}

func (r *recordingSender) SendPhoto(_ context.Context, chatID int64, _ []byte, caption string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats = append(r.chats, chatID)
	r.messages = append(r.messages, caption)
	r.photos++
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

func newTestApp(t *testing.T, paymentEnabled bool) (*App, *recordingSender) {
	t.Helper()

	discard := zerolog.New(io.Discard)
	logger := infra.Logger(discard)

	cfg := &infra.Config{
		AppEnv:          "test",
		BotToken:        "TESTTOKEN",
		PaymentEnabled:  paymentEnabled,
		PaymentPrice:    "9.90",
		PaymentCurrency: "CNY",
	}

	var verifier *payment.Verifier
	if paymentEnabled {
		scheme, err := payment.NewScheme(payment.SchemeMD5Sorted, testSecret, nil)
		if err != nil {
			t.Fatalf("NewScheme: %v", err)
		}
		verifier, err = payment.NewVerifier(payment.Options{
			Scheme:         scheme,
			ExpectedAmount: cfg.PaymentPrice,
			Logger:         &logger,
		})
		if err != nil {
			t.Fatalf("NewVerifier: %v", err)
		}
	}

	sender := &recordingSender{}
	app := NewApp(cfg, &logger, store.New(), verifier, notify.NewDispatcher(sender, &logger), qr.NewSource(qr.Options{}))
	return app, sender
}

func signNotification(t *testing.T, fields map[string]string) map[string]string {
	t.Helper()
	scheme, err := payment.NewScheme(payment.SchemeMD5Sorted, testSecret, nil)
	if err != nil {
		t.Fatalf("NewScheme: %v", err)
	}
	signed := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		signed[k] = v
	}
	signed["hash"] = scheme.Sign(fields)
	return signed
}
