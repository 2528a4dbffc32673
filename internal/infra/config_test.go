package infra

import (
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123456:TEST")
	t.Setenv("PAYMENT_ENABLED", "")
	t.Setenv("PORT", "")
}

func TestLoadConfigRequiresBotToken(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BOT_TOKEN", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("LoadConfig must fail without BOT_TOKEN")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.PaymentEnabled {
		t.Fatalf("PaymentEnabled should default to false")
	}
	if cfg.PaymentSignScheme != "md5-sorted" {
		t.Fatalf("PaymentSignScheme = %q", cfg.PaymentSignScheme)
	}
	if cfg.PaymentOrderIDField != "trade_order_id" {
		t.Fatalf("PaymentOrderIDField = %q", cfg.PaymentOrderIDField)
	}
	if cfg.WorkerReclaimAfter != 0 {
		t.Fatalf("WorkerReclaimAfter = %v, want 0 (no reclamation)", cfg.WorkerReclaimAfter)
	}
	if cfg.TelegramBaseURL != "https://api.telegram.org" {
		t.Fatalf("TelegramBaseURL = %q", cfg.TelegramBaseURL)
	}
}

func TestLoadConfigPaymentRequiresCredentials(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PAYMENT_ENABLED", "true")
	t.Setenv("PAYMENT_APP_ID", "2024001")
	t.Setenv("PAYMENT_APP_SECRET", "")
	t.Setenv("PAYMENT_PRICE", "9.90")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("LoadConfig must fail when payment is enabled without a secret")
	}

	t.Setenv("PAYMENT_APP_SECRET", "secret")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if !cfg.PaymentEnabled || cfg.PaymentPrice != "9.90" {
		t.Fatalf("payment config not loaded: %+v", cfg)
	}
}

func TestLoadConfigParsesListsAndDurations(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PAYMENT_SIGN_FIELDS", "appid, trade_order_id ,total_fee")
	t.Setenv("WORKER_RECLAIM_AFTER", "30m")
	t.Setenv("PUBLIC_SERVER_URL", "https://bot.example.com/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	want := []string{"appid", "trade_order_id", "total_fee"}
	if len(cfg.PaymentSignFields) != len(want) {
		t.Fatalf("PaymentSignFields = %#v", cfg.PaymentSignFields)
	}
	for i, f := range want {
		if cfg.PaymentSignFields[i] != f {
			t.Fatalf("PaymentSignFields[%d] = %q, want %q", i, cfg.PaymentSignFields[i], f)
		}
	}
	if cfg.WorkerReclaimAfter != 30*time.Minute {
		t.Fatalf("WorkerReclaimAfter = %v", cfg.WorkerReclaimAfter)
	}
	if cfg.PublicServerURL != "https://bot.example.com" {
		t.Fatalf("PublicServerURL = %q, trailing slash should be trimmed", cfg.PublicServerURL)
	}
}
