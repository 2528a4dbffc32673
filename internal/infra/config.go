package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	BotToken        string
	PublicServerURL string
	TelegramBaseURL string

	PaymentEnabled      bool
	PaymentAppID        string
	PaymentAppSecret    string
	PaymentPrice        string
	PaymentCurrency     string
	PaymentSignScheme   string
	PaymentSignFields   []string
	PaymentOrderIDField string
	PaymentPageURL      string
	QRImagePath         string

	WorkerReclaimAfter time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. Missing required keys fail here, at startup, not at
// first request.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		BotToken:            os.Getenv("BOT_TOKEN"),
		PublicServerURL:     strings.TrimRight(os.Getenv("PUBLIC_SERVER_URL"), "/"),
		TelegramBaseURL:     getEnv("TELEGRAM_BASE_URL", "https://api.telegram.org"),
		PaymentEnabled:      getEnvBool("PAYMENT_ENABLED", false),
		PaymentAppID:        os.Getenv("PAYMENT_APP_ID"),
		PaymentAppSecret:    os.Getenv("PAYMENT_APP_SECRET"),
		PaymentPrice:        os.Getenv("PAYMENT_PRICE"),
		PaymentCurrency:     getEnv("PAYMENT_CURRENCY", "CNY"),
		PaymentSignScheme:   getEnv("PAYMENT_SIGN_SCHEME", "md5-sorted"),
		PaymentSignFields:   getEnvList("PAYMENT_SIGN_FIELDS"),
		PaymentOrderIDField: getEnv("PAYMENT_ORDER_ID_FIELD", "trade_order_id"),
		PaymentPageURL:      os.Getenv("PAYMENT_PAGE_URL"),
		QRImagePath:         os.Getenv("QR_IMAGE_PATH"),
		WorkerReclaimAfter:  getEnvDuration("WORKER_RECLAIM_AFTER", 0),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	if cfg.PaymentEnabled {
		if cfg.PaymentAppID == "" {
			return nil, fmt.Errorf("PAYMENT_APP_ID is required when PAYMENT_ENABLED is set")
		}
		if cfg.PaymentAppSecret == "" {
			return nil, fmt.Errorf("PAYMENT_APP_SECRET is required when PAYMENT_ENABLED is set")
		}
		if cfg.PaymentPrice == "" {
			return nil, fmt.Errorf("PAYMENT_PRICE is required when PAYMENT_ENABLED is set")
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
