// Package qr provides the payment QR image, either a static operator-supplied
// asset or one generated per job from the gateway pay page URL.
package qr

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Options selects the QR source. StaticPath wins when both are set.
type Options struct {
	StaticPath string
	PayPageURL string
	AppID      string
	Amount     string
}

// Source resolves the QR image shown alongside payment instructions.
type Source struct {
	staticPath string
	payPageURL string
	appID      string
	amount     string
}

// NewSource builds a Source; a zero-config source yields no image.
func NewSource(opts Options) *Source {
	return &Source{
		staticPath: strings.TrimSpace(opts.StaticPath),
		payPageURL: strings.TrimSpace(opts.PayPageURL),
		appID:      opts.AppID,
		amount:     opts.Amount,
	}
}

// Image returns PNG bytes for the job's payment QR, or nil when no source is
// configured.
func (s *Source) Image(jobID string) ([]byte, error) {
	if s.staticPath != "" {
		data, err := os.ReadFile(s.staticPath)
		if err != nil {
			return nil, fmt.Errorf("qr: read static image: %w", err)
		}
		return data, nil
	}
	if s.payPageURL == "" {
		return nil, nil
	}
	data, err := qrcode.Encode(s.payURL(jobID), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr: encode pay url: %w", err)
	}
	return data, nil
}

func (s *Source) payURL(jobID string) string {
	q := url.Values{}
	if s.appID != "" {
		q.Set("appid", s.appID)
	}
	if s.amount != "" {
		q.Set("total_fee", s.amount)
	}
	q.Set("trade_order_id", jobID)
	sep := "?"
	if strings.Contains(s.payPageURL, "?") {
		sep = "&"
	}
	return s.payPageURL + sep + q.Encode()
}
