package qr

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestImagePrefersStaticAsset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pay.png")
	want := []byte{0x89, 'P', 'N', 'G'}
	if err := os.WriteFile(path, want, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s := NewSource(Options{StaticPath: path, PayPageURL: "https://pay.example.com/qr"})
	got, err := s.Image("job-1")
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("static image bytes mismatch")
	}
}

func TestImageGeneratesFromPayURL(t *testing.T) {
	s := NewSource(Options{PayPageURL: "https://pay.example.com/qr", AppID: "2024001", Amount: "9.90"})
	got, err := s.Image("0f8fad5b-d9cb-469f-a165-70867728950e")
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if len(got) == 0 || !bytes.HasPrefix(got, []byte{0x89, 'P', 'N', 'G'}) {
		t.Fatalf("expected PNG bytes, got %d bytes", len(got))
	}
}

func TestImageWithoutSource(t *testing.T) {
	s := NewSource(Options{})
	got, err := s.Image("job-1")
	if err != nil || got != nil {
		t.Fatalf("no source should yield (nil, nil), got (%v, %v)", got, err)
	}
}

func TestPayURLCarriesJobReference(t *testing.T) {
	s := NewSource(Options{PayPageURL: "https://pay.example.com/qr?lang=zh", AppID: "2024001", Amount: "9.90"})
	u := s.payURL("job-9")
	if !strings.Contains(u, "trade_order_id=job-9") {
		t.Fatalf("pay url missing order id: %s", u)
	}
	if !strings.Contains(u, "&") || strings.Count(u, "?") != 1 {
		t.Fatalf("existing query must be extended, not duplicated: %s", u)
	}
}
