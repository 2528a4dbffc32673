package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"dispatch/internal/domain"
)

func postNotification(t *testing.T, app *App, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	req := httptest.NewRequest("POST", "/api/payment-notify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	app.PaymentNotify(rr, req)
	return rr
}

func decodeResult(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestPaymentNotifyUnlocksJobOnceAndAcknowledgesDuplicates(t *testing.T) {
	app, sender := newTestApp(t, true)

	job, err := app.Store.Create("a girl with cat ears", 500, "en", domain.StatusAwaitingPayment)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	notification := signNotification(t, map[string]string{
		"appid":          "2024001",
		"trade_order_id": job.ID,
		"total_fee":      "9.90",
	})

	rr := postNotification(t, app, notification)
	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if decodeResult(t, rr)["result"] != "success" {
		t.Fatalf("body = %s", rr.Body.String())
	}
	got, _ := app.Store.Get(job.ID)
	if got.Status != domain.StatusPending {
		t.Fatalf("status after payment = %s, want PENDING", got.Status)
	}
	if sender.count() != 1 {
		t.Fatalf("expected one payment-received message, got %d", sender.count())
	}

	// Identical redelivery: acknowledged, no state change, no second message.
	rr = postNotification(t, app, notification)
	if rr.Code != 200 || decodeResult(t, rr)["result"] != "success" {
		t.Fatalf("duplicate not acknowledged: %d %s", rr.Code, rr.Body.String())
	}
	got, _ = app.Store.Get(job.ID)
	if got.Status != domain.StatusPending {
		t.Fatalf("status after duplicate = %s, want PENDING", got.Status)
	}
	if sender.count() != 1 {
		t.Fatalf("duplicate must not notify again, got %d messages", sender.count())
	}
}

func TestPaymentNotifyRejectsBadSignature(t *testing.T) {
	app, sender := newTestApp(t, true)

	job, _ := app.Store.Create("prompt", 500, "en", domain.StatusAwaitingPayment)
	notification := signNotification(t, map[string]string{
		"trade_order_id": job.ID,
		"total_fee":      "9.90",
	})
	notification["hash"] = "deadbeef" + notification["hash"][8:]

	rr := postNotification(t, app, notification)
	if rr.Code != 400 {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	got, _ := app.Store.Get(job.ID)
	if got.Status != domain.StatusAwaitingPayment {
		t.Fatalf("rejected notification mutated status to %s", got.Status)
	}
	if sender.count() != 0 {
		t.Fatalf("rejected notification must not notify")
	}
}

func TestPaymentNotifyIgnoresTamperedAmount(t *testing.T) {
	app, sender := newTestApp(t, true)

	job, _ := app.Store.Create("prompt", 500, "en", domain.StatusAwaitingPayment)
	// Half the expected price, but correctly signed.
	notification := signNotification(t, map[string]string{
		"trade_order_id": job.ID,
		"total_fee":      "4.95",
	})

	rr := postNotification(t, app, notification)
	if rr.Code != 200 || decodeResult(t, rr)["result"] != "success" {
		t.Fatalf("underpayment must still be acknowledged: %d %s", rr.Code, rr.Body.String())
	}
	got, _ := app.Store.Get(job.ID)
	if got.Status != domain.StatusAwaitingPayment {
		t.Fatalf("underpaid job status = %s, want AWAITING_PAYMENT", got.Status)
	}
	if sender.count() != 0 {
		t.Fatalf("ignored notification must not notify")
	}
}

func TestPaymentNotifyAcknowledgesUnknownJob(t *testing.T) {
	app, _ := newTestApp(t, true)

	notification := signNotification(t, map[string]string{
		"trade_order_id": "0f8fad5b-d9cb-469f-a165-70867728950e",
		"total_fee":      "9.90",
	})
	rr := postNotification(t, app, notification)
	if rr.Code != 200 || decodeResult(t, rr)["result"] != "success" {
		t.Fatalf("unknown job must be acknowledged: %d %s", rr.Code, rr.Body.String())
	}
}

func TestPaymentNotifyAcceptsJSONBody(t *testing.T) {
	app, _ := newTestApp(t, true)

	job, _ := app.Store.Create("prompt", 500, "en", domain.StatusAwaitingPayment)
	notification := signNotification(t, map[string]string{
		"trade_order_id": job.ID,
		"total_fee":      "9.90",
	})
	body, _ := json.Marshal(notification)

	req := httptest.NewRequest("POST", "/api/payment-notify", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	app.PaymentNotify(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	got, _ := app.Store.Get(job.ID)
	if got.Status != domain.StatusPending {
		t.Fatalf("status = %s, want PENDING", got.Status)
	}
}
