// Package payment decides whether an inbound gateway notification is
// authentic, paid in full, and which job it refers to.
package payment

import (
	"crypto/subtle"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"dispatch/internal/infra"
)

// Outcome classifies a verification. The three cases are deliberately
// distinct: rejection is an authentication failure, ignore is a valid
// notification we take no action on.
type Outcome int

const (
	OutcomeRejected Outcome = iota
	OutcomeIgnored
	OutcomeVerified
)

// Result is the verdict on one notification.
type Result struct {
	Outcome Outcome
	JobID   string
	Reason  string
}

// Options configures the Verifier.
type Options struct {
	Scheme SignatureScheme
	// ExpectedAmount is the exact price as a decimal string, e.g. "9.90".
	ExpectedAmount string
	// SignatureField names the field carrying the signature. Defaults to "hash".
	SignatureField string
	// AmountField names the field carrying the paid amount. Defaults to "total_fee".
	AmountField string
	// OrderIDField names the field carrying the job reference. Some
	// deployments use a dedicated order id, others overload a free-text
	// description the payer fills in. Defaults to "trade_order_id".
	OrderIDField string
	Logger       *infra.Logger
}

// Verifier validates signed payment notifications.
type Verifier struct {
	scheme       SignatureScheme
	expectedFen  int64
	sigField     string
	amountField  string
	orderIDField string
	logger       *infra.Logger
}

// NewVerifier builds a Verifier. The expected amount must parse as a
// non-negative decimal with at most two fraction digits.
func NewVerifier(opts Options) (*Verifier, error) {
	if opts.Scheme == nil {
		return nil, fmt.Errorf("payment: signature scheme is required")
	}
	expected, err := parseAmount(opts.ExpectedAmount)
	if err != nil {
		return nil, fmt.Errorf("payment: expected amount %q: %w", opts.ExpectedAmount, err)
	}
	v := &Verifier{
		scheme:       opts.Scheme,
		expectedFen:  expected,
		sigField:     opts.SignatureField,
		amountField:  opts.AmountField,
		orderIDField: opts.OrderIDField,
		logger:       opts.Logger,
	}
	if v.sigField == "" {
		v.sigField = "hash"
	}
	if v.amountField == "" {
		v.amountField = "total_fee"
	}
	if v.orderIDField == "" {
		v.orderIDField = "trade_order_id"
	}
	return v, nil
}

// Verify checks the signature, the paid amount, and extracts the job
// reference. Signature mismatch is the only rejection; everything else that
// cannot lead to a state change is acknowledged as ignored so the gateway
// stops retrying.
func (v *Verifier) Verify(fields map[string]string) Result {
	received, ok := fields[v.sigField]
	if !ok || received == "" {
		return Result{Outcome: OutcomeRejected, Reason: "missing signature"}
	}

	signable := make(map[string]string, len(fields))
	for k, val := range fields {
		if k == v.sigField {
			continue
		}
		signable[k] = val
	}
	computed := v.scheme.Sign(signable)
	if !signatureEqual(computed, received) {
		if v.logger != nil {
			v.logger.Warn().
				Str("scheme", v.scheme.Name()).
				Str("computed", computed).
				Str("received", received).
				Msg("payment notification signature mismatch")
		}
		return Result{Outcome: OutcomeRejected, Reason: "signature mismatch"}
	}

	paid, err := parseAmount(fields[v.amountField])
	if err != nil {
		return Result{Outcome: OutcomeIgnored, Reason: fmt.Sprintf("unparseable amount %q", fields[v.amountField])}
	}
	if paid != v.expectedFen {
		if v.logger != nil {
			v.logger.Warn().
				Int64("paid_fen", paid).
				Int64("expected_fen", v.expectedFen).
				Msg("payment amount mismatch, notification ignored")
		}
		return Result{Outcome: OutcomeIgnored, Reason: "amount mismatch"}
	}

	jobID := extractJobID(fields[v.orderIDField])
	if jobID == "" {
		return Result{Outcome: OutcomeIgnored, Reason: fmt.Sprintf("no job reference in field %q", v.orderIDField)}
	}
	return Result{Outcome: OutcomeVerified, JobID: jobID}
}

func signatureEqual(computed, received string) bool {
	a := []byte(strings.ToLower(computed))
	b := []byte(strings.ToLower(received))
	return subtle.ConstantTimeCompare(a, b) == 1
}

var jobIDPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// extractJobID pulls a job id out of the designated field. The field may be
// the id itself or user-typed text that merely contains it.
func extractJobID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if _, err := uuid.Parse(raw); err == nil {
		return strings.ToLower(raw)
	}
	if m := jobIDPattern.FindString(raw); m != "" {
		return strings.ToLower(m)
	}
	return ""
}

// parseAmount converts a decimal money string to minor units (fen/cents).
// At most two fraction digits are allowed; anything else is not a valid
// gateway amount.
func parseAmount(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty amount")
	}
	whole, frac, _ := strings.Cut(raw, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	total := n * 100
	if frac != "" {
		if len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q", raw)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || f < 0 {
			return 0, fmt.Errorf("invalid amount %q", raw)
		}
		total += f
	}
	return total, nil
}
