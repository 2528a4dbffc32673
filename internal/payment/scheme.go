package payment

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// SignatureScheme computes the gateway signature over notification fields.
// The gateway's contract changed between deployments, so the scheme is
// selected by configuration rather than branched inline.
type SignatureScheme interface {
	Name() string
	Sign(fields map[string]string) string
}

// Scheme names accepted by NewScheme.
const (
	SchemeMD5Sorted       = "md5-sorted"
	SchemeSHA256Sorted    = "sha256-sorted"
	SchemeHMACSHA256Fixed = "hmac-sha256-fixed"
)

// NewScheme builds the configured scheme. fieldOrder is only consulted by the
// fixed-order scheme and must be non-empty there.
func NewScheme(name, secret string, fieldOrder []string) (SignatureScheme, error) {
	switch name {
	case SchemeMD5Sorted:
		return &sortedParamsScheme{name: name, secret: secret, sum: md5Hex}, nil
	case SchemeSHA256Sorted:
		return &sortedParamsScheme{name: name, secret: secret, sum: sha256Hex}, nil
	case SchemeHMACSHA256Fixed:
		if len(fieldOrder) == 0 {
			return nil, fmt.Errorf("scheme %s requires a field order", name)
		}
		return &fixedOrderScheme{name: name, secret: secret, order: fieldOrder}, nil
	}
	return nil, fmt.Errorf("unknown signature scheme %q", name)
}

// sortedParamsScheme joins key=value pairs in lexicographic key order with
// "&", appends the shared secret, and hashes. Empty-valued fields are not
// signed, matching the gateway's canonicalization.
type sortedParamsScheme struct {
	name   string
	secret string
	sum    func([]byte) string
}

func (s *sortedParamsScheme) Name() string { return s.name }

func (s *sortedParamsScheme) Sign(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}
	canonical := strings.Join(pairs, "&") + s.secret
	return s.sum([]byte(canonical))
}

// fixedOrderScheme MACs the field values in a pinned order, missing fields
// contributing an empty value.
type fixedOrderScheme struct {
	name   string
	secret string
	order  []string
}

func (s *fixedOrderScheme) Name() string { return s.name }

func (s *fixedOrderScheme) Sign(fields map[string]string) string {
	values := make([]string, 0, len(s.order))
	for _, k := range s.order {
		values = append(values, fields[k])
	}
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(strings.Join(values, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

func md5Hex(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
