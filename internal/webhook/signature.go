// Package webhook verifies and decodes provider callbacks: Cloudflare Stream
// and Mux asset notifications, and Deepgram transcription results.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signature header names.
const (
	CloudflareSignatureHeader = "Webhook-Signature"
	MuxSignatureHeader        = "Mux-Signature"
	DeepgramTokenHeader       = "dg-token"
)

// DefaultTolerance bounds the age of a signed timestamp.
const DefaultTolerance = 5 * time.Minute

// Verification errors.
var (
	ErrMissingSignature = errors.New("webhook: missing signature")
	ErrMalformedHeader  = errors.New("webhook: malformed signature header")
	ErrInvalidSignature = errors.New("webhook: signature mismatch")
	ErrStaleTimestamp   = errors.New("webhook: timestamp outside tolerance")
	ErrNotConfigured    = errors.New("webhook: secret not configured")
)

// Verifier checks HMAC-SHA256 signatures of the form "<unix>.<body>".
type Verifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewVerifier creates a verifier. A zero tolerance uses DefaultTolerance.
func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Verifier{secret: []byte(secret), tolerance: tolerance, now: time.Now}
}

// Configured reports whether a secret is set.
func (v *Verifier) Configured() bool { return len(v.secret) > 0 }

// VerifyCloudflare checks a "time=<unix>,sig1=<hex>" header.
func (v *Verifier) VerifyCloudflare(header string, body []byte) error {
	return v.verify(header, body, "time", "sig1")
}

// VerifyMux checks a "t=<unix>,v1=<hex>" header.
func (v *Verifier) VerifyMux(header string, body []byte) error {
	return v.verify(header, body, "t", "v1")
}

func (v *Verifier) verify(header string, body []byte, tsKey, sigKey string) error {
	if len(v.secret) == 0 {
		return ErrNotConfigured
	}
	if strings.TrimSpace(header) == "" {
		return ErrMissingSignature
	}

	ts, sigs, err := parseHeader(header, tsKey, sigKey)
	if err != nil {
		return err
	}

	age := v.now().Sub(time.Unix(ts, 0))
	if age > v.tolerance || age < -v.tolerance {
		return fmt.Errorf("%w: %s", ErrStaleTimestamp, age.Round(time.Second))
	}

	expected := Sign(v.secret, ts, body)
	for _, sig := range sigs {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// Sign returns HMAC-SHA256(secret, "<ts>.<body>").
func Sign(secret []byte, ts int64, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte{'.'})
	mac.Write(body)
	return mac.Sum(nil)
}

// SignatureHeader formats a header value the way the provider sends it.
// Used by tests and local tooling.
func SignatureHeader(tsKey, sigKey string, secret []byte, ts int64, body []byte) string {
	return fmt.Sprintf("%s=%d,%s=%s", tsKey, ts, sigKey, hex.EncodeToString(Sign(secret, ts, body)))
}

// parseHeader splits "k=v,k=v" pairs. Several signatures may be present
// during secret rotation.
func parseHeader(header, tsKey, sigKey string) (int64, [][]byte, error) {
	var (
		ts    int64
		hasTS bool
		sigs  [][]byte
	)
	for part := range strings.SplitSeq(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return 0, nil, ErrMalformedHeader
		}
		switch k {
		case tsKey:
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: bad timestamp", ErrMalformedHeader)
			}
			ts, hasTS = n, true
		case sigKey:
			sig, err := hex.DecodeString(val)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: bad signature encoding", ErrMalformedHeader)
			}
			sigs = append(sigs, sig)
		}
	}
	if !hasTS || len(sigs) == 0 {
		return 0, nil, ErrMalformedHeader
	}
	return ts, sigs, nil
}

// VerifyToken compares a shared-secret header in constant time.
func VerifyToken(expected, got string) error {
	if expected == "" {
		return ErrNotConfigured
	}
	if got == "" {
		return ErrMissingSignature
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}
