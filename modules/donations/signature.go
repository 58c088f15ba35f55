package donations

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Webhook signature headers set by the payment processor. The signature is
// HMAC-SHA256(secret, timestamp + "." + payload), hex-encoded, the same
// scheme Stripe uses.
const (
	SignatureHeader = "X-Webhook-Signature"
	TimestampHeader = "X-Webhook-Timestamp"
)

// DefaultSignatureMaxAge bounds the replay window for webhook deliveries.
const DefaultSignatureMaxAge = 5 * time.Minute

// SignPayload computes the signature for a payload at the given timestamp.
// Exported for tests and for the processor simulator in development.
func SignPayload(secret string, timestamp int64, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.%s", timestamp, payload)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks a webhook delivery: the timestamp must be within
// maxAge (small future skew tolerated), and the signature must match under
// constant-time comparison.
func VerifySignature(secret string, payload []byte, signature string, timestamp int64, maxAge time.Duration) error {
	if signature == "" {
		return ErrInvalidSignature
	}

	age := time.Since(time.Unix(timestamp, 0))
	if age > maxAge {
		return ErrSignatureExpired
	}
	if age < -time.Minute {
		return fmt.Errorf("%w: timestamp in the future", ErrInvalidSignature)
	}

	expected := SignPayload(secret, timestamp, payload)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
