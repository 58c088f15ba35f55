package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Header values fixed by this service. HS256 only; tokens claiming any
// other algorithm are rejected to prevent algorithm confusion.
const (
	headerType      = "JWT"
	headerAlgorithm = "HS256"
)

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// Claims carries the registered claims plus the platform fields stamped
// into member session tokens. TenantID is empty for platform staff whose
// accounts are not affiliated with any tenant.
type Claims struct {
	Subject   string `json:"sub,omitempty"`
	Issuer    string `json:"iss,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`

	TenantID string `json:"tid,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Valid checks the temporal claims. Zero values are treated as unset.
func (c Claims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return ErrExpiredToken
	}
	return nil
}

// Service signs and verifies tokens with HMAC-SHA256. The signing key is
// held in memory only and should be at least 32 bytes.
type Service struct {
	signingKey []byte
}

// New creates a Service with the given signing key.
func New(signingKey []byte) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	return &Service{signingKey: signingKey}, nil
}

// Generate signs the claims and returns a compact JWT string.
func (s *Service) Generate(claims any) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}

	headerJSON, err := json.Marshal(header{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", fmt.Errorf("marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	payload := b64Encode(headerJSON) + "." + b64Encode(claimsJSON)
	return payload + "." + s.sign(payload), nil
}

// Parse verifies the token signature and algorithm and unmarshals the
// claims into the provided structure. If the claims type implements
// Valid() error, temporal validation runs as well.
func (s *Service) Parse(token string, claims any) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	payload := parts[0] + "." + parts[1]
	expected := s.sign(payload)
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(expected)) != 1 {
		return ErrInvalidSignature
	}

	headerJSON, err := b64Decode(parts[0])
	if err != nil {
		return fmt.Errorf("decode header: %w", err)
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return fmt.Errorf("unmarshal header: %w", err)
	}
	if h.Algorithm != headerAlgorithm {
		return ErrUnexpectedSigningMethod
	}

	claimsJSON, err := b64Decode(parts[1])
	if err != nil {
		return fmt.Errorf("decode claims: %w", err)
	}
	if err := json.Unmarshal(claimsJSON, claims); err != nil {
		return fmt.Errorf("unmarshal claims: %w", err)
	}

	if v, ok := claims.(interface{ Valid() error }); ok {
		return v.Valid()
	}
	return nil
}

func (s *Service) sign(payload string) string {
	h := hmac.New(sha256.New, s.signingKey)
	h.Write([]byte(payload))
	return b64Encode(h.Sum(nil))
}

func b64Encode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func b64Decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
