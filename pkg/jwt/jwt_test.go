package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collectif/platform/pkg/jwt"
)

func newRequestWithHeader(t *testing.T, key, value string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if key != "" {
		r.Header.Set(key, value)
	}
	return r
}

func newService(t *testing.T) *jwt.Service {
	t.Helper()
	svc, err := jwt.New([]byte("test-signing-key-at-least-32-bytes!!"))
	require.NoError(t, err)
	return svc
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("empty key rejected", func(t *testing.T) {
		t.Parallel()
		_, err := jwt.New(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
	})
}

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	claims := jwt.Claims{
		Subject:   "c9a64c39-66a2-4b34-9f3c-6d0a2cf8f6e9",
		TenantID:  "7a1d61a8-25ec-4f31-a2a6-2ca471902f6a",
		Email:     "treasurer@acme.org",
		Role:      "admin",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		IssuedAt:  time.Now().Unix(),
	}

	token, err := svc.Generate(claims)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	var parsed jwt.Claims
	require.NoError(t, svc.Parse(token, &parsed))
	assert.Equal(t, claims.Subject, parsed.Subject)
	assert.Equal(t, claims.TenantID, parsed.TenantID)
	assert.Equal(t, claims.Role, parsed.Role)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	token, err := svc.Generate(jwt.Claims{Subject: "member-1"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	var claims jwt.Claims
	assert.ErrorIs(t, svc.Parse(tampered, &claims), jwt.ErrInvalidSignature)
}

func TestParseRejectsWrongKey(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	other, err := jwt.New([]byte("a-completely-different-signing-key!!"))
	require.NoError(t, err)

	token, err := svc.Generate(jwt.Claims{Subject: "member-1"})
	require.NoError(t, err)

	var claims jwt.Claims
	assert.ErrorIs(t, other.Parse(token, &claims), jwt.ErrInvalidSignature)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	token, err := svc.Generate(jwt.Claims{
		Subject:   "member-1",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)

	var claims jwt.Claims
	assert.ErrorIs(t, svc.Parse(token, &claims), jwt.ErrExpiredToken)
}

func TestParseRejectsMalformedToken(t *testing.T) {
	t.Parallel()

	svc := newService(t)
	var claims jwt.Claims
	assert.ErrorIs(t, svc.Parse("not-a-token", &claims), jwt.ErrInvalidToken)
}

func TestBearerTokenExtractor(t *testing.T) {
	t.Parallel()

	t.Run("extracts bearer token", func(t *testing.T) {
		t.Parallel()
		r := newRequestWithHeader(t, "Authorization", "Bearer abc.def.ghi")
		token, err := jwt.BearerTokenExtractor(r)
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", token)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()
		r := newRequestWithHeader(t, "", "")
		_, err := jwt.BearerTokenExtractor(r)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		t.Parallel()
		r := newRequestWithHeader(t, "Authorization", "Basic abc")
		_, err := jwt.BearerTokenExtractor(r)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
