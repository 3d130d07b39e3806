package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockVerifier implements VerifierInterface for tests.
type mockVerifier struct {
	claims *Claims
	err    error
	tokens []string
}

func (m *mockVerifier) ValidateToken(token string) (*Claims, error) {
	m.tokens = append(m.tokens, token)
	return m.claims, m.err
}

func TestMiddleware_RequireAuth(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "b6f9a5a4-7d2c-4b7e-9b1a-111111111111"},
		Email:            "ciso@example.com",
	}
	verifier := &mockVerifier{claims: claims}
	mw := NewMiddleware(verifier, zap.NewNop())

	var gotClaims *Claims
	var gotToken string
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = GetClaims(r.Context())
		gotToken, _ = GetToken(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set("Authorization", "Bearer tok-abc")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "ciso@example.com", gotClaims.Email)
	assert.Equal(t, "tok-abc", gotToken)
	assert.Equal(t, []string{"tok-abc"}, verifier.tokens)
}

func TestMiddleware_RequireAuth_MissingHeader(t *testing.T) {
	mw := NewMiddleware(&mockVerifier{}, zap.NewNop())

	called := false
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestMiddleware_RequireAuth_InvalidToken(t *testing.T) {
	mw := NewMiddleware(&mockVerifier{err: assert.AnError}, zap.NewNop())

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_RequireAuth_MalformedHeader(t *testing.T) {
	mw := NewMiddleware(&mockVerifier{}, zap.NewNop())
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	for _, header := range []string{"tok-abc", "Basic tok-abc", "Bearer "} {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}
