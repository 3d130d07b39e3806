package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedTestToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestVerifier_DisabledVerificationParsesClaims(t *testing.T) {
	v, err := NewVerifier(&VerifierConfig{EnableVerification: false})
	require.NoError(t, err)

	tokenString := signedTestToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "93a7d7d0-8c36-4bb5-9c10-222222222222",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "ciso@example.com",
		UserMetadata: UserMetadata{
			FullName:       "Jordan Reyes",
			ComplianceRole: "CISO",
		},
	})

	claims, err := v.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "ciso@example.com", claims.Email)
	assert.Equal(t, "Jordan Reyes", claims.UserMetadata.FullName)
	assert.Equal(t, "93a7d7d0-8c36-4bb5-9c10-222222222222", claims.Subject)
}

func TestVerifier_DisabledVerificationRejectsGarbage(t *testing.T) {
	v, err := NewVerifier(&VerifierConfig{EnableVerification: false})
	require.NoError(t, err)

	_, err = v.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestRequireUserIDFromContext(t *testing.T) {
	t.Run("no claims", func(t *testing.T) {
		_, err := RequireUserIDFromContext(context.Background())
		assert.Error(t, err)
	})

	t.Run("non-uuid subject", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), ClaimsKey, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid"},
		})
		_, err := RequireUserIDFromContext(ctx)
		assert.Error(t, err)
	})
}
