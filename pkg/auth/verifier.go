package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// VerifierInterface defines the interface for bearer token validation.
// This abstraction enables testing with mock implementations.
type VerifierInterface interface {
	// ValidateToken validates a JWT token string and returns the claims.
	// Returns an error if the token is invalid or expired.
	ValidateToken(tokenString string) (*Claims, error)
}

// VerifierConfig contains configuration for the token verifier.
type VerifierConfig struct {
	// EnableVerification controls whether JWT signatures are verified.
	// Set to false for development mode (parses tokens without verification).
	EnableVerification bool
	// JWKSURL is the auth service's JSON Web Key Set endpoint.
	JWKSURL string
}

// Verifier validates JWT tokens against the auth service's JWKS endpoint.
type Verifier struct {
	keyfunc keyfunc.Keyfunc
	config  *VerifierConfig
}

// NewVerifier creates a token verifier. If verification is enabled, it
// fetches the key set from the configured JWKS endpoint.
func NewVerifier(config *VerifierConfig) (*Verifier, error) {
	v := &Verifier{config: config}

	if !config.EnableVerification {
		return v, nil
	}

	kf, err := keyfunc.NewDefaultCtx(context.Background(), []string{config.JWKSURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client for %s: %w", config.JWKSURL, err)
	}
	v.keyfunc = kf

	return v, nil
}

var _ VerifierInterface = (*Verifier)(nil)

// ValidateToken validates a JWT token and returns the claims.
// If verification is disabled, it parses the token without signature validation.
func (v *Verifier) ValidateToken(tokenString string) (*Claims, error) {
	if !v.config.EnableVerification {
		return v.parseUnverifiedToken(tokenString)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.keyfunc.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}

// parseUnverifiedToken extracts claims without verifying the signature.
// Development mode only.
func (v *Verifier) parseUnverifiedToken(tokenString string) (*Claims, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}
