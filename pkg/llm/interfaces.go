// Package llm provides completion-model client functionality for the
// assistant service.
package llm

import (
	"context"
)

// Provider defines the interface for completion operations.
// Use this interface for dependency injection to enable mocking in tests.
type Provider interface {
	// Complete generates a completion for the prompt under the given
	// system message.
	Complete(ctx context.Context, systemMessage string, prompt string) (string, error)

	// GetModel returns the configured model name.
	GetModel() string
}
