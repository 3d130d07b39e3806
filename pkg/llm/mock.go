package llm

import (
	"context"
)

// MockProvider is a configurable mock for testing completion flows.
// Set the function field to control behavior in tests.
type MockProvider struct {
	// CompleteFunc is called when Complete is invoked.
	// If nil, returns an empty string and nil error.
	CompleteFunc func(ctx context.Context, systemMessage string, prompt string) (string, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Call tracking for verification
	CompleteCalls int
	LastSystem    string
	LastPrompt    string
}

var _ Provider = (*MockProvider)(nil)

// NewMockProvider creates a new mock with sensible defaults.
func NewMockProvider() *MockProvider {
	return &MockProvider{Model: "mock-model"}
}

// Complete implements Provider.
func (m *MockProvider) Complete(ctx context.Context, systemMessage string, prompt string) (string, error) {
	m.CompleteCalls++
	m.LastSystem = systemMessage
	m.LastPrompt = prompt
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemMessage, prompt)
	}
	return "", nil
}

// GetModel implements Provider.
func (m *MockProvider) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}
