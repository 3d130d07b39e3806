// Package assistant provides a client for the vCISO assistant endpoint.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout is the maximum time to wait for assistant responses when
// the caller supplies no deadline of its own.
const DefaultTimeout = 60 * time.Second

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message        string       `json:"message"`
	ConversationID string       `json:"conversation_id"`
	UserID         string       `json:"user_id"`
	CompanyID      string       `json:"company_id"`
	Context        *ChatContext `json:"context,omitempty"`
}

// ChatContext is the organizational context sent with a chat request.
type ChatContext struct {
	CompanyContext   CompanyContext                `json:"company_context"`
	ComplianceStatus map[string]ComplianceCounters `json:"compliance_status"`
	UserRole         string                        `json:"user_role"`
}

// CompanyContext describes the company for prompt assembly. Documents carry
// only title, summary, and type, never full content.
type CompanyContext struct {
	Industry          string        `json:"industry,omitempty"`
	Frameworks        []string      `json:"frameworks"`
	RelevantDocuments []DocumentRef `json:"relevant_documents"`
}

// DocumentRef is the prompt-facing slice of an approved document.
type DocumentRef struct {
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
	Type    string `json:"type"`
}

// ComplianceCounters mirrors the per-framework summary on the wire.
type ComplianceCounters struct {
	Total       int `json:"total"`
	Implemented int `json:"implemented"`
	InProgress  int `json:"in_progress"`
	HighRisk    int `json:"high_risk"`
}

// ChatResponse is the success body of POST /api/chat.
type ChatResponse struct {
	Response             string   `json:"response"`
	Confidence           *float64 `json:"confidence,omitempty"`
	ReferencedFrameworks []string `json:"referenced_frameworks,omitempty"`
	ReferencedDocuments  []string `json:"referenced_documents,omitempty"`
	ConversationID       string   `json:"conversation_id,omitempty"`
}

// Client provides access to the assistant service API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new assistant client.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger.Named("assistant"),
	}
}

// Chat posts a message with its context to the assistant endpoint.
// token is the bearer credential, obtained fresh for this call.
// A non-2xx status is returned as an error whose text carries the
// response body as error detail.
func (c *Client) Chat(ctx context.Context, token string, chatReq *ChatRequest) (*ChatResponse, error) {
	endpoint, err := buildURL(c.baseURL, "api", "chat")
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	data, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	c.logger.Debug("Sending chat request",
		zap.String("url", endpoint),
		zap.String("conversation_id", chatReq.ConversationID),
		zap.Int("message_len", len(chatReq.Message)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call assistant: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Assistant returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("assistant returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &chatResp, nil
}

// buildURL constructs a URL by parsing the base and joining path segments.
func buildURL(baseURL string, pathSegments ...string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	segments := append([]string{u.Path}, pathSegments...)
	u.Path = path.Join(segments...)

	return u.String(), nil
}
