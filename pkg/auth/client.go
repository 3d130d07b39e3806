package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vcisolabs/vciso-engine/pkg/apperrors"
)

// DefaultTimeout is the maximum time to wait for auth service responses.
const DefaultTimeout = 30 * time.Second

// refreshLeeway is how close to expiry a token may be before AccessToken
// refreshes it instead of returning it. Tokens may rotate server-side, so
// callers always go through AccessToken rather than caching the bearer.
const refreshLeeway = 30 * time.Second

// EventKind identifies an auth-state transition delivered to subscribers.
type EventKind string

const (
	EventSignedIn  EventKind = "SIGNED_IN"
	EventSignedOut EventKind = "SIGNED_OUT"
)

// AuthUser is the auth service's own record of a user.
type AuthUser struct {
	ID       uuid.UUID    `json:"id"`
	Email    string       `json:"email"`
	Metadata UserMetadata `json:"user_metadata"`
}

// Session is an authenticated session issued by the auth service.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         AuthUser
}

// EventFunc is invoked with the event kind and the session after the
// transition (nil after sign-out).
type EventFunc func(kind EventKind, session *Session)

// Service is the auth service surface the rest of the SDK depends on.
type Service interface {
	// Session returns the current session, or nil if unauthenticated.
	Session(ctx context.Context) (*Session, error)
	SignUp(ctx context.Context, email, password string, metadata UserMetadata) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	// AccessToken returns a currently valid bearer token, refreshing the
	// session if the stored token is expired or about to expire.
	AccessToken(ctx context.Context) (string, error)
	// Subscribe registers a callback for auth-state transitions and
	// returns an unsubscribe function.
	Subscribe(fn EventFunc) func()
}

// Client talks to the hosted auth service's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger

	mu      sync.Mutex
	session *Session
	subs    map[int]EventFunc
	nextSub int
}

// NewClient creates a new auth service client.
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger.Named("auth"),
		subs:   make(map[int]EventFunc),
	}
}

var _ Service = (*Client)(nil)

// tokenResponse is the auth service's token grant response body.
type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	User         AuthUser `json:"user"`
}

func (c *Client) Session(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return nil, nil
	}
	if time.Until(session.ExpiresAt) > refreshLeeway {
		return session, nil
	}

	// Stored token expired; try to restore via the refresh grant.
	refreshed, err := c.refresh(ctx, session.RefreshToken)
	if err != nil {
		c.logger.Warn("Session refresh failed", zap.Error(err))
		return nil, nil
	}
	return refreshed, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string, metadata UserMetadata) (*Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	}

	var resp tokenResponse
	if err := c.post(ctx, "/signup", "", body, &resp); err != nil {
		return nil, fmt.Errorf("sign-up failed: %w", err)
	}

	session := c.storeSession(&resp)
	c.emit(EventSignedIn, session)
	return session, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}

	var resp tokenResponse
	if err := c.post(ctx, "/token?grant_type=password", "", body, &resp); err != nil {
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}

	session := c.storeSession(&resp)
	c.logger.Info("Signed in", zap.String("user_id", session.User.ID.String()))
	c.emit(EventSignedIn, session)
	return session, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session != nil {
		// Best-effort server-side revocation; local state is already cleared.
		if err := c.post(ctx, "/logout", session.AccessToken, nil, nil); err != nil {
			c.logger.Warn("Server-side sign-out failed", zap.Error(err))
		}
	}

	c.emit(EventSignedOut, nil)
	return nil
}

func (c *Client) AccessToken(ctx context.Context) (string, error) {
	session, err := c.Session(ctx)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", apperrors.ErrUnauthenticated
	}
	return session.AccessToken, nil
}

func (c *Client) Subscribe(fn EventFunc) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	body := map[string]any{"refresh_token": refreshToken}
	var resp tokenResponse
	if err := c.post(ctx, "/token?grant_type=refresh_token", "", body, &resp); err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}

	return c.storeSession(&resp), nil
}

func (c *Client) storeSession(resp *tokenResponse) *Session {
	session := &Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		User:         resp.User,
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	return session
}

// emit delivers an event to all subscribers. Callbacks run outside the
// client lock so they may call back into the client.
func (c *Client) emit(kind EventKind, session *Session) {
	c.mu.Lock()
	fns := make([]EventFunc, 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(kind, session)
	}
}

// post executes a JSON POST against the auth service and decodes the
// response into out (when out is non-nil).
func (c *Client) post(ctx context.Context, path, bearer string, body, out any) error {
	endpoint, err := url.JoinPath(c.baseURL, "auth", "v1")
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	endpoint += path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call auth service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Auth service returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path))
		return fmt.Errorf("auth service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
