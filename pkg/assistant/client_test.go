package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hello", req.Message)
		require.NotNil(t, req.Context)
		assert.Equal(t, "CISO", req.Context.UserRole)

		confidence := 0.9
		_ = json.NewEncoder(w).Encode(ChatResponse{
			Response:             "Start with an asset inventory.",
			Confidence:           &confidence,
			ReferencedFrameworks: []string{"NIST"},
			ConversationID:       "b2f7f7b0-0000-0000-0000-000000000001",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	resp, err := client.Chat(context.Background(), "tok-123", &ChatRequest{
		Message: "Hello",
		Context: &ChatContext{UserRole: "CISO"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Start with an asset inventory.", resp.Response)
	require.NotNil(t, resp.Confidence)
	assert.Equal(t, 0.9, *resp.Confidence)
	assert.Equal(t, []string{"NIST"}, resp.ReferencedFrameworks)
}

func TestClient_Chat_ErrorStatusIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"completion_failed"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	_, err := client.Chat(context.Background(), "tok", &ChatRequest{Message: "Hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "completion_failed")
}

func TestClient_Chat_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(srv.URL, zap.NewNop())
	_, err := client.Chat(ctx, "tok", &ChatRequest{Message: "Hello"})
	require.Error(t, err)
}
