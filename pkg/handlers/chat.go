package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vcisolabs/vciso-engine/pkg/assistant"
	"github.com/vcisolabs/vciso-engine/pkg/auth"
	"github.com/vcisolabs/vciso-engine/pkg/llm"
	"github.com/vcisolabs/vciso-engine/pkg/models"
	"github.com/vcisolabs/vciso-engine/pkg/repositories"
	"github.com/vcisolabs/vciso-engine/pkg/services"
)

// logPreviewLen caps how much of a message appears in request logs.
const logPreviewLen = 100

// ChatHandler handles the assistant chat endpoint.
type ChatHandler struct {
	completions   services.CompletionService
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	logger        *zap.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(
	completions services.CompletionService,
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		completions:   completions,
		conversations: conversations,
		messages:      messages,
		logger:        logger,
	}
}

// RegisterRoutes registers the chat handler's routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/chat", authMiddleware.RequireAuth(h.Chat))
}

// Chat handles POST /api/chat requests. It completes the message under
// the supplied organizational context, creating a conversation when the
// request names none, and persists the assistant turn before responding.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req assistant.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Message == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Message is required")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid user_id")
		return
	}

	h.logger.Info("Chat request",
		zap.String("user_id", req.UserID),
		zap.String("message_preview", preview(req.Message)))

	result, err := h.completions.Respond(r.Context(), req.Message, contextInputFromRequest(req.Context))
	if err != nil {
		h.logger.Error("Failed to get assistant response", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "completion_failed", "Failed to get AI response")
		return
	}

	conversationID, err := h.ensureConversation(r, &req, userID)
	if err != nil {
		h.logger.Error("Failed to create conversation", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "storage_failed", "Failed to create conversation")
		return
	}

	msg := &models.Message{
		ID:                  uuid.New(),
		ConversationID:      conversationID,
		UserID:              userID,
		Role:                models.MessageRoleAssistant,
		Content:             result.Response,
		AIConfidence:        &result.Confidence,
		FrameworkReferences: result.ReferencedFrameworks,
		SourceDocuments:     result.ReferencedDocuments,
	}
	if err := h.messages.Insert(r.Context(), msg); err != nil {
		h.logger.Error("Failed to persist assistant message", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "storage_failed", "Failed to save message")
		return
	}

	resp := assistant.ChatResponse{
		Response:             result.Response,
		Confidence:           &result.Confidence,
		ReferencedFrameworks: result.ReferencedFrameworks,
		ReferencedDocuments:  result.ReferencedDocuments,
		ConversationID:       conversationID.String(),
	}
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode chat response", zap.Error(err))
	}
}

// ensureConversation resolves the conversation for the request, creating
// one titled after the message when the request names none.
func (h *ChatHandler) ensureConversation(r *http.Request, req *assistant.ChatRequest, userID uuid.UUID) (uuid.UUID, error) {
	if req.ConversationID != "" {
		return uuid.Parse(req.ConversationID)
	}

	conv := &models.Conversation{
		UserID:   userID,
		Title:    models.ConversationTitle(req.Message),
		Category: models.CategoryGeneral,
	}
	if req.CompanyID != "" {
		companyID, err := uuid.Parse(req.CompanyID)
		if err != nil {
			return uuid.Nil, err
		}
		conv.CompanyID = companyID
	}
	if err := h.conversations.Create(r.Context(), conv); err != nil {
		return uuid.Nil, err
	}
	return conv.ID, nil
}

// contextInputFromRequest maps the wire context to prompt-assembly input.
func contextInputFromRequest(chatCtx *assistant.ChatContext) *llm.ContextInput {
	if chatCtx == nil {
		return nil
	}

	docs := make([]llm.ContextDocument, 0, len(chatCtx.CompanyContext.RelevantDocuments))
	for _, d := range chatCtx.CompanyContext.RelevantDocuments {
		docs = append(docs, llm.ContextDocument{Title: d.Title, Type: d.Type})
	}

	status := make(map[string]llm.ComplianceStatus, len(chatCtx.ComplianceStatus))
	for framework, s := range chatCtx.ComplianceStatus {
		status[framework] = llm.ComplianceStatus{
			Implemented: s.Implemented,
			Total:       s.Total,
		}
	}

	return &llm.ContextInput{
		Industry:         chatCtx.CompanyContext.Industry,
		Frameworks:       chatCtx.CompanyContext.Frameworks,
		Documents:        docs,
		ComplianceStatus: status,
		UserRole:         chatCtx.UserRole,
	}
}

func preview(s string) string {
	if len(s) <= logPreviewLen {
		return s
	}
	return s[:logPreviewLen] + "..."
}
