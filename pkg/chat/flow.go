// Package chat implements the chat submission flow: validation, optimistic
// transcript updates, conversation persistence, and the assistant call.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vcisolabs/vciso-engine/pkg/apperrors"
	"github.com/vcisolabs/vciso-engine/pkg/assistant"
	"github.com/vcisolabs/vciso-engine/pkg/auth"
	"github.com/vcisolabs/vciso-engine/pkg/models"
	"github.com/vcisolabs/vciso-engine/pkg/repositories"
	"github.com/vcisolabs/vciso-engine/pkg/services"
	"github.com/vcisolabs/vciso-engine/pkg/session"
)

// AssistantClient is the assistant endpoint surface the flow depends on.
type AssistantClient interface {
	Chat(ctx context.Context, token string, req *assistant.ChatRequest) (*assistant.ChatResponse, error)
}

// SessionSource provides the current session snapshot.
type SessionSource interface {
	Snapshot() session.Snapshot
}

// Flow drives a chat submission end to end. One submission may be in
// flight at a time; Submit returns ErrSubmissionInFlight while the gate
// is held. The session observed at the start of a submission is captured
// by value, so a concurrent sign-out does not disturb a submission that
// already passed validation.
type Flow struct {
	sessions       SessionSource
	authService    auth.Service
	companyContext services.CompanyContextService
	conversations  repositories.ConversationRepository
	messages       repositories.MessageRepository
	assistant      AssistantClient
	transcript     *Transcript
	requestTimeout time.Duration
	logger         *zap.Logger

	mu             sync.Mutex
	inFlight       bool
	conversationID uuid.UUID
}

// NewFlow creates a chat flow with an empty transcript and no active
// conversation. requestTimeout bounds the assistant call; zero means
// assistant.DefaultTimeout.
func NewFlow(
	sessions SessionSource,
	authService auth.Service,
	companyContext services.CompanyContextService,
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	assistantClient AssistantClient,
	requestTimeout time.Duration,
	logger *zap.Logger,
) *Flow {
	if requestTimeout <= 0 {
		requestTimeout = assistant.DefaultTimeout
	}
	return &Flow{
		sessions:       sessions,
		authService:    authService,
		companyContext: companyContext,
		conversations:  conversations,
		messages:       messages,
		assistant:      assistantClient,
		transcript:     NewTranscript(),
		requestTimeout: requestTimeout,
		logger:         logger.Named("chat"),
	}
}

// Transcript returns the flow's transcript.
func (f *Flow) Transcript() *Transcript {
	return f.transcript
}

// InFlight reports whether a submission is currently being processed.
func (f *Flow) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// ActiveConversationID returns the current conversation, or uuid.Nil if
// none has been created yet.
func (f *Flow) ActiveConversationID() uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.conversationID
}

// OpenConversation switches to an existing conversation and replaces the
// transcript with its stored history.
func (f *Flow) OpenConversation(ctx context.Context, conversationID uuid.UUID) error {
	history, err := f.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("failed to load conversation history: %w", err)
	}

	f.mu.Lock()
	f.conversationID = conversationID
	f.mu.Unlock()

	f.transcript.Reset(history)
	return nil
}

// StartNewConversation clears the active conversation and transcript. The
// next Submit creates a fresh conversation row.
func (f *Flow) StartNewConversation() {
	f.mu.Lock()
	f.conversationID = uuid.Nil
	f.mu.Unlock()

	f.transcript.Reset(nil)
}

// Submit runs one chat turn. Validation failures (empty message, no
// authenticated identity, no company, submission already in flight)
// return a sentinel error without touching the transcript or any store.
// A conversation-creation failure aborts with ErrConversationCreate and
// no assistant reply, leaving only the pending user turn. Failures after
// the conversation exists surface as a synthetic assistant message in
// the transcript and Submit returns nil; the user's turn, once persisted,
// is never rolled back.
func (f *Flow) Submit(ctx context.Context, message string) error {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return apperrors.ErrEmptyMessage
	}

	snap := f.sessions.Snapshot()
	if snap.Identity == nil {
		return apperrors.ErrUnauthenticated
	}
	if snap.Identity.CompanyID == nil {
		return apperrors.ErrNoCompany
	}

	// Capture the session by value before taking the gate. The rest of
	// the submission runs against these values even if the session
	// changes underneath it.
	identity := *snap.Identity
	companyID := *snap.Identity.CompanyID
	var company models.Company
	if snap.Company != nil {
		company = *snap.Company
	}

	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return apperrors.ErrSubmissionInFlight
	}
	f.inFlight = true
	conversationID := f.conversationID
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	pendingID := f.transcript.AppendPending(models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		UserID:         identity.ID,
		Role:           models.MessageRoleUser,
		Content:        trimmed,
		CreatedAt:      time.Now(),
	})

	if conversationID == uuid.Nil {
		conv := &models.Conversation{
			UserID:           identity.ID,
			CompanyID:        companyID,
			Title:            models.ConversationTitle(trimmed),
			Category:         models.CategoryGeneral,
			FrameworkContext: company.ComplianceFrameworks,
		}
		// Conversation creation is the one post-validation failure that
		// aborts without a synthetic reply: the pending user turn stays
		// in the transcript and the user retries manually.
		if err := f.conversations.Create(ctx, conv); err != nil {
			f.logger.Error("Failed to create conversation", zap.Error(err))
			return fmt.Errorf("%w: %v", apperrors.ErrConversationCreate, err)
		}
		conversationID = conv.ID

		f.mu.Lock()
		f.conversationID = conversationID
		f.mu.Unlock()
	}

	userMsg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		UserID:         identity.ID,
		Role:           models.MessageRoleUser,
		Content:        trimmed,
		CreatedAt:      time.Now(),
	}
	if err := f.messages.Insert(ctx, userMsg); err != nil {
		f.logger.Error("Failed to persist user message", zap.Error(err))
		f.appendFailure(err)
		return nil
	}
	f.transcript.Confirm(pendingID, *userMsg)

	chatCtx := f.buildContext(ctx, &identity, &company, companyID)

	token, err := f.authService.AccessToken(ctx)
	if err != nil {
		f.logger.Error("Failed to obtain access token", zap.Error(err))
		f.appendFailure(err)
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, f.requestTimeout)
	defer cancel()

	resp, err := f.assistant.Chat(callCtx, token, &assistant.ChatRequest{
		Message:        trimmed,
		ConversationID: conversationID.String(),
		UserID:         identity.ID.String(),
		CompanyID:      companyID.String(),
		Context:        chatCtx,
	})
	if err != nil {
		f.logger.Error("Assistant call failed", zap.Error(err))
		f.appendFailure(err)
		return nil
	}

	assistantMsg := &models.Message{
		ID:                  uuid.New(),
		ConversationID:      conversationID,
		UserID:              identity.ID,
		Role:                models.MessageRoleAssistant,
		Content:             resp.Response,
		AIConfidence:        resp.Confidence,
		FrameworkReferences: resp.ReferencedFrameworks,
		SourceDocuments:     resp.ReferencedDocuments,
		CreatedAt:           time.Now(),
	}
	f.transcript.Append(*assistantMsg)

	// The response is already on screen; a persistence failure here is
	// logged but does not replace it with an apology.
	if err := f.messages.Insert(ctx, assistantMsg); err != nil {
		f.logger.Warn("Failed to persist assistant message", zap.Error(err))
	}
	if err := f.conversations.Touch(ctx, conversationID); err != nil {
		f.logger.Warn("Failed to touch conversation", zap.Error(err))
	}

	return nil
}

// buildContext assembles the organizational context for the assistant
// call. Context loading never fails the submission; missing pieces are
// simply absent from the payload.
func (f *Flow) buildContext(ctx context.Context, identity *models.Identity, company *models.Company, companyID uuid.UUID) *assistant.ChatContext {
	cc := f.companyContext.Load(ctx, companyID)

	docs := make([]assistant.DocumentRef, 0, len(cc.Documents))
	for _, d := range cc.Documents {
		docs = append(docs, assistant.DocumentRef{
			Title:   d.Title,
			Summary: d.AISummary,
			Type:    d.DocumentType,
		})
	}

	status := make(map[string]assistant.ComplianceCounters, len(cc.Summary))
	for framework, s := range cc.Summary {
		status[framework] = assistant.ComplianceCounters{
			Total:       s.Total,
			Implemented: s.Implemented,
			InProgress:  s.InProgress,
			HighRisk:    s.HighRisk,
		}
	}

	return &assistant.ChatContext{
		CompanyContext: assistant.CompanyContext{
			Industry:          company.Industry,
			Frameworks:        cc.Frameworks,
			RelevantDocuments: docs,
		},
		ComplianceStatus: status,
		UserRole:         identity.ComplianceRole,
	}
}

// appendFailure adds a synthetic assistant message describing the failure.
// It is shown in the transcript but never persisted.
func (f *Flow) appendFailure(err error) {
	var content string
	if errors.Is(err, context.DeadlineExceeded) {
		content = "I apologize, but the request timed out before a response arrived. Please try again in a moment."
	} else {
		content = fmt.Sprintf("I apologize, but I'm experiencing connection issues: %v. Please try again in a moment.", err)
	}

	f.transcript.Append(models.Message{
		ID:        uuid.New(),
		Role:      models.MessageRoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	})
}
