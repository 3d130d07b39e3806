package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a chat thread owned by an identity within a company.
// FrameworkContext snapshots the frameworks active when it was created.
type Conversation struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	CompanyID        uuid.UUID `json:"company_id"`
	Title            string    `json:"title,omitempty"`
	Category         string    `json:"category,omitempty"`
	FrameworkContext []string  `json:"framework_context"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Conversation categories.
const (
	CategoryPolicy     = "policy"
	CategoryCompliance = "compliance"
	CategoryRisk       = "risk"
	CategoryIncident   = "incident"
	CategoryGeneral    = "general"
)

// Message is one turn of a conversation. Rows are append-only; a message is
// never mutated after creation.
type Message struct {
	ID                  uuid.UUID `json:"id"`
	ConversationID      uuid.UUID `json:"conversation_id"`
	UserID              uuid.UUID `json:"user_id"`
	Role                string    `json:"role"`
	Content             string    `json:"content"`
	AIConfidence        *float64  `json:"ai_confidence,omitempty"`
	FrameworkReferences []string  `json:"framework_references"`
	SourceDocuments     []string  `json:"source_documents"`
	CreatedAt           time.Time `json:"created_at"`
}

// Message role constants.
const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"
)

// IsValidMessageRole checks if the given message role is valid.
func IsValidMessageRole(role string) bool {
	switch role {
	case MessageRoleUser, MessageRoleAssistant, MessageRoleSystem:
		return true
	}
	return false
}

// ConversationTitle derives a conversation title from the first user message.
// Matches the display convention of the dashboard: first 50 characters with
// an ellipsis when truncated.
func ConversationTitle(firstMessage string) string {
	const maxLen = 50
	runes := []rune(firstMessage)
	if len(runes) <= maxLen {
		return firstMessage
	}
	return string(runes[:maxLen]) + "..."
}
