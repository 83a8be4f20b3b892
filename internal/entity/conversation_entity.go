package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConversationStatus string

const (
	ConversationStatusActive   ConversationStatus = "active"
	ConversationStatusArchived ConversationStatus = "archived"
	ConversationStatusDeleted  ConversationStatus = "deleted"
)

// Status transitions are one-directional toward deleted; a deleted
// conversation is never resurrected.
func (s ConversationStatus) CanTransitionTo(next ConversationStatus) bool {
	if s == ConversationStatusDeleted {
		return false
	}
	switch next {
	case ConversationStatusActive, ConversationStatusArchived, ConversationStatusDeleted:
		return true
	}
	return false
}

type Conversation struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Model     string
	Status    ConversationStatus
	Metadata  map[string]interface{}
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

// Message is one turn within a conversation. Messages are append-only:
// they are never mutated or deleted individually.
type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Role           MessageRole
	Content        string
	Tokens         *int
	Metadata       map[string]interface{}
	CreatedAt      time.Time
}
