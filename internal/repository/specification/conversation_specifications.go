package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ExcludeDeleted hides soft-deleted conversations from normal listing;
// audit paths query without it.
type ExcludeDeleted struct{}

func (s ExcludeDeleted) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", "deleted")
}
