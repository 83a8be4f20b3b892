package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Conversation struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID         `gorm:"type:uuid;not null;index"` // Owner scoping for data isolation
	Title     string            `gorm:"type:varchar(200);not null"`
	Model     string            `gorm:"type:varchar(50);not null;default:'gpt-3.5-turbo'"`
	Status    string            `gorm:"type:varchar(20);not null;default:'active';index"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime;index"`
}

func (Conversation) TableName() string {
	return "ai_conversations"
}

type Message struct {
	Id             uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID         `gorm:"type:uuid;not null;index"`
	Role           string            `gorm:"type:varchar(20);not null"`
	Content        string            `gorm:"type:text;not null"`
	Tokens         *int              `gorm:""`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time         `gorm:"autoCreateTime;index"`
}

func (Message) TableName() string {
	return "ai_messages"
}
