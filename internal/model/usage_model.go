package model

import (
	"time"

	"github.com/google/uuid"
)

type UsageRecord struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index"`
	Model            string    `gorm:"type:varchar(50);not null;index"`
	PromptTokens     int       `gorm:"not null;default:0"`
	CompletionTokens int       `gorm:"not null;default:0"`
	TotalTokens      int       `gorm:"not null;default:0"`
	Cost             float64   `gorm:"type:decimal(10,6);not null;default:0"`
	Date             time.Time `gorm:"type:date;not null;index"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (UsageRecord) TableName() string {
	return "ai_usage"
}
