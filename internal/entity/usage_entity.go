package entity

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord is a billing entry for one completed model invocation.
// Records are created exactly once per invocation and never mutated.
type UsageRecord struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Cost             float64
	Date             time.Time
	CreatedAt        time.Time
}
