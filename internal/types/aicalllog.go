package types

import (
	"time"

	"github.com/google/uuid"
)

// AICallLog records every LLM round trip for cost accounting.
type AICallLog struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;index;column:user_id" json:"user_id"`
	Purpose          string    `gorm:"not null;column:purpose" json:"purpose"`
	Model            string    `gorm:"column:model" json:"model"`
	PromptTokens     int       `gorm:"column:prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int       `gorm:"column:completion_tokens" json:"completion_tokens"`
	LatencyMS        int64     `gorm:"column:latency_ms" json:"latency_ms"`
	Succeeded        bool      `gorm:"not null;default:true;column:succeeded" json:"succeeded"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (AICallLog) TableName() string {
	return "ai_call_log"
}
