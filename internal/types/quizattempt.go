package types

import (
	"time"

	"github.com/google/uuid"
)

type QuizAttempt struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	CollectionID  uuid.UUID `gorm:"type:uuid;column:collection_id" json:"collection_id"`
	QuestionCount int       `gorm:"not null;column:question_count" json:"question_count"`
	CorrectCount  int       `gorm:"not null;column:correct_count" json:"correct_count"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempt"
}
