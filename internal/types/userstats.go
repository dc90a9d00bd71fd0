package types

import (
	"time"

	"github.com/google/uuid"
)

// UserStats carries the per-user activity totals the achievement
// evaluator reads and the XP total the progression engine derives level
// from. XP is authoritative; Level is a cache of progression.Level(XP).
type UserStats struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:user_id" json:"user_id"`
	XP              int       `gorm:"not null;default:0;column:xp" json:"xp"`
	Level           int       `gorm:"not null;default:1;column:level" json:"level"`
	PostsCreated    int       `gorm:"not null;default:0;column:posts_created" json:"posts_created"`
	QuizzesTaken    int       `gorm:"not null;default:0;column:quizzes_taken" json:"quizzes_taken"`
	PerfectQuizzes  int       `gorm:"not null;default:0;column:perfect_quizzes" json:"perfect_quizzes"`
	AIQueries       int       `gorm:"not null;default:0;column:ai_queries" json:"ai_queries"`
	NarrationsSaved int       `gorm:"not null;default:0;column:narrations_saved" json:"narrations_saved"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserStats) TableName() string {
	return "user_stats"
}
