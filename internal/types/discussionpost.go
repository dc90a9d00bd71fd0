package types

import (
	"time"

	"github.com/google/uuid"
)

// ModerationStatus is the publish-eligibility state of a submitted post.
type ModerationStatus string

const (
	ModerationApproved ModerationStatus = "approved"
	ModerationHeld     ModerationStatus = "held"
	ModerationRejected ModerationStatus = "rejected"
)

// Moderator identities recorded on a decision. Human reviewer ids are
// stored as-is.
const (
	ModeratorAI   = "ai"
	ModeratorAuto = "auto"
)

type DiscussionPost struct {
	ID               uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	NarrationID      uuid.UUID        `gorm:"type:uuid;not null;index;column:narration_id" json:"narration_id"`
	Body             string           `gorm:"type:text;not null;column:body" json:"body"`
	ModerationStatus ModerationStatus `gorm:"not null;default:'held';column:moderation_status" json:"moderation_status"`
	ModerationReason string           `gorm:"column:moderation_reason" json:"moderation_reason,omitempty"`
	ModeratedBy      string           `gorm:"column:moderated_by" json:"moderated_by,omitempty"`
	ModeratedAt      *time.Time       `gorm:"column:moderated_at" json:"moderated_at,omitempty"`
	ReportCount      int              `gorm:"not null;default:0;column:report_count" json:"report_count"`
	CreatedAt        time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"not null;default:now()" json:"updated_at"`
}

func (DiscussionPost) TableName() string {
	return "discussion_post"
}

type PostReport struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PostID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_report_post_reporter;column:post_id" json:"post_id"`
	ReporterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_report_post_reporter;column:reporter_id" json:"reporter_id"`
	Reason     string    `gorm:"column:reason" json:"reason"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PostReport) TableName() string {
	return "post_report"
}
