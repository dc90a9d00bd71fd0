package types

import (
	"time"

	"github.com/google/uuid"
)

type Collection struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	ArabicName  string    `gorm:"column:arabic_name" json:"arabic_name"`
	Compiler    string    `gorm:"column:compiler" json:"compiler"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Collection) TableName() string {
	return "collection"
}

// Narration is a single hadith within a collection. Grade is the
// traditional authenticity grading (sahih, hasan, daif, ...).
type Narration struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CollectionID  uuid.UUID `gorm:"type:uuid;not null;index;column:collection_id" json:"collection_id"`
	BookNumber    int       `gorm:"not null;column:book_number" json:"book_number"`
	HadithNumber  int       `gorm:"not null;column:hadith_number" json:"hadith_number"`
	ArabicText    string    `gorm:"type:text;column:arabic_text" json:"arabic_text"`
	Translation   string    `gorm:"type:text;not null;column:translation" json:"translation"`
	NarratorChain string    `gorm:"type:text;column:narrator_chain" json:"narrator_chain"`
	Grade         string    `gorm:"column:grade" json:"grade"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Narration) TableName() string {
	return "narration"
}

// SavedNarration is a user's bookmark. The per-user row count is the
// saved-items total checked against the tier limit.
type SavedNarration struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_narration;column:user_id" json:"user_id"`
	NarrationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_narration;column:narration_id" json:"narration_id"`
	Note        string    `gorm:"type:text;column:note" json:"note"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (SavedNarration) TableName() string {
	return "saved_narration"
}
