package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Answer values
const (
	AnswerYes     = "YES"
	AnswerPartial = "PARTIAL"
	AnswerNo      = "NO"
)

// ValidAnswerValue reports whether v is one of the accepted answer values.
func ValidAnswerValue(v string) bool {
	return v == AnswerYes || v == AnswerPartial || v == AnswerNo
}

// Answer belongs to exactly one question. At most one answer exists per
// question; recording a new answer replaces the old one.
type Answer struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	QuestionID uuid.UUID `json:"question_id" gorm:"type:uuid;not null;index"`
	Value      string    `json:"value" gorm:"size:10;not null"`
	Notes      *string   `json:"notes" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
