package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question categories. Anything else coming back from the text service is
// mapped to CategoryGeneral.
const (
	CategoryAccessControl = "Access Control"
	CategoryData          = "Data"
	CategoryNetwork       = "Network"
	CategoryPolicy        = "Policy"
	CategoryIncident      = "Incident"
	CategoryVendor        = "Vendor"
	CategoryGeneral       = "General"
)

// ValidCategory reports whether c is one of the fixed question categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryAccessControl, CategoryData, CategoryNetwork,
		CategoryPolicy, CategoryIncident, CategoryVendor, CategoryGeneral:
		return true
	}
	return false
}

// Question belongs to exactly one assessment. Immutable once created.
type Question struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AssessmentID uuid.UUID `json:"assessment_id" gorm:"type:uuid;not null;index"`
	Text         string    `json:"text" gorm:"type:text;not null"`
	Category     string    `json:"category" gorm:"size:50;not null;default:'General'"`
	Weight       float64   `json:"weight" gorm:"not null;default:1"`
	CreatedAt    time.Time `json:"created_at"`

	Answers []Answer `json:"answers" gorm:"foreignKey:QuestionID"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
