package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Risk severities and statuses
const (
	SeverityHigh   = "HIGH"
	SeverityMedium = "MEDIUM"

	RiskStatusOpen = "OPEN"
)

// Risk is a derived finding appended at assessment submission: one per
// question answered NO (high) or PARTIAL (medium).
type Risk struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	AssessmentID   uuid.UUID `json:"assessment_id" gorm:"type:uuid;not null;index"`
	Title          string    `json:"title" gorm:"type:text;not null"`
	Severity       string    `json:"severity" gorm:"size:10;not null"`
	Status         string    `json:"status" gorm:"size:10;not null;default:'OPEN'"`
	CreatedAt      time.Time `json:"created_at"`
}

func (r *Risk) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
