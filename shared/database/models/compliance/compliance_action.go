package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Action statuses. Transitions are monotonic: PENDING -> IN_PROGRESS ->
// COMPLETED, with PENDING -> COMPLETED allowed. COMPLETED is terminal.
const (
	ActionStatusPending    = "PENDING"
	ActionStatusInProgress = "IN_PROGRESS"
	ActionStatusCompleted  = "COMPLETED"
)

// ValidActionStatus reports whether s is one of the accepted action statuses.
func ValidActionStatus(s string) bool {
	return s == ActionStatusPending || s == ActionStatusInProgress || s == ActionStatusCompleted
}

// ComplianceAction is a remediation task derived from a risk at submission
// time. Completing it raises the organization's readiness score by
// ExpectedIncrease points.
type ComplianceAction struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID  `json:"organization_id" gorm:"type:uuid;not null;index"`
	AssessmentID   uuid.UUID  `json:"assessment_id" gorm:"type:uuid;not null;index"`
	RiskID         *uuid.UUID `json:"risk_id" gorm:"type:uuid"`

	Title            string `json:"title" gorm:"type:text;not null"`
	Description      string `json:"description" gorm:"type:text"`
	RemediationSteps string `json:"remediation_steps" gorm:"type:text"`
	ExpectedIncrease int    `json:"expected_increase" gorm:"not null;default:5"`
	Status           string `json:"status" gorm:"size:20;not null;default:'PENDING';index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *ComplianceAction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
