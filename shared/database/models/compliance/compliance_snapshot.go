package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplianceSnapshot is the organization's rolling posture aggregate: fully
// recomputed at assessment submission, incrementally updated on each action
// completion. One per organization.
type ComplianceSnapshot struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;uniqueIndex;not null"`
	AssessmentID   uuid.UUID `json:"assessment_id" gorm:"type:uuid;not null"`

	ReadinessScore int    `json:"readiness_score" gorm:"not null;default:0"`
	RiskLevel      string `json:"risk_level" gorm:"size:20;not null;default:'Unknown'"`

	// HighRiskCount holds the count of HIGH risks at submission; at action
	// completion it is refreshed from the count of all non-completed actions.
	HighRiskCount    int `json:"high_risk_count" gorm:"not null;default:0"`
	ActionsPending   int `json:"actions_pending" gorm:"not null;default:0"`
	ActionsCompleted int `json:"actions_completed" gorm:"not null;default:0"`

	// ScoreImprovement accumulates points gained from completed actions since
	// the last full assessment.
	ScoreImprovement int `json:"score_improvement" gorm:"not null;default:0"`

	// LastAssessmentAt is refreshed on every score-affecting event, not only
	// on assessment runs.
	LastAssessmentAt *time.Time `json:"last_assessment_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *ComplianceSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
