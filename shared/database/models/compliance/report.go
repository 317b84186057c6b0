package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is the scored outcome of one completed assessment, one-to-one with
// the assessment and upserted on (re-)submission. The narrative fields come
// from the text service, or a fixed placeholder when generation fails.
type Report struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	AssessmentID   uuid.UUID `json:"assessment_id" gorm:"type:uuid;uniqueIndex;not null"`

	Score     int    `json:"score" gorm:"not null"`
	RiskLevel string `json:"risk_level" gorm:"size:20;not null"`
	OpenGaps  int    `json:"open_gaps" gorm:"not null"`

	Summary         string `json:"summary" gorm:"type:text"`
	KeyFindings     string `json:"key_findings" gorm:"type:text"`
	Recommendations string `json:"recommendations" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
