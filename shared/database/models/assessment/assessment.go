package assessment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assessment status values
const (
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// Assessment is one assessment run for one organization. At most one
// IN_PROGRESS assessment exists per (user, organization) pair.
type Assessment struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	Status         string    `json:"status" gorm:"size:20;not null;default:'IN_PROGRESS';index"`

	// ProfileVersion is a copy of the organization's profile version at
	// creation time.
	ProfileVersion int `json:"profile_version" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Questions []Question `json:"questions" gorm:"foreignKey:AssessmentID"`
}

func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
