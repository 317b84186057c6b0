package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is the tenant profile. Exactly one per owning user.
type Organization struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID         uuid.UUID `json:"owner_id" gorm:"type:uuid;uniqueIndex;not null"`
	Name            string    `json:"name" gorm:"size:200;not null"`
	Industry        string    `json:"industry" gorm:"size:100;not null"`
	CompanySize     string    `json:"company_size" gorm:"size:50;not null"`
	Country         string    `json:"country" gorm:"size:100;default:'UAE'"`
	HandlesPII      bool      `json:"handles_pii" gorm:"default:false"`
	HandlesPayments bool      `json:"handles_payments" gorm:"default:false"`

	// ProfileVersion increments on any change that invalidates prior assessments.
	ProfileVersion int `json:"profile_version" gorm:"default:1;not null"`

	// Denormalized latest-assessment summary.
	ComplianceScore int    `json:"compliance_score" gorm:"default:0"`
	RiskLevel       string `json:"risk_level" gorm:"size:20;default:'Unknown'"`
	OpenGaps        int    `json:"open_gaps" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
