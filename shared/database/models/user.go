package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null"`
	Password      string    `json:"-" gorm:"not null"`
	FirstName     string    `json:"first_name" gorm:"size:100"`
	LastName      string    `json:"last_name" gorm:"size:100"`
	Status        string    `json:"status" gorm:"default:'ACTIVE'"`
	EmailVerified bool      `json:"email_verified" gorm:"default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate assigns the primary key client-side so inserts work the same
// against postgres and the sqlite test harness.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
