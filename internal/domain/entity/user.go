package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the internal identity row linked to an external identity provider subject.
type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AuthID          *string    `gorm:"type:varchar(255);uniqueIndex" json:"auth_id,omitempty"`
	RoleID          int        `gorm:"not null;index" json:"role_id"`
	Email           string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name            string     `gorm:"type:varchar(255);not null" json:"name"`
	Phone           string     `gorm:"type:varchar(32)" json:"phone,omitempty"`
	ProfileImageURL string     `gorm:"type:text" json:"profile_image_url,omitempty"`
	IsActive        bool       `gorm:"not null;index" json:"is_active"`
	IsVerified      bool       `gorm:"not null" json:"is_verified"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role           Role            `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	PatientProfile *PatientProfile `gorm:"foreignKey:UserID" json:"patient_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.RoleID == RoleIDAdmin
}

// IsPatient reports whether the user holds the patient role
func (u *User) IsPatient() bool {
	return u.RoleID == RoleIDPatient
}
