package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of site roles.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleEmployee   Role = "EMPLOYEE"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleEmployee:
		return true
	}
	return false
}

// User is a site account. FingerprintID holds the token issued by the biometric
// reader, never the biometric sample itself.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username      string    `gorm:"size:150;uniqueIndex;not null"`
	Email         string    `gorm:"size:254"`
	FirstName     string    `gorm:"size:150"`
	LastName      string    `gorm:"size:150"`
	PasswordHash  string    `gorm:"not null"`
	Role          Role      `gorm:"type:varchar(20);not null;default:'EMPLOYEE';index"`
	IDNumber      *string   `gorm:"size:50;uniqueIndex"`
	Phone         *string   `gorm:"size:20"`
	FingerprintID *string   `gorm:"size:100;uniqueIndex"`
	IsSuperuser   bool      `gorm:"not null;default:false"`
	IsStaff       bool      `gorm:"not null;default:false"`
	IsActive      bool      `gorm:"not null"`
	DateJoined    time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DisplayName returns the username of an optional reference, or "" when the
// reference was detached.
func DisplayName(u *User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
