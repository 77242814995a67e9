package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessType: "ENTRADA" | "SALIDA"
type AccessType string

const (
	AccessEntry AccessType = "ENTRADA"
	AccessExit  AccessType = "SALIDA"
)

// AccessLog records a gate entry or exit. Timestamp is assigned once by the
// server when the row is created and is never rewritten.
type AccessLog struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Employee          *User      `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	AccessType        AccessType `gorm:"type:varchar(10);not null"`
	Timestamp         time.Time  `gorm:"not null;index"`
	Area              string     `gorm:"size:100;not null"`
	Notes             *string
	HealthStatusOrRFC *string `gorm:"column:health_status_or_rfc;size:255"`
}

func (AccessLog) TableName() string { return "access_logs" }

func (l *AccessLog) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
