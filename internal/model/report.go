package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportType string

const (
	ReportProduction ReportType = "production"
	ReportPersonnel  ReportType = "personnel"
	ReportProject    ReportType = "project"
)

type ReportStatus string

const (
	ReportPending ReportStatus = "pending"
	ReportReady   ReportStatus = "ready"
	ReportFailed  ReportStatus = "failed"
)

// Report is a PDF rendered asynchronously by the worker pool. The requester's
// role and superuser flag are snapshotted so rendering uses the visibility
// the requester had when asking.
type Report struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Title            string       `gorm:"size:200;not null"`
	Type             ReportType   `gorm:"column:report_type;type:varchar(20);not null"`
	ProjectID        *uuid.UUID   `gorm:"type:uuid"`
	Project          *Project     `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL"`
	StartDate        *time.Time   `gorm:"type:date"`
	EndDate          *time.Time   `gorm:"type:date"`
	Status           ReportStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	FilePath         *string
	RetryCount       int `gorm:"not null;default:0"`
	NextRetryAt      *time.Time
	LastError        *string
	RequestedByID    uuid.UUID `gorm:"type:uuid;not null;index"`
	RequestedBy      *User     `gorm:"foreignKey:RequestedByID;constraint:OnDelete:CASCADE"`
	RequesterRole    Role      `gorm:"type:varchar(20);not null"`
	RequesterIsSuper bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

func (Report) TableName() string { return "reports" }

func (r *Report) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Project{},
		&ProductionRecord{},
		&AccessLog{},
		&GasRecord{},
		&WorkFront{},
		&InventoryItem{},
		&Tool{},
		&Report{},
	}
}
