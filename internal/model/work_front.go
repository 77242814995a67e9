package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WorkFrontStatus string

const (
	WorkFrontActive   WorkFrontStatus = "ACTIVO"
	WorkFrontPaused   WorkFrontStatus = "PAUSADO"
	WorkFrontFinished WorkFrontStatus = "FINALIZADO"
	WorkFrontPlanned  WorkFrontStatus = "PLANIFICADO"
)

// WorkFront is an excavation or operation front. Both Project and Supervisor
// are weak references.
type WorkFront struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name             string          `gorm:"size:255;not null"`
	Location         string          `gorm:"size:255;not null"`
	Status           WorkFrontStatus `gorm:"type:varchar(50);not null;default:'PLANIFICADO'"`
	StartDate        time.Time       `gorm:"type:date;not null"`
	EstimatedEndDate time.Time       `gorm:"type:date;not null"`
	Workers          int             `gorm:"not null"`
	Description      *string
	Progress         decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	ProjectID        *uuid.UUID      `gorm:"type:uuid;index"`
	Project          *Project        `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL"`
	SupervisorID     *uuid.UUID      `gorm:"type:uuid;index"`
	Supervisor       *User           `gorm:"foreignKey:SupervisorID;constraint:OnDelete:SET NULL"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (WorkFront) TableName() string { return "work_fronts" }

func (w *WorkFront) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
