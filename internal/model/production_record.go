package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductionRecord is owned by its Project (cascade delete) and weakly linked
// to the employee who produced it.
type ProductionRecord struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProjectID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Project      *Project        `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	EmployeeID   *uuid.UUID      `gorm:"type:uuid;index"`
	Employee     *User           `gorm:"foreignKey:EmployeeID;constraint:OnDelete:SET NULL"`
	Date         time.Time       `gorm:"type:date;not null;index"`
	MaterialType string          `gorm:"size:100;not null"`
	Quantity     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Unit         string          `gorm:"size:50;not null"`
	Quality      *string         `gorm:"size:50"`
	Observations *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ProductionRecord) TableName() string { return "production_records" }

func (r *ProductionRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
