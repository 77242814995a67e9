package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultProjectStatus = "Activo"

// Project is the root of the production ownership graph. Manager is a weak
// reference: deleting the user only clears ManagerID.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:255;not null"`
	Location    string    `gorm:"size:255;not null"`
	StartDate   time.Time `gorm:"type:date;not null"`
	Description *string
	ManagerID   *uuid.UUID `gorm:"type:uuid;index"`
	Manager     *User      `gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL"`
	Status      string     `gorm:"size:50;not null;default:'Activo'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Project) TableName() string { return "projects" }

func (p *Project) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
