package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem tracks bulk stock (coal, sacks, materials).
// LastUpdated is stamped by the service on every write.
type InventoryItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"size:255;not null"`
	Quantity    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Unit        string          `gorm:"size:50;not null"`
	Location    string          `gorm:"size:255;not null"`
	LastUpdated time.Time       `gorm:"not null"`
	Status      string          `gorm:"size:50;not null"`
}

func (InventoryItem) TableName() string { return "inventory_items" }

func (i *InventoryItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Tool is a countable piece of equipment, optionally lent to a user.
type Tool struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"size:255;not null"`
	Category         string    `gorm:"size:100;not null"`
	Description      *string
	Quantity         int        `gorm:"not null"`
	Status           string     `gorm:"size:50;not null"`
	LastRevisionDate *time.Time `gorm:"type:date"`
	Location         string     `gorm:"size:255;not null"`
	Observations     *string
	AssignedToID     *uuid.UUID `gorm:"type:uuid;index"`
	AssignedTo       *User      `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Tool) TableName() string { return "tools" }

func (t *Tool) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
