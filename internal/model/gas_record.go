package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GasType string

const (
	GasMethane         GasType = "METANO"
	GasCarbonMonoxide  GasType = "CO"
	GasCarbonDioxide   GasType = "CO2"
	GasHydrogenSulfide GasType = "H2S"
)

type GasUnit string

const (
	GasUnitPercent GasUnit = "%"
	GasUnitPPM     GasUnit = "PPM"
)

// GasRecord is a single gas-detector reading. Time is kept as "HH:MM:SS" so
// that (date, time) sorts lexically on every engine.
type GasRecord struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Date         time.Time       `gorm:"type:date;not null;index"`
	Time         string          `gorm:"type:varchar(8);not null"`
	Location     string          `gorm:"size:255;not null"`
	GasType      GasType         `gorm:"type:varchar(50);not null"`
	Level        decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Unit         GasUnit         `gorm:"type:varchar(10);not null"`
	Status       string          `gorm:"size:50;not null"`
	RecordedByID *uuid.UUID      `gorm:"type:uuid;index"`
	RecordedBy   *User           `gorm:"foreignKey:RecordedByID;constraint:OnDelete:SET NULL"`
	Observations *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (GasRecord) TableName() string { return "gas_records" }

func (g *GasRecord) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
