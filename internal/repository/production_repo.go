package repository

import (
	"koalgroup/internal/model"

	"gorm.io/gorm"
)

type ProductionRecordRepository interface {
	Repository[model.ProductionRecord]
}

func NewProductionRecordRepository(db *gorm.DB) ProductionRecordRepository {
	return newScoped[model.ProductionRecord](db, table{
		scope:         productionScope,
		order:         "date DESC, created_at DESC",
		preload:       []string{"Project", "Employee"},
		projectColumn: "project_id",
		dateColumn:    "date",
	})
}
