package repository

import (
	"koalgroup/internal/model"

	"gorm.io/gorm"
)

type GasRecordRepository interface {
	Repository[model.GasRecord]
}

func NewGasRecordRepository(db *gorm.DB) GasRecordRepository {
	return newScoped[model.GasRecord](db, table{
		scope:      byColumn("", ""),
		order:      "date DESC, time DESC",
		preload:    []string{"RecordedBy"},
		dateColumn: "date",
	})
}
