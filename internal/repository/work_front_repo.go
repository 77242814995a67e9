package repository

import (
	"koalgroup/internal/model"

	"gorm.io/gorm"
)

type WorkFrontRepository interface {
	Repository[model.WorkFront]
}

func NewWorkFrontRepository(db *gorm.DB) WorkFrontRepository {
	return newScoped[model.WorkFront](db, table{
		scope:         byColumn("", "supervisor_id"),
		order:         "start_date DESC",
		preload:       []string{"Project", "Supervisor"},
		projectColumn: "project_id",
		dateColumn:    "start_date",
	})
}
