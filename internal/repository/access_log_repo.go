package repository

import (
	"koalgroup/internal/model"

	"gorm.io/gorm"
)

type AccessLogRepository interface {
	Repository[model.AccessLog]
}

// NewAccessLogRepository never writes timestamp on update: the value stamped
// at creation is final.
func NewAccessLogRepository(db *gorm.DB) AccessLogRepository {
	return newScoped[model.AccessLog](db, table{
		scope:      byColumn("employee_id", ""),
		order:      "timestamp DESC",
		preload:    []string{"Employee"},
		dateColumn: "timestamp",
		immutable:  []string{"timestamp"},
	})
}
