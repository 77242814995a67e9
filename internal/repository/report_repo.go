package repository

import (
	"context"
	"time"

	"koalgroup/internal/model"

	"gorm.io/gorm"
)

type ReportRepository interface {
	Repository[model.Report]
	// ListDueRetries returns pending reports whose retry time has passed.
	ListDueRetries(ctx context.Context, now time.Time, limit int) ([]model.Report, error)
}

type reportRepo struct {
	*scoped[model.Report]
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepo{newScoped[model.Report](db, table{
		scope:         byColumn("requested_by_id", ""),
		order:         "created_at DESC",
		preload:       []string{"Project", "RequestedBy"},
		projectColumn: "project_id",
		immutable:     []string{"created_at"},
	})}
}

func (r *reportRepo) ListDueRetries(ctx context.Context, now time.Time, limit int) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", model.ReportPending, now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}
