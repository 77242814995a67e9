package repository

import (
	"context"

	"koalgroup/internal/model"
	"koalgroup/internal/policy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	Repository[model.Project]
	// FindReachable loads id if scope reaches it. OWNED_OR_MANAGED reaches
	// the projects the caller manages or supervises through a work front.
	FindReachable(ctx context.Context, scope policy.Scope, id uuid.UUID) (*model.Project, error)
}

type projectRepo struct {
	*scoped[model.Project]
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepo{newScoped[model.Project](db, table{
		scope:      byColumn("", "manager_id"),
		order:      "start_date DESC, name ASC",
		preload:    []string{"Manager"},
		dateColumn: "start_date",
	})}
}

func (r *projectRepo) FindReachable(ctx context.Context, scope policy.Scope, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	err := reachableProjects(r.db.WithContext(ctx).Model(&p), scope).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes the project together with its production records and
// detaches work fronts and reports that referenced it.
func (r *projectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.ProductionRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.WorkFront{}).Where("project_id = ?", id).Update("project_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Report{}).Where("project_id = ?", id).Update("project_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, "id = ?", id).Error
	})
}
