package repository

import (
	"context"

	"koalgroup/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Repository[model.User]
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// Taken reports whether another user already holds value in column.
	Taken(ctx context.Context, column, value string, exclude uuid.UUID) (bool, error)
}

type userRepo struct {
	*scoped[model.User]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{newScoped[model.User](db, table{
		scope:     userScope,
		order:     "username ASC",
		immutable: []string{"date_joined"},
	})}
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Taken(ctx context.Context, column, value string, exclude uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where(column+" = ? AND id <> ?", value, exclude).
		Count(&n).Error
	return n > 0, err
}

// weakUserRefs are the columns that point at a user without owning the row.
var weakUserRefs = []struct {
	model  any
	column string
}{
	{&model.Project{}, "manager_id"},
	{&model.ProductionRecord{}, "employee_id"},
	{&model.GasRecord{}, "recorded_by_id"},
	{&model.WorkFront{}, "supervisor_id"},
	{&model.Tool{}, "assigned_to_id"},
}

// Delete detaches every weak reference to the user, removes the rows the user
// owns and then the user, all in one transaction.
func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ref := range weakUserRefs {
			if err := tx.Model(ref.model).Where(ref.column+" = ?", id).Update(ref.column, nil).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("employee_id = ?", id).Delete(&model.AccessLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("requested_by_id = ?", id).Delete(&model.Report{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, "id = ?", id).Error
	})
}
