// Package repository is the GORM data access layer. Every read takes a
// policy.Scope and applies it inside the SQL query, so rows outside the
// caller's visibility are never loaded.
package repository

import (
	"context"
	"time"

	"koalgroup/internal/policy"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter holds the optional list narrowing a resource supports. Fields the
// resource has no column for are ignored.
type Filter struct {
	ProjectID *uuid.UUID
	// From and To bound the resource's date column, both inclusive.
	From *time.Time
	To   *time.Time
}

// Repository is the contract shared by every resource.
type Repository[T any] interface {
	List(ctx context.Context, scope policy.Scope, f Filter) ([]T, error)
	FindByID(ctx context.Context, scope policy.Scope, id uuid.UUID) (*T, error)
	Create(ctx context.Context, row *T) error
	Update(ctx context.Context, row *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// table describes how one resource is queried.
type table struct {
	scope         scopeFilter
	order         string
	preload       []string
	projectColumn string
	dateColumn    string
	// immutable columns are never written by Update.
	immutable []string
}

type scoped[T any] struct {
	db *gorm.DB
	t  table
}

func newScoped[T any](db *gorm.DB, t table) *scoped[T] {
	return &scoped[T]{db: db, t: t}
}

func (r *scoped[T]) query(ctx context.Context, scope policy.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Model(new(T))
	for _, p := range r.t.preload {
		q = q.Preload(p)
	}
	return r.t.scope(q, scope)
}

func (r *scoped[T]) List(ctx context.Context, scope policy.Scope, f Filter) ([]T, error) {
	q := r.query(ctx, scope)
	if f.ProjectID != nil && r.t.projectColumn != "" {
		q = q.Where(r.t.projectColumn+" = ?", *f.ProjectID)
	}
	if r.t.dateColumn != "" {
		if f.From != nil {
			q = q.Where(r.t.dateColumn+" >= ?", *f.From)
		}
		if f.To != nil {
			q = q.Where(r.t.dateColumn+" < ?", f.To.AddDate(0, 0, 1))
		}
	}
	rows := []T{}
	err := q.Order(r.t.order).Find(&rows).Error
	return rows, err
}

func (r *scoped[T]) FindByID(ctx context.Context, scope policy.Scope, id uuid.UUID) (*T, error) {
	var row T
	err := r.query(ctx, scope).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *scoped[T]) Create(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error
}

func (r *scoped[T]) Update(ctx context.Context, row *T) error {
	omit := append([]string{clause.Associations}, r.t.immutable...)
	return r.db.WithContext(ctx).Omit(omit...).Save(row).Error
}

func (r *scoped[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(new(T), "id = ?", id).Error
}
