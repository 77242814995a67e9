package service

import (
	"context"
	"errors"

	"koalgroup/internal/policy"
	"koalgroup/internal/repository"

	"github.com/google/uuid"
)

// listVisible returns the rows of res the caller may see.
func listVisible[T any](ctx context.Context, repo repository.Repository[T], res policy.Resource, c policy.Caller, f repository.Filter) ([]T, error) {
	scope, err := policy.Visible(res, c)
	if err != nil {
		return nil, fromPolicy(err)
	}
	rows, err := repo.List(ctx, scope, f)
	return rows, fromDB(err)
}

// findVisible loads id inside the caller's read scope. A row outside the
// scope is indistinguishable from a missing one.
func findVisible[T any](ctx context.Context, repo repository.Repository[T], res policy.Resource, c policy.Caller, id uuid.UUID) (*T, error) {
	scope, err := policy.Visible(res, c)
	if err != nil {
		return nil, fromPolicy(err)
	}
	row, err := repo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, fromDB(err)
	}
	return row, nil
}

// findMutable loads id for update or delete. Rows outside the read scope are
// ErrNotFound; rows the caller can see but not change are ErrForbidden.
func findMutable[T any](ctx context.Context, repo repository.Repository[T], res policy.Resource, c policy.Caller, id uuid.UUID) (*T, error) {
	row, err := findVisible(ctx, repo, res, c, id)
	if err != nil {
		return nil, err
	}
	write, err := policy.Mutable(res, c)
	if err != nil {
		return nil, fromPolicy(err)
	}
	read, _ := policy.Visible(res, c)
	if write == read {
		return row, nil
	}
	if _, err := repo.FindByID(ctx, write, id); err != nil {
		if errors.Is(fromDB(err), ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return row, nil
}

// reload fetches a row after a write so the response carries its preloaded
// references.
func reload[T any](ctx context.Context, repo repository.Repository[T], id uuid.UUID) (*T, error) {
	row, err := repo.FindByID(ctx, policy.All(), id)
	return row, fromDB(err)
}

// createAllowed checks the create rule and returns the forced assignments.
func createAllowed(res policy.Resource, c policy.Caller) (map[policy.Field]uuid.UUID, error) {
	if err := policy.CanCreate(res, c); err != nil {
		return nil, fromPolicy(err)
	}
	return policy.Assignments(res, c), nil
}

// forced returns the id the caller is pinned to for field, if any.
func forced(assigned map[policy.Field]uuid.UUID, field policy.Field) (*uuid.UUID, bool) {
	id, ok := assigned[field]
	if !ok {
		return nil, false
	}
	return &id, true
}
