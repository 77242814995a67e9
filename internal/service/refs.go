package service

import (
	"context"
	"errors"

	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"

	"github.com/google/uuid"
)

// refChecker validates that referenced rows exist before a write. User
// lookups ignore the caller's scope; project links are held to the projects
// the caller already reaches so a write never widens its own visibility.
type refChecker struct {
	users    repository.UserRepository
	projects repository.ProjectRepository
}

// user checks that id names a user. A non-empty role additionally requires
// the user to hold that role.
func (r refChecker) user(ctx context.Context, field string, id *uuid.UUID, role model.Role) error {
	if id == nil {
		return nil
	}
	u, err := r.users.FindByID(ctx, policy.All(), *id)
	if err != nil {
		if errors.Is(fromDB(err), ErrNotFound) {
			return fieldError(field, "el usuario no existe")
		}
		return err
	}
	if role != "" && u.Role != role {
		return fieldError(field, "el usuario debe tener rol "+string(role))
	}
	return nil
}

// project checks that id names a project the caller may link rows of res to.
// A project outside that set reads as missing.
func (r refChecker) project(ctx context.Context, res policy.Resource, c policy.Caller, field string, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := r.projects.FindReachable(ctx, linkScope(res, c), *id); err != nil {
		if errors.Is(fromDB(err), ErrNotFound) {
			return fieldError(field, "el proyecto no existe")
		}
		return err
	}
	return nil
}

// linkScope is unrestricted unless the caller's write scope on res derives
// from the projects it manages or supervises. Employees record production
// under any project; their rows stay bound to themselves.
func linkScope(res policy.Resource, c policy.Caller) policy.Scope {
	s, err := policy.Mutable(res, c)
	if err != nil || s.Kind != policy.ScopeOwnedOrManaged {
		return policy.All()
	}
	return s
}

func userName(u *model.User) *string {
	if u == nil {
		return nil
	}
	name := u.Username
	return &name
}
