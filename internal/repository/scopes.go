package repository

import (
	"koalgroup/internal/model"
	"koalgroup/internal/policy"

	"gorm.io/gorm"
)

// scopeFilter narrows a query to the rows a policy.Scope admits. Any scope
// kind a resource does not define compiles to no rows.
type scopeFilter func(q *gorm.DB, s policy.Scope) *gorm.DB

func none(q *gorm.DB) *gorm.DB { return q.Where("1 = 0") }

// byColumn builds the common filter: OWN_ONLY compares own with the caller,
// OWNED_OR_MANAGED compares managed. An empty column leaves that kind closed.
func byColumn(own, managed string) scopeFilter {
	return func(q *gorm.DB, s policy.Scope) *gorm.DB {
		switch {
		case s.Kind == policy.ScopeAll:
			return q
		case s.Kind == policy.ScopeOwnOnly && own != "":
			return q.Where(own+" = ?", s.CallerID)
		case s.Kind == policy.ScopeOwnedOrManaged && managed != "":
			return q.Where(managed+" = ?", s.CallerID)
		}
		return none(q)
	}
}

func userScope(q *gorm.DB, s policy.Scope) *gorm.DB {
	switch s.Kind {
	case policy.ScopeAll:
		return q
	case policy.ScopeNonAdmin:
		return q.Where("role <> ?", model.RoleAdmin)
	case policy.ScopeOwnOnly:
		return q.Where("id = ?", s.CallerID)
	}
	return none(q)
}

// supervisedProjects is the de-duplicated set of project ids a supervisor
// reaches directly as manager or through a work front they supervise.
const supervisedProjects = `SELECT id FROM projects WHERE manager_id = ?
	UNION
	SELECT project_id FROM work_fronts WHERE supervisor_id = ? AND project_id IS NOT NULL`

func productionScope(q *gorm.DB, s policy.Scope) *gorm.DB {
	switch s.Kind {
	case policy.ScopeAll:
		return q
	case policy.ScopeOwnOnly:
		return q.Where("employee_id = ?", s.CallerID)
	case policy.ScopeOwnedOrManaged:
		return q.Where("project_id IN ("+supervisedProjects+")", s.CallerID, s.CallerID)
	}
	return none(q)
}

func reachableProjects(q *gorm.DB, s policy.Scope) *gorm.DB {
	switch s.Kind {
	case policy.ScopeAll:
		return q
	case policy.ScopeOwnedOrManaged:
		return q.Where("id IN ("+supervisedProjects+")", s.CallerID, s.CallerID)
	}
	return none(q)
}
