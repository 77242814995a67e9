// Package policy decides which rows of each resource a caller may see or
// change. Every decision is a pure function of the caller and a single
// declarative table; translating a Scope into SQL is the repository's job.
package policy

import (
	"errors"

	"koalgroup/internal/model"

	"github.com/google/uuid"
)

// Resource names match the collection segment of the REST path.
type Resource string

const (
	Users             Resource = "users"
	Projects          Resource = "projects"
	ProductionRecords Resource = "production-records"
	AccessLogs        Resource = "access-logs"
	GasRecords        Resource = "gas-records"
	WorkFronts        Resource = "work-fronts"
	InventoryItems    Resource = "inventory-items"
	Tools             Resource = "tools"
	Reports           Resource = "reports"
)

// ScopeKind tags a row filter.
type ScopeKind int

const (
	// ScopeNone matches no rows.
	ScopeNone ScopeKind = iota
	// ScopeAll matches every row.
	ScopeAll
	// ScopeNonAdmin matches users whose role is not ADMIN.
	ScopeNonAdmin
	// ScopeOwnedOrManaged matches rows the caller manages or supervises.
	ScopeOwnedOrManaged
	// ScopeOwnOnly matches rows attributed to the caller (or the caller's own user row).
	ScopeOwnOnly
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeAll:
		return "ALL"
	case ScopeNonAdmin:
		return "NON_ADMIN"
	case ScopeOwnedOrManaged:
		return "OWNED_OR_MANAGED"
	case ScopeOwnOnly:
		return "OWN_ONLY"
	default:
		return "NONE"
	}
}

// Scope is a row filter bound to a caller.
type Scope struct {
	Kind     ScopeKind
	CallerID uuid.UUID
}

// All is the unrestricted scope, used by internal jobs that already resolved
// the caller's rights.
func All() Scope { return Scope{Kind: ScopeAll} }

// Field names a column the engine may force-assign on create.
type Field string

const (
	FieldManager     Field = "manager"
	FieldSupervisor  Field = "supervisor"
	FieldEmployee    Field = "employee"
	FieldRecordedBy  Field = "recorded_by"
	FieldRequestedBy Field = "requested_by"
)

// Caller is the authenticated identity making a request.
type Caller struct {
	ID          uuid.UUID
	Username    string
	Role        model.Role
	IsSuperuser bool
}

// IsAdmin is true for the ADMIN role and for superusers of any role.
func (c Caller) IsAdmin() bool {
	return c.IsSuperuser || c.Role == model.RoleAdmin
}

// effectiveRole is the table row a caller is evaluated against.
func (c Caller) effectiveRole() model.Role {
	if c.IsAdmin() {
		return model.RoleAdmin
	}
	return c.Role
}

var (
	// ErrNotExposed means the caller's role has no access to the resource at all.
	ErrNotExposed = errors.New("policy: resource not exposed to role")
	// ErrCreateDenied means the caller may not create rows of the resource.
	ErrCreateDenied = errors.New("policy: create not allowed")
)

// Rule is one (resource, role) cell of the table.
type Rule struct {
	Exposed bool
	Read    ScopeKind
	Write   ScopeKind
	Create  bool
	// Assign lists fields overwritten with the caller's id on create.
	Assign []Field
}

func (r Rule) scope(kind ScopeKind, c Caller) Scope {
	return Scope{Kind: kind, CallerID: c.ID}
}

// RuleFor returns the rule governing caller on resource. Unknown resources and
// unknown roles get the zero Rule, which exposes nothing.
func RuleFor(res Resource, c Caller) Rule {
	return table[res][c.effectiveRole()]
}

// Visible returns the read scope for list and retrieve.
func Visible(res Resource, c Caller) (Scope, error) {
	rule := RuleFor(res, c)
	if !rule.Exposed {
		return Scope{}, ErrNotExposed
	}
	return rule.scope(rule.Read, c), nil
}

// Mutable returns the scope of rows the caller may update or delete.
func Mutable(res Resource, c Caller) (Scope, error) {
	rule := RuleFor(res, c)
	if !rule.Exposed {
		return Scope{}, ErrNotExposed
	}
	return rule.scope(rule.Write, c), nil
}

// CanCreate reports whether the caller may create rows of res.
func CanCreate(res Resource, c Caller) error {
	rule := RuleFor(res, c)
	if !rule.Exposed {
		return ErrNotExposed
	}
	if !rule.Create {
		return ErrCreateDenied
	}
	return nil
}

// Assignments returns the fields that must be overwritten with the caller's
// id on create. Any caller-supplied value for these fields is ignored.
func Assignments(res Resource, c Caller) map[Field]uuid.UUID {
	rule := RuleFor(res, c)
	if len(rule.Assign) == 0 {
		return nil
	}
	out := make(map[Field]uuid.UUID, len(rule.Assign))
	for _, f := range rule.Assign {
		out[f] = c.ID
	}
	return out
}
