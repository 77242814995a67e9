package policy

import "koalgroup/internal/model"

var (
	fullAccess = Rule{Exposed: true, Read: ScopeAll, Write: ScopeAll, Create: true}
	hidden     = Rule{}
)

// table is the single source of truth for row visibility. Superusers are
// evaluated against the RoleAdmin column.
var table = map[Resource]map[model.Role]Rule{
	Users: {
		model.RoleAdmin:      fullAccess,
		model.RoleSupervisor: {Exposed: true, Read: ScopeNonAdmin, Write: ScopeOwnOnly},
		model.RoleEmployee:   {Exposed: true, Read: ScopeOwnOnly, Write: ScopeOwnOnly},
	},
	Projects: {
		model.RoleAdmin:      fullAccess,
		model.RoleSupervisor: {Exposed: true, Read: ScopeOwnedOrManaged, Write: ScopeOwnedOrManaged, Create: true, Assign: []Field{FieldManager}},
		model.RoleEmployee:   {Exposed: true, Read: ScopeNone, Write: ScopeNone},
	},
	ProductionRecords: {
		model.RoleAdmin:      fullAccess,
		model.RoleSupervisor: {Exposed: true, Read: ScopeOwnedOrManaged, Write: ScopeOwnedOrManaged, Create: true},
		model.RoleEmployee:   {Exposed: true, Read: ScopeOwnOnly, Write: ScopeOwnOnly, Create: true},
	},
	AccessLogs: {
		model.RoleAdmin:      fullAccess,
		model.RoleSupervisor: fullAccess,
		model.RoleEmployee:   {Exposed: true, Read: ScopeOwnOnly, Write: ScopeOwnOnly, Create: true, Assign: []Field{FieldEmployee}},
	},
	GasRecords: {
		model.RoleAdmin:      {Exposed: true, Read: ScopeAll, Write: ScopeAll, Create: true, Assign: []Field{FieldRecordedBy}},
		model.RoleSupervisor: {Exposed: true, Read: ScopeAll, Write: ScopeAll, Create: true, Assign: []Field{FieldRecordedBy}},
		model.RoleEmployee:   hidden,
	},
	WorkFronts: {
		model.RoleAdmin:      fullAccess,
		model.RoleSupervisor: {Exposed: true, Read: ScopeOwnedOrManaged, Write: ScopeOwnedOrManaged, Create: true, Assign: []Field{FieldSupervisor}},
		model.RoleEmployee:   {Exposed: true, Read: ScopeNone, Write: ScopeNone},
	},
	InventoryItems: {
		model.RoleAdmin:      fullAccess,
		model.RoleSupervisor: fullAccess,
		model.RoleEmployee:   hidden,
	},
	Tools: {
		model.RoleAdmin:      fullAccess,
		model.RoleSupervisor: fullAccess,
		model.RoleEmployee:   hidden,
	},
	Reports: {
		model.RoleAdmin:      {Exposed: true, Read: ScopeAll, Write: ScopeAll, Create: true, Assign: []Field{FieldRequestedBy}},
		model.RoleSupervisor: {Exposed: true, Read: ScopeOwnOnly, Write: ScopeOwnOnly, Create: true, Assign: []Field{FieldRequestedBy}},
		model.RoleEmployee:   hidden,
	},
}
