package domain

// Role is the closed set of account roles.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleFrontend Role = "frontend"
	RoleBackend  Role = "backend"
	RolePM       Role = "pm"
	RoleQA       Role = "qa"
	RoleDesigner Role = "designer"
	RoleUser     Role = "user"
)

// Roles lists every role in display order.
var Roles = []Role{RoleOwner, RolePM, RoleFrontend, RoleBackend, RoleDesigner, RoleQA, RoleUser}

// Action is a named capability checked by the auth gateway.
type Action string

const (
	ActionToolCreate     Action = "tool:create"
	ActionToolUpdate     Action = "tool:update"
	ActionToolDelete     Action = "tool:delete"
	ActionCategoryCreate Action = "category:create"
	ActionDashboardStats Action = "dashboard:stats"
	ActionUserManage     Action = "user:manage"
)

// allActions is what the owner role receives.
var allActions = []Action{
	ActionToolCreate,
	ActionToolUpdate,
	ActionToolDelete,
	ActionCategoryCreate,
	ActionDashboardStats,
	ActionUserManage,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleFrontend, RoleBackend, RolePM, RoleQA, RoleDesigner, RoleUser:
		return true
	}
	return false
}

// DisplayName returns the human label for r. Unknown roles read as "User".
func (r Role) DisplayName() string {
	switch r {
	case RoleOwner:
		return "Owner"
	case RoleFrontend:
		return "Frontend Developer"
	case RoleBackend:
		return "Backend Developer"
	case RolePM:
		return "Project Manager"
	case RoleQA:
		return "QA Engineer"
	case RoleDesigner:
		return "Designer"
	case RoleUser:
		return "User"
	default:
		return "User"
	}
}

// Color returns the badge color for r. Unknown roles read as "gray".
func (r Role) Color() string {
	switch r {
	case RoleOwner:
		return "purple"
	case RoleFrontend:
		return "blue"
	case RoleBackend:
		return "green"
	case RolePM:
		return "yellow"
	case RoleQA:
		return "red"
	case RoleDesigner:
		return "pink"
	case RoleUser:
		return "gray"
	default:
		return "gray"
	}
}

// PermittedActions returns a fresh copy of the actions granted to r.
// Unknown roles get an empty set.
func (r Role) PermittedActions() []Action {
	var granted []Action
	switch r {
	case RoleOwner:
		granted = allActions
	case RolePM:
		granted = []Action{ActionToolCreate, ActionToolUpdate, ActionToolDelete, ActionCategoryCreate, ActionDashboardStats}
	case RoleFrontend, RoleBackend, RoleDesigner:
		granted = []Action{ActionToolCreate, ActionToolUpdate}
	case RoleQA:
		granted = []Action{ActionToolUpdate}
	case RoleUser:
		granted = nil
	default:
		granted = nil
	}
	out := make([]Action, len(granted))
	copy(out, granted)
	return out
}

// Can reports whether r is allowed to perform a.
func (r Role) Can(a Action) bool {
	for _, granted := range r.PermittedActions() {
		if granted == a {
			return true
		}
	}
	return false
}
