package permissions

import "community-api/internal/models"

// Scope is the nesting level a permission check applies to.
type Scope string

const (
	ScopeApp       Scope = "app"
	ScopeOrg       Scope = "org"
	ScopeCommunity Scope = "community"
)

// Action is an actionable verb within the API surface.
type Action string

// ActionAll is the wildcard: a role holding it may perform every action in
// its scope.
const ActionAll Action = "*"

const (
	// App scope
	ActionCreateOrganization Action = "CREATE_ORGANIZATION"
	ActionManageUsers        Action = "MANAGE_USERS"
	ActionViewAdminDashboard Action = "VIEW_ADMIN_DASHBOARD"

	// Org scope
	ActionManageOrgMembers  Action = "MANAGE_ORG_MEMBERS"
	ActionManageOrgSettings Action = "MANAGE_ORG_SETTINGS"
	ActionCreateCommunity   Action = "CREATE_COMMUNITY"

	// Community scope
	ActionCreatePost             Action = "CREATE_POST"
	ActionCreateComment          Action = "CREATE_COMMENT"
	ActionAddReaction            Action = "ADD_REACTION"
	ActionDeleteAnyPost          Action = "DELETE_ANY_POST"
	ActionPinPost                Action = "PIN_POST"
	ActionManageCommunityMembers Action = "MANAGE_COMMUNITY_MEMBERS"
	ActionAssignCommunityAdmin   Action = "ASSIGN_COMMUNITY_ADMIN"
	ActionRemoveCommunityAdmin   Action = "REMOVE_COMMUNITY_ADMIN"
	ActionEditCommunitySettings  Action = "EDIT_COMMUNITY_SETTINGS"
)

// Set is a set of actions a role may perform within one scope.
type Set map[Action]struct{}

// Contains reports whether the set allows the action, honoring the wildcard.
func (s Set) Contains(action Action) bool {
	if _, ok := s[ActionAll]; ok {
		return true
	}
	_, ok := s[action]
	return ok
}

// Actions returns the members of the set in unspecified order.
func (s Set) Actions() []Action {
	out := make([]Action, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	return out
}

func newSet(actions ...Action) Set {
	s := make(Set, len(actions))
	for _, a := range actions {
		s[a] = struct{}{}
	}
	return s
}

// table is the single source of truth for role semantics. Every component
// above it routes permission decisions through this table instead of
// comparing role names.
var table = map[Scope]map[string]Set{
	ScopeApp: {
		string(models.AppRoleUser):  newSet(ActionCreateOrganization),
		string(models.AppRoleAdmin): newSet(ActionAll),
	},
	ScopeOrg: {
		string(models.OrgRoleUser): newSet(ActionCreateCommunity),
		string(models.OrgRoleAdmin): newSet(
			ActionManageOrgMembers,
			ActionManageOrgSettings,
			ActionCreateCommunity,
			ActionManageCommunityMembers,
		),
	},
	ScopeCommunity: {
		string(models.CommunityRoleMember): newSet(
			ActionCreatePost,
			ActionCreateComment,
			ActionAddReaction,
		),
		string(models.CommunityRoleModerator): newSet(
			ActionCreatePost,
			ActionCreateComment,
			ActionAddReaction,
			ActionDeleteAnyPost,
			ActionPinPost,
			ActionManageCommunityMembers,
		),
		string(models.CommunityRoleAdmin): newSet(ActionAll),
	},
}

// RolePermissions returns the action set for a role within a scope. Unknown
// roles yield the empty set.
func RolePermissions(scope Scope, role string) Set {
	roles, ok := table[scope]
	if !ok {
		return Set{}
	}
	set, ok := roles[role]
	if !ok {
		return Set{}
	}
	return set
}

// HasPermission reports whether a role may perform an action within a scope.
func HasPermission(scope Scope, role string, action Action) bool {
	return RolePermissions(scope, role).Contains(action)
}

// AllPermissions unions the action sets of several roles within one scope.
func AllPermissions(scope Scope, roles ...string) Set {
	union := Set{}
	for _, role := range roles {
		for a := range RolePermissions(scope, role) {
			union[a] = struct{}{}
		}
	}
	return union
}
