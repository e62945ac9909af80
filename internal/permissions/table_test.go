package permissions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"community-api/internal/models"
)

func TestRolePermissions_AppScope(t *testing.T) {
	set := RolePermissions(ScopeApp, string(models.AppRoleUser))
	require.True(t, set.Contains(ActionCreateOrganization))
	require.False(t, set.Contains(ActionManageUsers))

	admin := RolePermissions(ScopeApp, string(models.AppRoleAdmin))
	require.True(t, admin.Contains(ActionManageUsers))
	require.True(t, admin.Contains(ActionViewAdminDashboard))
	// The wildcard covers actions the table never lists explicitly.
	require.True(t, admin.Contains(Action("SOME_FUTURE_ACTION")))
}

func TestRolePermissions_OrgScope(t *testing.T) {
	user := RolePermissions(ScopeOrg, string(models.OrgRoleUser))
	require.True(t, user.Contains(ActionCreateCommunity))
	require.False(t, user.Contains(ActionManageOrgMembers))
	require.False(t, user.Contains(ActionManageOrgSettings))

	admin := RolePermissions(ScopeOrg, string(models.OrgRoleAdmin))
	require.True(t, admin.Contains(ActionManageOrgMembers))
	require.True(t, admin.Contains(ActionManageOrgSettings))
	require.True(t, admin.Contains(ActionCreateCommunity))
	require.True(t, admin.Contains(ActionManageCommunityMembers))
	// Org admin is not a wildcard role.
	require.False(t, admin.Contains(ActionAssignCommunityAdmin))
}

func TestRolePermissions_CommunityScope(t *testing.T) {
	member := RolePermissions(ScopeCommunity, string(models.CommunityRoleMember))
	require.True(t, member.Contains(ActionCreatePost))
	require.True(t, member.Contains(ActionCreateComment))
	require.True(t, member.Contains(ActionAddReaction))
	require.False(t, member.Contains(ActionDeleteAnyPost))
	require.False(t, member.Contains(ActionManageCommunityMembers))

	moderator := RolePermissions(ScopeCommunity, string(models.CommunityRoleModerator))
	require.True(t, moderator.Contains(ActionCreatePost))
	require.True(t, moderator.Contains(ActionDeleteAnyPost))
	require.True(t, moderator.Contains(ActionPinPost))
	require.True(t, moderator.Contains(ActionManageCommunityMembers))
	require.False(t, moderator.Contains(ActionAssignCommunityAdmin))
	require.False(t, moderator.Contains(ActionEditCommunitySettings))

	admin := RolePermissions(ScopeCommunity, string(models.CommunityRoleAdmin))
	require.True(t, admin.Contains(ActionAssignCommunityAdmin))
	require.True(t, admin.Contains(ActionRemoveCommunityAdmin))
	require.True(t, admin.Contains(ActionEditCommunitySettings))
}

func TestRolePermissions_UnknownRoleOrScope(t *testing.T) {
	require.Empty(t, RolePermissions(ScopeCommunity, "owner"))
	require.Empty(t, RolePermissions(Scope("galaxy"), string(models.AppRoleAdmin)))
	require.False(t, HasPermission(ScopeOrg, "", ActionCreateCommunity))
}

func TestAllPermissions_Union(t *testing.T) {
	union := AllPermissions(ScopeCommunity,
		string(models.CommunityRoleMember),
		string(models.CommunityRoleModerator),
	)
	require.True(t, union.Contains(ActionCreatePost))
	require.True(t, union.Contains(ActionPinPost))
	require.False(t, union.Contains(ActionAssignCommunityAdmin))
}

func TestSet_Actions(t *testing.T) {
	set := newSet(ActionCreatePost, ActionPinPost)
	require.ElementsMatch(t, []Action{ActionCreatePost, ActionPinPost}, set.Actions())
}
