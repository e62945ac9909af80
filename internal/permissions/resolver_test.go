package permissions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"community-api/internal/models"
)

func setupResolverDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrgMember{},
		&models.Community{},
		&models.CommunityMember{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, appRole models.AppRole, orgID *uint64) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		PasswordHash: "hashed",
		AppRole:      appRole,
		OrgID:        orgID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createOrg(t *testing.T, db *gorm.DB, name string) *models.Organization {
	t.Helper()
	org := &models.Organization{
		Name:       name,
		Slug:       name,
		InviteCode: name + "-code",
	}
	require.NoError(t, db.Create(org).Error)
	return org
}

func createCommunity(t *testing.T, db *gorm.DB, slug string, orgID *uint64, creatorID uint64) *models.Community {
	t.Helper()
	community := &models.Community{
		Name:                slug,
		Slug:                slug,
		Type:                models.CommunityTypePrivate,
		OrgID:               orgID,
		PostCreationMinRole: models.CommunityRoleMember,
		CreatorID:           creatorID,
	}
	require.NoError(t, db.Create(community).Error)
	return community
}

func addOrgMember(t *testing.T, db *gorm.DB, orgID, userID uint64, role models.OrgRole) {
	t.Helper()
	require.NoError(t, db.Create(&models.OrgMember{
		OrgID:    orgID,
		UserID:   userID,
		Role:     role,
		Status:   models.MemberStatusActive,
		JoinedAt: time.Now(),
	}).Error)
}

func addCommunityMember(t *testing.T, db *gorm.DB, communityID, userID uint64, role models.CommunityRole, status models.MemberStatus) {
	t.Helper()
	require.NoError(t, db.Create(&models.CommunityMember{
		CommunityID:    communityID,
		UserID:         userID,
		Role:           role,
		MembershipType: models.MembershipTypeMember,
		Status:         status,
		JoinedAt:       time.Now(),
	}).Error)
}

func TestResolve_UserNotFound(t *testing.T) {
	db := setupResolverDB(t)

	_, err := Resolve(db, 9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestResolve_AppAdminHasEverything(t *testing.T) {
	db := setupResolverDB(t)
	admin := createUser(t, db, "root", models.AppRoleAdmin, nil)

	snap, err := Resolve(db, admin.ID)
	require.NoError(t, err)

	require.True(t, snap.IsAppAdmin())
	require.True(t, snap.CheckAppPermission(ActionManageUsers))
	require.True(t, snap.CheckOrgPermission(ActionManageOrgSettings))
	// No membership anywhere, any community id still passes.
	require.True(t, snap.CheckCommunityPermission(42, ActionManageCommunityMembers))
	require.True(t, snap.CheckCommunityPermission(42, ActionEditCommunitySettings))
}

func TestResolve_NoMembershipsYieldsEmptySet(t *testing.T) {
	db := setupResolverDB(t)
	user := createUser(t, db, "loner", models.AppRoleUser, nil)
	owner := createUser(t, db, "owner", models.AppRoleUser, nil)
	community := createCommunity(t, db, "somewhere", nil, owner.ID)

	snap, err := Resolve(db, user.ID)
	require.NoError(t, err)

	require.False(t, snap.IsAppAdmin())
	require.Empty(t, snap.CommunityPermissions(community.ID))
	require.False(t, snap.CheckCommunityPermission(community.ID, ActionCreatePost))
	require.False(t, snap.HasCommunityRole(community.ID))
	require.Empty(t, snap.OrgRole())
}

func TestResolve_CommunityMemberSet(t *testing.T) {
	db := setupResolverDB(t)
	user := createUser(t, db, "dana", models.AppRoleUser, nil)
	community := createCommunity(t, db, "chess", nil, user.ID)
	addCommunityMember(t, db, community.ID, user.ID, models.CommunityRoleMember, models.MemberStatusActive)

	snap, err := Resolve(db, user.ID)
	require.NoError(t, err)

	require.True(t, snap.CheckCommunityPermission(community.ID, ActionCreatePost))
	require.True(t, snap.CheckCommunityPermission(community.ID, ActionAddReaction))
	require.False(t, snap.CheckCommunityPermission(community.ID, ActionDeleteAnyPost))
	require.False(t, snap.CheckCommunityPermission(community.ID, ActionManageCommunityMembers))

	role, ok := snap.CommunityRole(community.ID)
	require.True(t, ok)
	require.Equal(t, models.CommunityRoleMember, role)
}

func TestResolve_OrgAdminUpgradedInOwnOrgCommunity(t *testing.T) {
	db := setupResolverDB(t)
	org := createOrg(t, db, "acme")
	user := createUser(t, db, "erin", models.AppRoleUser, &org.ID)
	addOrgMember(t, db, org.ID, user.ID, models.OrgRoleAdmin)
	community := createCommunity(t, db, "acme-general", &org.ID, user.ID)
	addCommunityMember(t, db, community.ID, user.ID, models.CommunityRoleMember, models.MemberStatusActive)

	snap, err := Resolve(db, user.ID)
	require.NoError(t, err)

	require.Equal(t, models.OrgRoleAdmin, snap.OrgRole())
	// A plain member record, but the org-admin override lifts it to the full
	// community admin set.
	require.True(t, snap.CheckCommunityPermission(community.ID, ActionAssignCommunityAdmin))
	require.True(t, snap.CheckCommunityPermission(community.ID, ActionEditCommunitySettings))
	// The org-scope actions ride along in the union.
	require.True(t, snap.CommunityPermissions(community.ID).Contains(ActionManageOrgSettings))
}

func TestResolve_OrgAdminWithoutRecordGetsNothing(t *testing.T) {
	db := setupResolverDB(t)
	org := createOrg(t, db, "acme")
	admin := createUser(t, db, "erin", models.AppRoleUser, &org.ID)
	addOrgMember(t, db, org.ID, admin.ID, models.OrgRoleAdmin)
	creator := createUser(t, db, "frank", models.AppRoleUser, &org.ID)
	community := createCommunity(t, db, "acme-general", &org.ID, creator.ID)

	snap, err := Resolve(db, admin.ID)
	require.NoError(t, err)

	// The override only applies on top of an existing membership record. An
	// org admin who never joined the community gets the empty set.
	require.Empty(t, snap.CommunityPermissions(community.ID))
	require.False(t, snap.CheckCommunityPermission(community.ID, ActionManageCommunityMembers))
}

func TestResolve_OrgAdminOverrideDoesNotCrossOrgs(t *testing.T) {
	db := setupResolverDB(t)
	homeOrg := createOrg(t, db, "home")
	otherOrg := createOrg(t, db, "other")
	user := createUser(t, db, "gail", models.AppRoleUser, &homeOrg.ID)
	addOrgMember(t, db, homeOrg.ID, user.ID, models.OrgRoleAdmin)

	creator := createUser(t, db, "hugo", models.AppRoleUser, &otherOrg.ID)
	foreign := createCommunity(t, db, "other-general", &otherOrg.ID, creator.ID)
	addCommunityMember(t, db, foreign.ID, user.ID, models.CommunityRoleMember, models.MemberStatusActive)

	snap, err := Resolve(db, user.ID)
	require.NoError(t, err)

	// Plain member set plus org-scope actions; no admin upgrade in a
	// community owned by someone else's org.
	require.True(t, snap.CheckCommunityPermission(foreign.ID, ActionCreatePost))
	require.False(t, snap.CheckCommunityPermission(foreign.ID, ActionAssignCommunityAdmin))
	require.False(t, snap.CheckCommunityPermission(foreign.ID, ActionEditCommunitySettings))
}

func TestResolve_ModeratorPlusOrgRoleUnion(t *testing.T) {
	db := setupResolverDB(t)
	org := createOrg(t, db, "acme")
	user := createUser(t, db, "ivy", models.AppRoleUser, &org.ID)
	addOrgMember(t, db, org.ID, user.ID, models.OrgRoleUser)
	community := createCommunity(t, db, "acme-general", &org.ID, user.ID)
	addCommunityMember(t, db, community.ID, user.ID, models.CommunityRoleModerator, models.MemberStatusActive)

	snap, err := Resolve(db, user.ID)
	require.NoError(t, err)

	set := snap.CommunityPermissions(community.ID)
	require.True(t, set.Contains(ActionPinPost))
	require.True(t, set.Contains(ActionManageCommunityMembers))
	// From the org-user set.
	require.True(t, set.Contains(ActionCreateCommunity))
	require.False(t, set.Contains(ActionAssignCommunityAdmin))
}

func TestResolve_IgnoresPendingAndDeletedMemberships(t *testing.T) {
	db := setupResolverDB(t)
	user := createUser(t, db, "jo", models.AppRoleUser, nil)

	pendingIn := createCommunity(t, db, "pending-club", nil, user.ID)
	addCommunityMember(t, db, pendingIn.ID, user.ID, models.CommunityRoleMember, models.MemberStatusPending)

	gone := createCommunity(t, db, "gone-club", nil, user.ID)
	addCommunityMember(t, db, gone.ID, user.ID, models.CommunityRoleAdmin, models.MemberStatusActive)
	require.NoError(t, db.Delete(&models.Community{}, gone.ID).Error)

	snap, err := Resolve(db, user.ID)
	require.NoError(t, err)

	require.Empty(t, snap.CommunityPermissions(pendingIn.ID))
	require.Empty(t, snap.CommunityPermissions(gone.ID))
	require.Empty(t, snap.CommunityRoles())
}

func TestCommunityPermissions_ZeroIDPanics(t *testing.T) {
	db := setupResolverDB(t)
	user := createUser(t, db, "kay", models.AppRoleUser, nil)

	snap, err := Resolve(db, user.ID)
	require.NoError(t, err)

	require.Panics(t, func() {
		snap.CommunityPermissions(0)
	})
	require.Panics(t, func() {
		snap.CheckCommunityPermission(0, ActionCreatePost)
	})
}

func TestResolve_AppAdminForcedOrgAdmin(t *testing.T) {
	db := setupResolverDB(t)
	org := createOrg(t, db, "acme")
	admin := createUser(t, db, "root", models.AppRoleAdmin, &org.ID)
	addOrgMember(t, db, org.ID, admin.ID, models.OrgRoleUser)

	snap, err := Resolve(db, admin.ID)
	require.NoError(t, err)

	// The row says plain user; the app role wins.
	require.Equal(t, models.OrgRoleAdmin, snap.OrgRole())
}
