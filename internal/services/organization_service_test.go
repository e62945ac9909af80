package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"community-api/internal/models"
	"community-api/internal/repository"
)

func setupOrgService(t *testing.T) (*gorm.DB, *OrganizationService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
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

	return db, NewOrganizationService(db, repository.NewOrganizationRepository(db))
}

func orgServiceUser(t *testing.T, db *gorm.DB, username string, appRole models.AppRole) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x", AppRole: appRole}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreateOrganization(t *testing.T) {
	db, service := setupOrgService(t)
	owner := orgServiceUser(t, db, "owner", models.AppRoleUser)

	org, err := service.CreateOrganization(CreateOrganizationInput{
		Name:    "Acme Corp",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "acme-corp", org.Slug)
	require.NotEmpty(t, org.InviteCode)

	// The creator became the first org admin and got stamped with the org.
	var member models.OrgMember
	require.NoError(t, db.Where("org_id = ? AND user_id = ?", org.ID, owner.ID).First(&member).Error)
	require.Equal(t, models.OrgRoleAdmin, member.Role)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, owner.ID).Error)
	require.NotNil(t, reloaded.OrgID)
	require.Equal(t, org.ID, *reloaded.OrgID)
}

func TestCreateOrganization_EmptyName(t *testing.T) {
	db, service := setupOrgService(t)
	owner := orgServiceUser(t, db, "owner", models.AppRoleUser)

	_, err := service.CreateOrganization(CreateOrganizationInput{Name: "  ", OwnerID: owner.ID})
	require.ErrorIs(t, err, ErrInvalidOrganizationName)
}

func TestJoinOrganizationByInvite(t *testing.T) {
	db, service := setupOrgService(t)
	owner := orgServiceUser(t, db, "owner", models.AppRoleUser)
	org, err := service.CreateOrganization(CreateOrganizationInput{Name: "Acme", OwnerID: owner.ID})
	require.NoError(t, err)

	joiner := orgServiceUser(t, db, "joiner", models.AppRoleUser)
	joined, err := service.JoinOrganizationByInvite(joiner.ID, org.InviteCode)
	require.NoError(t, err)
	require.Equal(t, org.ID, joined.ID)

	var member models.OrgMember
	require.NoError(t, db.Where("org_id = ? AND user_id = ?", org.ID, joiner.ID).First(&member).Error)
	require.Equal(t, models.OrgRoleUser, member.Role)

	_, err = service.JoinOrganizationByInvite(joiner.ID, org.InviteCode)
	require.ErrorIs(t, err, ErrAlreadyOrganizationMember)

	_, err = service.JoinOrganizationByInvite(joiner.ID, "BOGUS-CODE")
	require.ErrorIs(t, err, ErrInvalidInviteCode)
}

func TestUpdateOrganizationName_AdminOnly(t *testing.T) {
	db, service := setupOrgService(t)
	owner := orgServiceUser(t, db, "owner", models.AppRoleUser)
	org, err := service.CreateOrganization(CreateOrganizationInput{Name: "Acme", OwnerID: owner.ID})
	require.NoError(t, err)

	joiner := orgServiceUser(t, db, "joiner", models.AppRoleUser)
	_, err = service.JoinOrganizationByInvite(joiner.ID, org.InviteCode)
	require.NoError(t, err)

	// Plain org members lack MANAGE_ORG_SETTINGS.
	_, err = service.UpdateOrganizationName(joiner.ID, org.ID, "Evil Corp")
	require.ErrorIs(t, err, ErrNotAllowed)

	updated, err := service.UpdateOrganizationName(owner.ID, org.ID, "Acme Industries")
	require.NoError(t, err)
	require.Equal(t, "Acme Industries", updated.Name)

	// App admins pass without belonging to the org.
	root := orgServiceUser(t, db, "root", models.AppRoleAdmin)
	_, err = service.UpdateOrganizationName(root.ID, org.ID, "Acme Global")
	require.NoError(t, err)
}

func TestRegenerateInviteCode(t *testing.T) {
	db, service := setupOrgService(t)
	owner := orgServiceUser(t, db, "owner", models.AppRoleUser)
	org, err := service.CreateOrganization(CreateOrganizationInput{Name: "Acme", OwnerID: owner.ID})
	require.NoError(t, err)

	oldCode := org.InviteCode
	regenerated, err := service.RegenerateInviteCode(owner.ID, org.ID)
	require.NoError(t, err)
	require.NotEqual(t, oldCode, regenerated.InviteCode)

	// The old code stops working.
	stranger := orgServiceUser(t, db, "stranger", models.AppRoleUser)
	_, err = service.JoinOrganizationByInvite(stranger.ID, oldCode)
	require.ErrorIs(t, err, ErrInvalidInviteCode)
}

func TestRemoveMember(t *testing.T) {
	db, service := setupOrgService(t)
	owner := orgServiceUser(t, db, "owner", models.AppRoleUser)
	org, err := service.CreateOrganization(CreateOrganizationInput{Name: "Acme", OwnerID: owner.ID})
	require.NoError(t, err)

	joiner := orgServiceUser(t, db, "joiner", models.AppRoleUser)
	_, err = service.JoinOrganizationByInvite(joiner.ID, org.InviteCode)
	require.NoError(t, err)

	require.ErrorIs(t, service.RemoveMember(org.ID, owner.ID, owner.ID), ErrCannotRemoveYourself)
	require.ErrorIs(t, service.RemoveMember(org.ID, joiner.ID, owner.ID), ErrNotAllowed)

	require.NoError(t, service.RemoveMember(org.ID, owner.ID, joiner.ID))

	// The removed user's org pointer is cleared.
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, joiner.ID).Error)
	require.Nil(t, reloaded.OrgID)

	require.ErrorIs(t, service.RemoveMember(org.ID, owner.ID, joiner.ID), ErrOrganizationMemberNotFound)
}
