package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"community-api/internal/models"
	"community-api/internal/repository"
)

type postTestEnv struct {
	db      *gorm.DB
	service *PostService
}

func setupPostTestEnv(t *testing.T) postTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrgMember{},
		&models.Community{},
		&models.CommunityMember{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	service := NewPostService(db, repository.NewPostRepository(db), repository.NewCommunityRepository(db))
	return postTestEnv{db: db, service: service}
}

func (env postTestEnv) createUser(t *testing.T, username string, appRole models.AppRole, orgID *uint64) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x", AppRole: appRole, OrgID: orgID}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env postTestEnv) createCommunity(t *testing.T, slug string, minRole models.CommunityRole, creatorID uint64) *models.Community {
	t.Helper()
	community := &models.Community{
		Name:                slug,
		Slug:                slug,
		Type:                models.CommunityTypePublic,
		PostCreationMinRole: minRole,
		CreatorID:           creatorID,
	}
	require.NoError(t, env.db.Create(community).Error)
	return community
}

func (env postTestEnv) addMember(t *testing.T, communityID, userID uint64, role models.CommunityRole) {
	t.Helper()
	require.NoError(t, env.db.Create(&models.CommunityMember{
		CommunityID:    communityID,
		UserID:         userID,
		Role:           role,
		MembershipType: models.MembershipTypeMember,
		Status:         models.MemberStatusActive,
		JoinedAt:       time.Now(),
	}).Error)
}

func TestCreatePost_MemberInMemberFloorCommunity(t *testing.T) {
	env := setupPostTestEnv(t)
	user := env.createUser(t, "author", models.AppRoleUser, nil)
	community := env.createCommunity(t, "club", models.CommunityRoleMember, user.ID)
	env.addMember(t, community.ID, user.ID, models.CommunityRoleMember)

	post, err := env.service.CreatePost(CreatePostInput{
		AuthorID:    user.ID,
		CommunityID: community.ID,
		Title:       "hello",
		Body:        "first post",
	})
	require.NoError(t, err)
	require.Equal(t, community.ID, *post.CommunityID)
}

func TestCreatePost_FloorBlocksLowerRoles(t *testing.T) {
	env := setupPostTestEnv(t)
	creator := env.createUser(t, "creator", models.AppRoleUser, nil)
	community := env.createCommunity(t, "announcements", models.CommunityRoleModerator, creator.ID)
	member := env.createUser(t, "member", models.AppRoleUser, nil)
	env.addMember(t, community.ID, member.ID, models.CommunityRoleMember)

	_, err := env.service.CreatePost(CreatePostInput{
		AuthorID:    member.ID,
		CommunityID: community.ID,
		Title:       "not allowed",
	})
	require.ErrorIs(t, err, ErrMinRoleNotMet)

	moderator := env.createUser(t, "mod", models.AppRoleUser, nil)
	env.addMember(t, community.ID, moderator.ID, models.CommunityRoleModerator)

	_, err = env.service.CreatePost(CreatePostInput{
		AuthorID:    moderator.ID,
		CommunityID: community.ID,
		Title:       "allowed",
	})
	require.NoError(t, err)
}

func TestCreatePost_NonMemberForbidden(t *testing.T) {
	env := setupPostTestEnv(t)
	creator := env.createUser(t, "creator", models.AppRoleUser, nil)
	community := env.createCommunity(t, "club", models.CommunityRoleMember, creator.ID)
	outsider := env.createUser(t, "outsider", models.AppRoleUser, nil)

	_, err := env.service.CreatePost(CreatePostInput{
		AuthorID:    outsider.ID,
		CommunityID: community.ID,
		Title:       "hi",
	})
	require.ErrorIs(t, err, ErrNotAllowed)
}

func TestCreatePost_AppAdminBypassesFloor(t *testing.T) {
	env := setupPostTestEnv(t)
	creator := env.createUser(t, "creator", models.AppRoleUser, nil)
	community := env.createCommunity(t, "announcements", models.CommunityRoleAdmin, creator.ID)
	root := env.createUser(t, "root", models.AppRoleAdmin, nil)

	_, err := env.service.CreatePost(CreatePostInput{
		AuthorID:    root.ID,
		CommunityID: community.ID,
		Title:       "system notice",
	})
	require.NoError(t, err)
}

func TestDeletePost_AuthorAndModerator(t *testing.T) {
	env := setupPostTestEnv(t)
	author := env.createUser(t, "author", models.AppRoleUser, nil)
	community := env.createCommunity(t, "club", models.CommunityRoleMember, author.ID)
	env.addMember(t, community.ID, author.ID, models.CommunityRoleMember)

	post, err := env.service.CreatePost(CreatePostInput{
		AuthorID:    author.ID,
		CommunityID: community.ID,
		Title:       "mine",
	})
	require.NoError(t, err)

	// Another plain member cannot delete it.
	other := env.createUser(t, "other", models.AppRoleUser, nil)
	env.addMember(t, community.ID, other.ID, models.CommunityRoleMember)
	require.ErrorIs(t, env.service.DeletePost(other.ID, post.ID), ErrNotAllowed)

	// A moderator can.
	moderator := env.createUser(t, "mod", models.AppRoleUser, nil)
	env.addMember(t, community.ID, moderator.ID, models.CommunityRoleModerator)
	require.NoError(t, env.service.DeletePost(moderator.ID, post.ID))

	// Deleting twice reports the soft-deleted state.
	require.ErrorIs(t, env.service.DeletePost(author.ID, post.ID), ErrPostDeleted)

	// The post is gone from listings but the thread stays reachable.
	posts, total, err := env.service.ListPosts(community.ID, 0, 20)
	require.NoError(t, err)
	require.Empty(t, posts)
	require.Equal(t, int64(0), total)

	fetched, err := env.service.GetPost(post.ID)
	require.NoError(t, err)
	require.True(t, fetched.IsDeleted)
}

func TestCreateComment_OnDeletedPost(t *testing.T) {
	env := setupPostTestEnv(t)
	author := env.createUser(t, "author", models.AppRoleUser, nil)
	community := env.createCommunity(t, "club", models.CommunityRoleMember, author.ID)
	env.addMember(t, community.ID, author.ID, models.CommunityRoleMember)

	post, err := env.service.CreatePost(CreatePostInput{
		AuthorID:    author.ID,
		CommunityID: community.ID,
		Title:       "thread",
	})
	require.NoError(t, err)
	require.NoError(t, env.service.DeletePost(author.ID, post.ID))

	comment, err := env.service.CreateComment(author.ID, post.ID, nil, "still here")
	require.NoError(t, err)
	require.Equal(t, post.ID, comment.PostID)

	_, err = env.service.CreateComment(author.ID, post.ID, nil, "")
	require.ErrorIs(t, err, ErrEmptyComment)
}

func TestToggleReaction(t *testing.T) {
	env := setupPostTestEnv(t)
	author := env.createUser(t, "author", models.AppRoleUser, nil)
	community := env.createCommunity(t, "club", models.CommunityRoleMember, author.ID)
	env.addMember(t, community.ID, author.ID, models.CommunityRoleMember)

	post, err := env.service.CreatePost(CreatePostInput{
		AuthorID:    author.ID,
		CommunityID: community.ID,
		Title:       "react to me",
	})
	require.NoError(t, err)

	active, err := env.service.ToggleReaction(author.ID, post.ID, "like")
	require.NoError(t, err)
	require.True(t, active)

	active, err = env.service.ToggleReaction(author.ID, post.ID, "like")
	require.NoError(t, err)
	require.False(t, active)

	_, err = env.service.ToggleReaction(author.ID, post.ID, "")
	require.ErrorIs(t, err, ErrInvalidReaction)
}

func TestPinPost_RequiresPinPermission(t *testing.T) {
	env := setupPostTestEnv(t)
	author := env.createUser(t, "author", models.AppRoleUser, nil)
	community := env.createCommunity(t, "club", models.CommunityRoleMember, author.ID)
	env.addMember(t, community.ID, author.ID, models.CommunityRoleMember)

	post, err := env.service.CreatePost(CreatePostInput{
		AuthorID:    author.ID,
		CommunityID: community.ID,
		Title:       "pinnable",
	})
	require.NoError(t, err)

	// Plain members cannot pin, not even their own posts.
	require.ErrorIs(t, env.service.PinPost(author.ID, post.ID, true), ErrNotAllowed)

	moderator := env.createUser(t, "mod", models.AppRoleUser, nil)
	env.addMember(t, community.ID, moderator.ID, models.CommunityRoleModerator)
	require.NoError(t, env.service.PinPost(moderator.ID, post.ID, true))

	fetched, err := env.service.GetPost(post.ID)
	require.NoError(t, err)
	require.True(t, fetched.IsPinned)
}
