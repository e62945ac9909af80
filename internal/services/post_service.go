package services

import (
	"errors"
	"fmt"

	"community-api/internal/models"
	"community-api/internal/permissions"
	"community-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrEmptyPostTitle  = errors.New("post title cannot be empty")
	ErrEmptyComment    = errors.New("comment body cannot be empty")
	ErrPostDeleted     = errors.New("post has been deleted")
	ErrMinRoleNotMet   = errors.New("community role too low to post here")
	ErrInvalidReaction = errors.New("invalid reaction kind")
)

// PostService is the thin content layer. It only enforces the invariants the
// platform cares about: the community's post-creation floor, the soft-delete
// flag, and permission checks through the resolver.
type PostService struct {
	db            *gorm.DB
	postRepo      repository.PostRepository
	communityRepo repository.CommunityRepository
}

// NewPostService creates a new PostService.
func NewPostService(db *gorm.DB, postRepo repository.PostRepository, communityRepo repository.CommunityRepository) *PostService {
	return &PostService{
		db:            db,
		postRepo:      postRepo,
		communityRepo: communityRepo,
	}
}

// CreatePostInput represents parameters to create a post.
type CreatePostInput struct {
	AuthorID    uint64
	CommunityID uint64
	Title       string
	Body        string
}

// CreatePost creates a post in a community. The author needs CREATE_POST
// there and a role at or above the community's PostCreationMinRole; the
// resolver's override rules apply, so org and app admins pass the floor.
func (s *PostService) CreatePost(input CreatePostInput) (*models.Post, error) {
	if input.Title == "" {
		return nil, ErrEmptyPostTitle
	}

	community, err := s.communityRepo.FindByID(input.CommunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}

	snap, err := permissions.Resolve(s.db, input.AuthorID)
	if err != nil {
		if errors.Is(err, permissions.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}
	if !snap.CheckCommunityPermission(input.CommunityID, permissions.ActionCreatePost) {
		return nil, ErrNotAllowed
	}
	if !s.meetsPostFloor(snap, community) {
		return nil, ErrMinRoleNotMet
	}

	post := &models.Post{
		Title:       input.Title,
		Body:        input.Body,
		AuthorID:    input.AuthorID,
		CommunityID: &community.ID,
		OrgID:       community.OrgID,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// meetsPostFloor checks the community's posting floor against the author's
// role, with the same override ladder the resolver applies.
func (s *PostService) meetsPostFloor(snap *permissions.Snapshot, community *models.Community) bool {
	if snap.IsAppAdmin() {
		return true
	}
	role, ok := snap.CommunityRole(community.ID)
	if !ok {
		return false
	}
	if snap.OrgRole() == models.OrgRoleAdmin && community.OrgID != nil {
		user := snap.User()
		if user.OrgID != nil && *user.OrgID == *community.OrgID {
			role = models.CommunityRoleAdmin
		}
	}
	return permissions.MeetsMinRole(role, community.PostCreationMinRole)
}

// GetPost returns a post with its comment thread. Soft-deleted posts are
// still returned so the thread stays reachable; callers can inspect
// IsDeleted.
func (s *PostService) GetPost(id uint64) (*models.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}

// ListPosts lists a community's visible posts.
func (s *PostService) ListPosts(communityID uint64, offset, limit int) ([]models.Post, int64, error) {
	posts, total, err := s.postRepo.ListByCommunity(communityID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, total, nil
}

// DeletePost soft-deletes a post. Allowed for the author and for anyone
// holding DELETE_ANY_POST in the post's community. The row and its comments
// survive behind the IsDeleted flag.
func (s *PostService) DeletePost(actorID, postID uint64) error {
	post, err := s.GetPost(postID)
	if err != nil {
		return err
	}
	if post.IsDeleted {
		return ErrPostDeleted
	}

	if post.AuthorID != actorID {
		snap, err := permissions.Resolve(s.db, actorID)
		if err != nil {
			if errors.Is(err, permissions.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to resolve permissions: %w", err)
		}
		if post.CommunityID == nil || !snap.CheckCommunityPermission(*post.CommunityID, permissions.ActionDeleteAnyPost) {
			return ErrNotAllowed
		}
	}

	if err := s.postRepo.MarkDeleted(postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// PinPost pins or unpins a post; needs PIN_POST in the community.
func (s *PostService) PinPost(actorID, postID uint64, pinned bool) error {
	post, err := s.GetPost(postID)
	if err != nil {
		return err
	}
	if post.CommunityID == nil {
		return ErrNotAllowed
	}

	snap, err := permissions.Resolve(s.db, actorID)
	if err != nil {
		if errors.Is(err, permissions.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to resolve permissions: %w", err)
	}
	if !snap.CheckCommunityPermission(*post.CommunityID, permissions.ActionPinPost) {
		return ErrNotAllowed
	}

	if err := s.postRepo.SetPinned(postID, pinned); err != nil {
		return fmt.Errorf("failed to pin post: %w", err)
	}
	return nil
}

// CreateComment adds a comment to a post; needs CREATE_COMMENT in the
// post's community. Commenting on a soft-deleted post is still allowed so
// existing threads keep working.
func (s *PostService) CreateComment(actorID, postID uint64, parentID *uint64, body string) (*models.Comment, error) {
	if body == "" {
		return nil, ErrEmptyComment
	}

	post, err := s.GetPost(postID)
	if err != nil {
		return nil, err
	}

	if post.CommunityID != nil {
		snap, err := permissions.Resolve(s.db, actorID)
		if err != nil {
			if errors.Is(err, permissions.ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to resolve permissions: %w", err)
		}
		if !snap.CheckCommunityPermission(*post.CommunityID, permissions.ActionCreateComment) {
			return nil, ErrNotAllowed
		}
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: actorID,
		ParentID: parentID,
		Body:     body,
	}
	if err := s.postRepo.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ToggleReaction adds the reaction if the user has not reacted with that
// kind, removes it if they have. Returns true when the reaction now exists.
func (s *PostService) ToggleReaction(actorID, postID uint64, kind string) (bool, error) {
	if kind == "" {
		return false, ErrInvalidReaction
	}

	post, err := s.GetPost(postID)
	if err != nil {
		return false, err
	}

	if post.CommunityID != nil {
		snap, err := permissions.Resolve(s.db, actorID)
		if err != nil {
			if errors.Is(err, permissions.ErrUserNotFound) {
				return false, ErrUserNotFound
			}
			return false, fmt.Errorf("failed to resolve permissions: %w", err)
		}
		if !snap.CheckCommunityPermission(*post.CommunityID, permissions.ActionAddReaction) {
			return false, ErrNotAllowed
		}
	}

	_, err = s.postRepo.FindReaction(postID, actorID, kind)
	if err == nil {
		if err := s.postRepo.DeleteReaction(postID, actorID, kind); err != nil {
			return false, fmt.Errorf("failed to remove reaction: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to check reaction: %w", err)
	}

	reaction := &models.Reaction{PostID: postID, UserID: actorID, Kind: kind}
	if err := s.postRepo.CreateReaction(reaction); err != nil {
		return false, fmt.Errorf("failed to add reaction: %w", err)
	}
	return true, nil
}
