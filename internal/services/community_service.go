package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"community-api/internal/models"
	"community-api/internal/permissions"
	"community-api/internal/repository"
	"community-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidCommunityName = errors.New("community name cannot be empty")
	ErrCommunitySlugTaken   = errors.New("community slug already in use")
	ErrInvalidCommunityType = errors.New("invalid community type")
	ErrInvalidMinRole       = errors.New("invalid post creation min role")
)

// CommunityService provides business logic for community operations.
type CommunityService struct {
	db            *gorm.DB
	communityRepo repository.CommunityRepository
}

// NewCommunityService creates a new CommunityService.
func NewCommunityService(db *gorm.DB, communityRepo repository.CommunityRepository) *CommunityService {
	return &CommunityService{
		db:            db,
		communityRepo: communityRepo,
	}
}

// CreateCommunityInput represents parameters to create a community.
type CreateCommunityInput struct {
	Name        string
	Description string
	Type        models.CommunityType
	OrgID       *uint64
	CreatorID   uint64
}

// CreateCommunity creates a community inside the creator's organization and
// makes the creator its admin. Requires CREATE_COMMUNITY in org scope when
// the community belongs to an org.
func (s *CommunityService) CreateCommunity(input CreateCommunityInput) (*models.Community, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidCommunityName
	}
	if input.Type == "" {
		input.Type = models.CommunityTypePublic
	}
	if input.Type != models.CommunityTypePublic && input.Type != models.CommunityTypePrivate {
		return nil, ErrInvalidCommunityType
	}

	snap, err := permissions.Resolve(s.db, input.CreatorID)
	if err != nil {
		if errors.Is(err, permissions.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}
	if input.OrgID != nil {
		user := snap.User()
		sameOrg := user.OrgID != nil && *user.OrgID == *input.OrgID
		if !snap.IsAppAdmin() && !sameOrg {
			return nil, ErrNotAllowed
		}
		if !snap.CheckOrgPermission(permissions.ActionCreateCommunity) {
			return nil, ErrNotAllowed
		}
	}

	slug := utils.Slugify(input.Name)
	if _, err := s.communityRepo.FindBySlug(slug); err == nil {
		return nil, ErrCommunitySlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}

	community := &models.Community{
		Name:                input.Name,
		Slug:                slug,
		Description:         input.Description,
		Type:                input.Type,
		OrgID:               input.OrgID,
		PostCreationMinRole: models.CommunityRoleMember,
		CreatorID:           input.CreatorID,
	}
	member := &models.CommunityMember{
		UserID:         input.CreatorID,
		Role:           models.CommunityRoleAdmin,
		MembershipType: models.MembershipTypeMember,
		Status:         models.MemberStatusActive,
		JoinedAt:       time.Now(),
	}

	if err := s.communityRepo.CreateWithAdmin(community, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCommunitySlugTaken
		}
		return nil, fmt.Errorf("failed to create community: %w", err)
	}

	return community, nil
}

// GetCommunity returns a community by id.
func (s *CommunityService) GetCommunity(id uint64) (*models.Community, error) {
	community, err := s.communityRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}
	return community, nil
}

// ListCommunitiesByOrg lists the communities of one organization.
func (s *CommunityService) ListCommunitiesByOrg(orgID uint64) ([]models.Community, error) {
	communities, err := s.communityRepo.ListByOrg(orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}
	return communities, nil
}

// ListMembers lists a community's members.
func (s *CommunityService) ListMembers(communityID uint64) ([]models.CommunityMember, error) {
	members, err := s.communityRepo.ListMembers(communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// UpdateCommunityInput carries the mutable community settings.
type UpdateCommunityInput struct {
	Description         *string
	Type                *models.CommunityType
	PostCreationMinRole *models.CommunityRole
}

// UpdateCommunity changes community settings. Requires
// EDIT_COMMUNITY_SETTINGS in the community (community admins via the
// wildcard, org admins via override, app admins always).
func (s *CommunityService) UpdateCommunity(actorID, communityID uint64, input UpdateCommunityInput) (*models.Community, error) {
	community, err := s.GetCommunity(communityID)
	if err != nil {
		return nil, err
	}

	snap, err := permissions.Resolve(s.db, actorID)
	if err != nil {
		if errors.Is(err, permissions.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}
	if !snap.CheckCommunityPermission(communityID, permissions.ActionEditCommunitySettings) {
		return nil, ErrNotAllowed
	}

	if input.Description != nil {
		community.Description = *input.Description
	}
	if input.Type != nil {
		if *input.Type != models.CommunityTypePublic && *input.Type != models.CommunityTypePrivate {
			return nil, ErrInvalidCommunityType
		}
		community.Type = *input.Type
	}
	if input.PostCreationMinRole != nil {
		if permissions.Rank(*input.PostCreationMinRole) == 0 {
			return nil, ErrInvalidMinRole
		}
		community.PostCreationMinRole = *input.PostCreationMinRole
	}

	if err := s.communityRepo.Update(community); err != nil {
		return nil, fmt.Errorf("failed to update community: %w", err)
	}
	return community, nil
}
