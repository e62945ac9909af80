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
	ErrOrganizationNotFound       = errors.New("organization not found")
	ErrInvalidOrganizationName    = errors.New("organization name cannot be empty")
	ErrOrganizationNameTaken      = errors.New("organization name or slug already in use")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
	ErrInvalidInviteCode          = errors.New("invalid invite code")
	ErrAlreadyOrganizationMember  = errors.New("user is already a member of this organization")
	ErrCannotRemoveYourself       = errors.New("cannot remove yourself from the organization")
	ErrOrganizationMemberNotFound = errors.New("organization member not found")
)

// OrganizationService provides business logic for organization operations.
type OrganizationService struct {
	db      *gorm.DB
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(db *gorm.DB, orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		db:      db,
		orgRepo: orgRepo,
	}
}

// CreateOrganizationInput represents parameters to create a new organization.
type CreateOrganizationInput struct {
	Name    string
	OwnerID uint64
}

// CreateOrganization creates a new organization and makes the creator its
// first org admin.
func (s *OrganizationService) CreateOrganization(input CreateOrganizationInput) (*models.Organization, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidOrganizationName
	}

	snap, err := permissions.Resolve(s.db, input.OwnerID)
	if err != nil {
		if errors.Is(err, permissions.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}
	if !snap.CheckAppPermission(permissions.ActionCreateOrganization) {
		return nil, ErrNotAllowed
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	org := &models.Organization{
		Name:       input.Name,
		Slug:       utils.Slugify(input.Name),
		InviteCode: inviteCode,
	}
	member := &models.OrgMember{
		UserID:   input.OwnerID,
		Role:     models.OrgRoleAdmin,
		Status:   models.MemberStatusActive,
		JoinedAt: time.Now(),
	}

	if err := s.orgRepo.CreateWithAdmin(org, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrOrganizationNameTaken
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	return org, nil
}

// ListOrganizationsForUser returns organizations the user belongs to.
func (s *OrganizationService) ListOrganizationsForUser(userID uint64) ([]models.OrgMember, error) {
	memberships, err := s.orgRepo.ListMembersByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return memberships, nil
}

// GetOrganizationWithMembers returns an organization and all of its members.
func (s *OrganizationService) GetOrganizationWithMembers(orgID uint64) (*models.Organization, []models.OrgMember, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOrganizationNotFound
		}
		return nil, nil, fmt.Errorf("failed to find organization: %w", err)
	}

	members, err := s.orgRepo.ListMembers(orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list organization members: %w", err)
	}

	return org, members, nil
}

// UpdateOrganizationName renames an organization. Requires
// MANAGE_ORG_SETTINGS.
func (s *OrganizationService) UpdateOrganizationName(actorID, orgID uint64, name string) (*models.Organization, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidOrganizationName
	}

	if err := s.requireOrgPermission(actorID, orgID, permissions.ActionManageOrgSettings); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	org.Name = name
	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, nil
}

// JoinOrganizationByInvite adds a user to an organization via invite code.
func (s *OrganizationService) JoinOrganizationByInvite(userID uint64, inviteCode string) (*models.Organization, error) {
	org, err := s.orgRepo.FindByInviteCode(inviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find organization by invite code: %w", err)
	}

	if _, err := s.orgRepo.FindMember(org.ID, userID); err == nil {
		return nil, ErrAlreadyOrganizationMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.OrgMember{
		OrgID:    org.ID,
		UserID:   userID,
		Role:     models.OrgRoleUser,
		Status:   models.MemberStatusActive,
		JoinedAt: time.Now(),
	}

	if err := s.orgRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member to organization: %w", err)
	}

	return org, nil
}

// RegenerateInviteCode generates a new invite code for the organization.
// Requires MANAGE_ORG_SETTINGS.
func (s *OrganizationService) RegenerateInviteCode(actorID, orgID uint64) (*models.Organization, error) {
	if err := s.requireOrgPermission(actorID, orgID, permissions.ActionManageOrgSettings); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	org.InviteCode = code
	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update invite code: %w", err)
	}

	return org, nil
}

// RemoveMember removes a member from the organization. Requires
// MANAGE_ORG_MEMBERS; removing yourself is rejected.
func (s *OrganizationService) RemoveMember(orgID, actorID, targetID uint64) error {
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	if err := s.requireOrgPermission(actorID, orgID, permissions.ActionManageOrgMembers); err != nil {
		return err
	}

	if _, err := s.orgRepo.FindMember(orgID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationMemberNotFound
		}
		return fmt.Errorf("failed to find organization member: %w", err)
	}

	if err := s.orgRepo.RemoveMember(orgID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// requireOrgPermission checks an org-scope action for an actor against their
// own organization. App admins pass any org; org members only their own.
func (s *OrganizationService) requireOrgPermission(actorID, orgID uint64, action permissions.Action) error {
	snap, err := permissions.Resolve(s.db, actorID)
	if err != nil {
		if errors.Is(err, permissions.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to resolve permissions: %w", err)
	}
	if snap.IsAppAdmin() {
		return nil
	}
	user := snap.User()
	if user.OrgID == nil || *user.OrgID != orgID {
		return ErrNotAllowed
	}
	if !snap.CheckOrgPermission(action) {
		return ErrNotAllowed
	}
	return nil
}
