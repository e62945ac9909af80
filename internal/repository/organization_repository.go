package repository

import (
	"community-api/internal/models"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// CreateWithAdmin creates an organization and its first admin member within a
// single transaction. The member's user also gets the org stamped as their
// home organization.
func (r *GormOrganizationRepository) CreateWithAdmin(org *models.Organization, member *models.OrgMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}

		member.OrgID = org.ID
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).Where("id = ?", member.UserID).
			Update("org_id", org.ID).Error
	})
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByInviteCode finds an organization by invite code
func (r *GormOrganizationRepository) FindByInviteCode(code string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("invite_code = ?", code).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Update updates an organization
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}

// AddMember adds a member to an organization and stamps the user's org id
func (r *GormOrganizationRepository) AddMember(member *models.OrgMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", member.UserID).
			Update("org_id", member.OrgID).Error
	})
}

// RemoveMember removes a member from an organization
func (r *GormOrganizationRepository) RemoveMember(orgID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("org_id = ? AND user_id = ?", orgID, userID).
			Delete(&models.OrgMember{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ? AND org_id = ?", userID, orgID).
			Update("org_id", nil).Error
	})
}

// FindMember finds a specific organization member
func (r *GormOrganizationRepository) FindMember(orgID, userID uint64) (*models.OrgMember, error) {
	var member models.OrgMember
	if err := r.db.Where("org_id = ? AND user_id = ?", orgID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of an organization
func (r *GormOrganizationRepository) ListMembers(orgID uint64) ([]models.OrgMember, error) {
	var members []models.OrgMember
	if err := r.db.Preload("User").
		Where("org_id = ?", orgID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembersByUserID lists all organizations a user is a member of
func (r *GormOrganizationRepository) ListMembersByUserID(userID uint64) ([]models.OrgMember, error) {
	var memberships []models.OrgMember
	if err := r.db.Preload("Organization").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
