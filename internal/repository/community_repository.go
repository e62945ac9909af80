package repository

import (
	"time"

	"community-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCommunityRepository is a GORM implementation of CommunityRepository
type GormCommunityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &GormCommunityRepository{db: db}
}

// CreateWithAdmin creates a community and its creator's admin membership
// within a single transaction.
func (r *GormCommunityRepository) CreateWithAdmin(community *models.Community, member *models.CommunityMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(community).Error; err != nil {
			return err
		}

		member.CommunityID = community.ID
		return tx.Create(member).Error
	})
}

// FindByID finds a community by ID
func (r *GormCommunityRepository) FindByID(id uint64) (*models.Community, error) {
	var community models.Community
	if err := r.db.First(&community, id).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

// FindBySlug finds a community by slug
func (r *GormCommunityRepository) FindBySlug(slug string) (*models.Community, error) {
	var community models.Community
	if err := r.db.Where("slug = ?", slug).First(&community).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

// ListByOrg lists the communities of one organization
func (r *GormCommunityRepository) ListByOrg(orgID uint64) ([]models.Community, error) {
	var communities []models.Community
	if err := r.db.Where("org_id = ?", orgID).Find(&communities).Error; err != nil {
		return nil, err
	}
	return communities, nil
}

// Update updates a community
func (r *GormCommunityRepository) Update(community *models.Community) error {
	return r.db.Save(community).Error
}

// UpsertMember creates or updates the membership row for (community, user)
func (r *GormCommunityRepository) UpsertMember(member *models.CommunityMember) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"role", "membership_type", "status",
		}),
	}).Create(member).Error
}

// AddMembersIdempotent bulk-inserts member rows, silently skipping pairs that
// already have one. Returns the number of rows actually inserted.
func (r *GormCommunityRepository) AddMembersIdempotent(members []models.CommunityMember) (int64, error) {
	if len(members) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&members)
	return result.RowsAffected, result.Error
}

// FindMember finds a specific community member
func (r *GormCommunityRepository) FindMember(communityID, userID uint64) (*models.CommunityMember, error) {
	var member models.CommunityMember
	if err := r.db.Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a community
func (r *GormCommunityRepository) ListMembers(communityID uint64) ([]models.CommunityMember, error) {
	var members []models.CommunityMember
	if err := r.db.Preload("User").
		Where("community_id = ?", communityID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// RemoveMember deletes the membership row
func (r *GormCommunityRepository) RemoveMember(communityID, userID uint64) error {
	return r.db.Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&models.CommunityMember{}).Error
}

// UpdateMemberRole changes a member's community role
func (r *GormCommunityRepository) UpdateMemberRole(communityID, userID uint64, role models.CommunityRole) error {
	return r.db.Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Update("role", role).Error
}

// CreateRequest creates a join/follow request
func (r *GormCommunityRepository) CreateRequest(req *models.CommunityMemberRequest) error {
	return r.db.Create(req).Error
}

// FindRequestByID finds a request by ID
func (r *GormCommunityRepository) FindRequestByID(id uint64) (*models.CommunityMemberRequest, error) {
	var req models.CommunityMemberRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindPendingRequest finds the pending request of one type for a
// (community, user) pair, if any
func (r *GormCommunityRepository) FindPendingRequest(communityID, userID uint64, reqType models.RequestType) (*models.CommunityMemberRequest, error) {
	var req models.CommunityMemberRequest
	err := r.db.Where(
		"community_id = ? AND user_id = ? AND type = ? AND status = ?",
		communityID, userID, reqType, models.RequestStatusPending,
	).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListPendingRequests lists a community's pending requests
func (r *GormCommunityRepository) ListPendingRequests(communityID uint64) ([]models.CommunityMemberRequest, error) {
	var requests []models.CommunityMemberRequest
	if err := r.db.Preload("User").
		Where("community_id = ? AND status = ?", communityID, models.RequestStatusPending).
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ReviewRequest stamps the request's review fields and, when member is
// non-nil, materializes the membership row in the same transaction.
func (r *GormCommunityRepository) ReviewRequest(req *models.CommunityMemberRequest, member *models.CommunityMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(req).Error; err != nil {
			return err
		}

		if member == nil {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"role", "membership_type", "status",
			}),
		}).Create(member).Error
	})
}

// CreateInvite creates a community invite
func (r *GormCommunityRepository) CreateInvite(invite *models.CommunityInvite) error {
	return r.db.Create(invite).Error
}

// FindInviteByCode finds an invite by code
func (r *GormCommunityRepository) FindInviteByCode(code string) (*models.CommunityInvite, error) {
	var invite models.CommunityInvite
	if err := r.db.Where("code = ?", code).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// ConsumeInvite stamps the invite used and materializes the membership row in
// one transaction.
func (r *GormCommunityRepository) ConsumeInvite(invite *models.CommunityInvite, usedBy uint64, usedAt time.Time, member *models.CommunityMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if invite.OneTime {
			invite.UsedAt = &usedAt
			invite.UsedByID = &usedBy
			if err := tx.Save(invite).Error; err != nil {
				return err
			}
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(member).Error
	})
}
