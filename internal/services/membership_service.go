package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"community-api/internal/events"
	"community-api/internal/models"
	"community-api/internal/permissions"
	"community-api/internal/repository"
	"community-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrNotAllowed             = errors.New("not allowed to perform this action")
	ErrCommunityNotFound      = errors.New("community not found")
	ErrRequestNotFound        = errors.New("membership request not found")
	ErrRequestPending         = errors.New("a pending request already exists")
	ErrRequestAlreadyReviewed = errors.New("request has already been reviewed")
	ErrAlreadyCommunityMember = errors.New("user is already a member of this community")
	ErrMemberNotFound         = errors.New("community member not found")
	ErrCannotManageSelf       = errors.New("cannot change your own membership")
	ErrInviteNotFound         = errors.New("invite not found")
	ErrInviteExpired          = errors.New("invite has expired")
	ErrInviteUsed             = errors.New("invite has already been used")
)

const defaultInviteTTL = 7 * 24 * time.Hour

// MembershipService implements the join/follow request workflow and
// community role management on top of the permission resolver.
type MembershipService struct {
	db            *gorm.DB
	communityRepo repository.CommunityRepository
	orgRepo       repository.OrganizationRepository
	notifications *NotificationService
	producer      *events.Producer
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(
	db *gorm.DB,
	communityRepo repository.CommunityRepository,
	orgRepo repository.OrganizationRepository,
	notifications *NotificationService,
	producer *events.Producer,
) *MembershipService {
	return &MembershipService{
		db:            db,
		communityRepo: communityRepo,
		orgRepo:       orgRepo,
		notifications: notifications,
		producer:      producer,
	}
}

func (s *MembershipService) resolve(userID uint64) (*permissions.Snapshot, error) {
	snap, err := permissions.Resolve(s.db, userID)
	if err != nil {
		if errors.Is(err, permissions.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}
	return snap, nil
}

func (s *MembershipService) findCommunity(communityID uint64) (*models.Community, error) {
	community, err := s.communityRepo.FindByID(communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}
	return community, nil
}

// RequestJoin asks for full membership in a community. Public communities
// grant it immediately; private ones queue a pending request for review.
// A second request while one is pending is rejected. The existence check and
// the insert are not atomic, so concurrent requests can still slip through;
// review handles duplicates by upserting the same membership row.
func (s *MembershipService) RequestJoin(userID, communityID uint64) (*models.CommunityMemberRequest, error) {
	return s.request(userID, communityID, models.RequestTypeJoin)
}

// RequestFollow asks to follow a community. Same policy as RequestJoin, but
// approval materializes a follower row instead of a member row.
func (s *MembershipService) RequestFollow(userID, communityID uint64) (*models.CommunityMemberRequest, error) {
	return s.request(userID, communityID, models.RequestTypeFollow)
}

func (s *MembershipService) request(userID, communityID uint64, reqType models.RequestType) (*models.CommunityMemberRequest, error) {
	community, err := s.findCommunity(communityID)
	if err != nil {
		return nil, err
	}

	if _, err := s.communityRepo.FindMember(communityID, userID); err == nil {
		return nil, ErrAlreadyCommunityMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	if _, err := s.communityRepo.FindPendingRequest(communityID, userID, reqType); err == nil {
		return nil, ErrRequestPending
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check pending request: %w", err)
	}

	// Open communities skip review entirely.
	if community.Type == models.CommunityTypePublic {
		member := memberForRequest(communityID, userID, reqType)
		if err := s.communityRepo.UpsertMember(member); err != nil {
			return nil, fmt.Errorf("failed to add member: %w", err)
		}
		now := time.Now()
		req := &models.CommunityMemberRequest{
			CommunityID: communityID,
			UserID:      userID,
			Type:        reqType,
			Status:      models.RequestStatusApproved,
			ReviewedAt:  &now,
		}
		if err := s.communityRepo.CreateRequest(req); err != nil {
			return nil, fmt.Errorf("failed to record request: %w", err)
		}
		return req, nil
	}

	req := &models.CommunityMemberRequest{
		CommunityID: communityID,
		UserID:      userID,
		Type:        reqType,
		Status:      models.RequestStatusPending,
	}
	if err := s.communityRepo.CreateRequest(req); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return req, nil
}

func memberForRequest(communityID, userID uint64, reqType models.RequestType) *models.CommunityMember {
	member := &models.CommunityMember{
		CommunityID:    communityID,
		UserID:         userID,
		Role:           models.CommunityRoleMember,
		MembershipType: models.MembershipTypeMember,
		Status:         models.MemberStatusActive,
		JoinedAt:       time.Now(),
	}
	if reqType == models.RequestTypeFollow {
		member.MembershipType = models.MembershipTypeFollower
	}
	return member
}

// ListPendingRequests lists a community's pending requests for a reviewer.
func (s *MembershipService) ListPendingRequests(actorID, communityID uint64) ([]models.CommunityMemberRequest, error) {
	snap, err := s.resolve(actorID)
	if err != nil {
		return nil, err
	}
	if !snap.CheckCommunityPermission(communityID, permissions.ActionManageCommunityMembers) {
		return nil, ErrNotAllowed
	}
	requests, err := s.communityRepo.ListPendingRequests(communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return requests, nil
}

// ApproveRequest approves a pending request and materializes the membership
// row. The actor needs MANAGE_COMMUNITY_MEMBERS in the request's community.
func (s *MembershipService) ApproveRequest(ctx context.Context, actorID, requestID uint64) error {
	return s.review(ctx, actorID, requestID, true)
}

// RejectRequest rejects a pending request. No membership row is created; the
// requester must file a fresh request to try again.
func (s *MembershipService) RejectRequest(ctx context.Context, actorID, requestID uint64) error {
	return s.review(ctx, actorID, requestID, false)
}

func (s *MembershipService) review(ctx context.Context, actorID, requestID uint64, approve bool) error {
	req, err := s.communityRepo.FindRequestByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return fmt.Errorf("failed to find request: %w", err)
	}
	if req.Status != models.RequestStatusPending {
		return ErrRequestAlreadyReviewed
	}

	snap, err := s.resolve(actorID)
	if err != nil {
		return err
	}
	if !snap.CheckCommunityPermission(req.CommunityID, permissions.ActionManageCommunityMembers) {
		return ErrNotAllowed
	}

	now := time.Now()
	req.ReviewedBy = &actorID
	req.ReviewedAt = &now

	var member *models.CommunityMember
	if approve {
		req.Status = models.RequestStatusApproved
		member = memberForRequest(req.CommunityID, req.UserID, req.Type)
	} else {
		req.Status = models.RequestStatusRejected
	}

	if err := s.communityRepo.ReviewRequest(req, member); err != nil {
		return fmt.Errorf("failed to review request: %w", err)
	}

	kind := models.NotificationMembershipRejected
	eventType := events.TypeMembershipRejected
	if approve {
		kind = models.NotificationMembershipApproved
		eventType = events.TypeMembershipApproved
	}
	s.notify(ctx, kind, eventType, req.UserID, actorID, req.CommunityID)
	return nil
}

// AssignModerator promotes a member to moderator.
func (s *MembershipService) AssignModerator(ctx context.Context, actorID, communityID, targetID uint64) error {
	return s.changeRole(ctx, actorID, communityID, targetID, models.CommunityRoleModerator, permissions.ActionAssignCommunityAdmin)
}

// AssignAdmin promotes a member to community admin.
func (s *MembershipService) AssignAdmin(ctx context.Context, actorID, communityID, targetID uint64) error {
	return s.changeRole(ctx, actorID, communityID, targetID, models.CommunityRoleAdmin, permissions.ActionAssignCommunityAdmin)
}

// RemoveModerator demotes a moderator back to member.
func (s *MembershipService) RemoveModerator(ctx context.Context, actorID, communityID, targetID uint64) error {
	return s.changeRole(ctx, actorID, communityID, targetID, models.CommunityRoleMember, permissions.ActionRemoveCommunityAdmin)
}

// RemoveAdmin demotes a community admin back to member.
func (s *MembershipService) RemoveAdmin(ctx context.Context, actorID, communityID, targetID uint64) error {
	return s.changeRole(ctx, actorID, communityID, targetID, models.CommunityRoleMember, permissions.ActionRemoveCommunityAdmin)
}

// changeRole applies the shared role-mutation guards: the permission table
// decides whether the actor may assign/remove roles at all, and the ranked
// comparison enforces the exclusions the table cannot express (no self
// management, creator protection, moderators touching members only).
func (s *MembershipService) changeRole(ctx context.Context, actorID, communityID, targetID uint64, newRole models.CommunityRole, action permissions.Action) error {
	if actorID == targetID {
		return ErrCannotManageSelf
	}

	community, err := s.findCommunity(communityID)
	if err != nil {
		return err
	}

	snap, err := s.resolve(actorID)
	if err != nil {
		return err
	}
	if !snap.CheckCommunityPermission(communityID, action) {
		return ErrNotAllowed
	}

	target, err := s.communityRepo.FindMember(communityID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}

	actorRole := s.effectiveRole(snap, communityID)
	if !permissions.CanKickMember(actorRole, target.Role, targetID == community.CreatorID, snap.IsAppAdmin()) {
		return ErrNotAllowed
	}

	if err := s.communityRepo.UpdateMemberRole(communityID, targetID, newRole); err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}

	s.notify(ctx, models.NotificationRoleChanged, events.TypeRoleChanged, targetID, actorID, communityID)
	return nil
}

// RemoveUserFromCommunity kicks a member. Independent of the request
// workflow but guarded by the same rank rules as role changes.
func (s *MembershipService) RemoveUserFromCommunity(ctx context.Context, actorID, communityID, targetID uint64) error {
	if actorID == targetID {
		return ErrCannotManageSelf
	}

	community, err := s.findCommunity(communityID)
	if err != nil {
		return err
	}

	snap, err := s.resolve(actorID)
	if err != nil {
		return err
	}
	if !snap.CheckCommunityPermission(communityID, permissions.ActionManageCommunityMembers) {
		return ErrNotAllowed
	}

	target, err := s.communityRepo.FindMember(communityID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}

	actorRole := s.effectiveRole(snap, communityID)
	if !permissions.CanKickMember(actorRole, target.Role, targetID == community.CreatorID, snap.IsAppAdmin()) {
		return ErrNotAllowed
	}

	if err := s.communityRepo.RemoveMember(communityID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.notify(ctx, models.NotificationRemoved, events.TypeMemberRemoved, targetID, actorID, communityID)
	return nil
}

// Leave removes the caller's own membership row.
func (s *MembershipService) Leave(userID, communityID uint64) error {
	if _, err := s.communityRepo.FindMember(communityID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}
	if err := s.communityRepo.RemoveMember(communityID, userID); err != nil {
		return fmt.Errorf("failed to leave community: %w", err)
	}
	return nil
}

// effectiveRole mirrors the resolver's override: an org admin acting inside
// their own org's community ranks as a community admin for rank comparisons.
func (s *MembershipService) effectiveRole(snap *permissions.Snapshot, communityID uint64) models.CommunityRole {
	if snap.IsAppAdmin() {
		return models.CommunityRoleAdmin
	}
	role, ok := snap.CommunityRole(communityID)
	if !ok {
		return ""
	}
	if snap.OrgRole() == models.OrgRoleAdmin {
		set := snap.CommunityPermissions(communityID)
		if set.Contains(permissions.ActionAssignCommunityAdmin) {
			return models.CommunityRoleAdmin
		}
	}
	return role
}

// AddOrgMembersToCommunity bulk-adds every member of the community's org who
// is not yet in the community. Already-present users are silently skipped.
// Returns the number of members actually added.
func (s *MembershipService) AddOrgMembersToCommunity(actorID, communityID uint64) (int64, error) {
	community, err := s.findCommunity(communityID)
	if err != nil {
		return 0, err
	}
	if community.OrgID == nil {
		return 0, ErrCommunityNotFound
	}

	snap, err := s.resolve(actorID)
	if err != nil {
		return 0, err
	}
	if !snap.CheckCommunityPermission(communityID, permissions.ActionManageCommunityMembers) {
		return 0, ErrNotAllowed
	}

	orgMembers, err := s.orgRepo.ListMembers(*community.OrgID)
	if err != nil {
		return 0, fmt.Errorf("failed to list org members: %w", err)
	}

	now := time.Now()
	members := make([]models.CommunityMember, 0, len(orgMembers))
	for _, om := range orgMembers {
		members = append(members, models.CommunityMember{
			CommunityID:    communityID,
			UserID:         om.UserID,
			Role:           models.CommunityRoleMember,
			MembershipType: models.MembershipTypeMember,
			Status:         models.MemberStatusActive,
			JoinedAt:       now,
		})
	}

	added, err := s.communityRepo.AddMembersIdempotent(members)
	if err != nil {
		return 0, fmt.Errorf("failed to add org members: %w", err)
	}
	return added, nil
}

// CreateInvite issues an invite code for a community. Email-targeted invites
// only record the address; nothing is sent from here.
func (s *MembershipService) CreateInvite(actorID, communityID uint64, email string, oneTime bool, ttl time.Duration) (*models.CommunityInvite, error) {
	if _, err := s.findCommunity(communityID); err != nil {
		return nil, err
	}

	snap, err := s.resolve(actorID)
	if err != nil {
		return nil, err
	}
	if !snap.CheckCommunityPermission(communityID, permissions.ActionManageCommunityMembers) {
		return nil, ErrNotAllowed
	}

	if ttl <= 0 {
		ttl = defaultInviteTTL
	}
	invite := &models.CommunityInvite{
		CommunityID: communityID,
		Code:        utils.GenerateCommunityInviteCode(),
		Email:       email,
		CreatedBy:   actorID,
		ExpiresAt:   time.Now().Add(ttl),
		OneTime:     oneTime,
	}
	if err := s.communityRepo.CreateInvite(invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return invite, nil
}

// RedeemInvite turns a valid invite code into an active membership. Expired
// or consumed invites are rejected; redeeming while already a member is a
// no-op on the membership row.
func (s *MembershipService) RedeemInvite(userID uint64, code string) (*models.Community, error) {
	invite, err := s.communityRepo.FindInviteByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}

	now := time.Now()
	if now.After(invite.ExpiresAt) {
		return nil, ErrInviteExpired
	}
	if invite.OneTime && invite.UsedAt != nil {
		return nil, ErrInviteUsed
	}

	community, err := s.findCommunity(invite.CommunityID)
	if err != nil {
		return nil, err
	}

	member := &models.CommunityMember{
		CommunityID:    invite.CommunityID,
		UserID:         userID,
		Role:           models.CommunityRoleMember,
		MembershipType: models.MembershipTypeMember,
		Status:         models.MemberStatusActive,
		JoinedAt:       now,
	}
	if err := s.communityRepo.ConsumeInvite(invite, userID, now, member); err != nil {
		return nil, fmt.Errorf("failed to redeem invite: %w", err)
	}
	return community, nil
}

// notify records an in-app notification and publishes the matching event.
// Failures here never fail the membership operation itself.
func (s *MembershipService) notify(ctx context.Context, kind models.NotificationKind, eventType string, userID, actorID, communityID uint64) {
	if s.notifications != nil {
		s.notifications.Notify(ctx, NotifyInput{
			UserID:      userID,
			Kind:        kind,
			ActorID:     &actorID,
			CommunityID: &communityID,
		})
	}
	if err := s.producer.Publish(ctx, events.Event{
		Type:        eventType,
		UserID:      userID,
		ActorID:     actorID,
		CommunityID: communityID,
	}); err != nil {
		// Event delivery is best-effort; the DB write already succeeded.
		log.Printf("failed to publish %s event: %v", eventType, err)
	}
}
