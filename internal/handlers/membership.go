package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"community-api/internal/dto"
	apierrors "community-api/internal/errors"
	"community-api/internal/middleware"
	"community-api/internal/models"
	"community-api/internal/services"
)

// MembershipHandler coordinates the join/follow request workflow and
// community role management endpoints.
type MembershipHandler struct {
	membershipService *services.MembershipService
}

// NewMembershipHandler creates a new MembershipHandler.
func NewMembershipHandler(membershipService *services.MembershipService) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
	}
}

// RequestJoin files a join request for the calling user
func (h *MembershipHandler) RequestJoin(c *gin.Context) {
	h.request(c, h.membershipService.RequestJoin)
}

// RequestFollow files a follow request for the calling user
func (h *MembershipHandler) RequestFollow(c *gin.Context) {
	h.request(c, h.membershipService.RequestFollow)
}

func (h *MembershipHandler) request(c *gin.Context, fn func(userID, communityID uint64) (*models.CommunityMemberRequest, error)) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	community, ok := middleware.GetCommunity(c)
	if !ok {
		apierrors.InternalError(c, "Community not found in context")
		return
	}

	req, err := fn(userID, community.ID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemberRequestDTO(*req))
}

// ListPendingRequests lists a community's pending requests
func (h *MembershipHandler) ListPendingRequests(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	community, ok := middleware.GetCommunity(c)
	if !ok {
		apierrors.InternalError(c, "Community not found in context")
		return
	}

	requests, err := h.membershipService.ListPendingRequests(userID, community.ID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": dto.ToMemberRequestDTOs(requests),
	})
}

// ApproveRequest approves a pending membership request
func (h *MembershipHandler) ApproveRequest(c *gin.Context) {
	h.review(c, h.membershipService.ApproveRequest)
}

// RejectRequest rejects a pending membership request
func (h *MembershipHandler) RejectRequest(c *gin.Context) {
	h.review(c, h.membershipService.RejectRequest)
}

func (h *MembershipHandler) review(c *gin.Context, fn func(ctx context.Context, actorID, requestID uint64) error) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	requestID, err := strconv.ParseUint(c.Param("request_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request ID")
		return
	}

	if err := fn(c.Request.Context(), userID, requestID); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request reviewed"})
}

// roleChange is the shared shape of the four role mutation endpoints.
func (h *MembershipHandler) roleChange(c *gin.Context, fn func(ctx context.Context, actorID, communityID, targetID uint64) error) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	community, ok := middleware.GetCommunity(c)
	if !ok {
		apierrors.InternalError(c, "Community not found in context")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := fn(c.Request.Context(), userID, community.ID, targetID); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Membership updated"})
}

// AssignModerator promotes a member to moderator
func (h *MembershipHandler) AssignModerator(c *gin.Context) {
	h.roleChange(c, h.membershipService.AssignModerator)
}

// AssignAdmin promotes a member to community admin
func (h *MembershipHandler) AssignAdmin(c *gin.Context) {
	h.roleChange(c, h.membershipService.AssignAdmin)
}

// RemoveModerator demotes a moderator to member
func (h *MembershipHandler) RemoveModerator(c *gin.Context) {
	h.roleChange(c, h.membershipService.RemoveModerator)
}

// RemoveAdmin demotes a community admin to member
func (h *MembershipHandler) RemoveAdmin(c *gin.Context) {
	h.roleChange(c, h.membershipService.RemoveAdmin)
}

// KickMember removes a member from the community
func (h *MembershipHandler) KickMember(c *gin.Context) {
	h.roleChange(c, h.membershipService.RemoveUserFromCommunity)
}

// Leave removes the caller's own membership
func (h *MembershipHandler) Leave(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	community, ok := middleware.GetCommunity(c)
	if !ok {
		apierrors.InternalError(c, "Community not found in context")
		return
	}

	if err := h.membershipService.Leave(userID, community.ID); err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left community"})
}

// AddOrgMembers bulk-adds the community's org members
func (h *MembershipHandler) AddOrgMembers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	community, ok := middleware.GetCommunity(c)
	if !ok {
		apierrors.InternalError(c, "Community not found in context")
		return
	}

	added, err := h.membershipService.AddOrgMembersToCommunity(userID, community.ID)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"added": added})
}

// CreateInvite issues an invite code for the community
func (h *MembershipHandler) CreateInvite(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	community, ok := middleware.GetCommunity(c)
	if !ok {
		apierrors.InternalError(c, "Community not found in context")
		return
	}

	type CreateInviteRequest struct {
		Email    string `json:"email"`
		OneTime  *bool  `json:"one_time"`
		TTLHours int    `json:"ttl_hours"`
	}

	// All fields are optional so an empty body is fine.
	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	oneTime := true
	if req.OneTime != nil {
		oneTime = *req.OneTime
	}

	invite, err := h.membershipService.CreateInvite(
		userID, community.ID, req.Email, oneTime, time.Duration(req.TTLHours)*time.Hour)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInviteDTO(*invite))
}

// RedeemInvite consumes an invite code for the calling user
func (h *MembershipHandler) RedeemInvite(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type RedeemRequest struct {
		Code string `json:"code" binding:"required"`
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	community, err := h.membershipService.RedeemInvite(userID, req.Code)
	if err != nil {
		respondMembershipError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommunityDTO(*community))
}

func respondMembershipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommunityNotFound):
		apierrors.NotFound(c, "Community not found")
	case errors.Is(err, services.ErrRequestNotFound):
		apierrors.NotFound(c, "Request not found")
	case errors.Is(err, services.ErrRequestPending):
		apierrors.Conflict(c, "A pending request already exists")
	case errors.Is(err, services.ErrRequestAlreadyReviewed):
		apierrors.Conflict(c, "Request has already been reviewed")
	case errors.Is(err, services.ErrAlreadyCommunityMember):
		apierrors.Conflict(c, "Already a member of this community")
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, "Community member not found")
	case errors.Is(err, services.ErrCannotManageSelf):
		apierrors.BadRequest(c, "Cannot change your own membership")
	case errors.Is(err, services.ErrInviteNotFound):
		apierrors.NotFound(c, "Invite not found")
	case errors.Is(err, services.ErrInviteExpired):
		apierrors.Conflict(c, "Invite has expired")
	case errors.Is(err, services.ErrInviteUsed):
		apierrors.Conflict(c, "Invite has already been used")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrNotAllowed):
		apierrors.Forbidden(c, "Not allowed to manage this community's members")
	default:
		apierrors.InternalError(c, "")
	}
}
