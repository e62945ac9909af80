package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"community-api/internal/dto"
	apierrors "community-api/internal/errors"
	"community-api/internal/middleware"
	"community-api/internal/models"
	"community-api/internal/services"
)

// CommunityHandler coordinates community HTTP handlers.
type CommunityHandler struct {
	communityService *services.CommunityService
}

// NewCommunityHandler creates a new CommunityHandler.
func NewCommunityHandler(communityService *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
	}
}

// CreateCommunity creates a community
func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateCommunityRequest struct {
		Name        string               `json:"name" binding:"required"`
		Description string               `json:"description"`
		Type        models.CommunityType `json:"type"`
		OrgID       *uint64              `json:"org_id"`
	}

	var req CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	community, err := h.communityService.CreateCommunity(services.CreateCommunityInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		OrgID:       req.OrgID,
		CreatorID:   userID,
	})
	if err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommunityDTO(*community))
}

// GetCommunity returns community details
func (h *CommunityHandler) GetCommunity(c *gin.Context) {
	community, ok := middleware.GetCommunity(c)
	if !ok {
		apierrors.InternalError(c, "Community not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToCommunityDTO(community))
}

// ListCommunities lists communities of an organization
func (h *CommunityHandler) ListCommunities(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	communities, err := h.communityService.ListCommunitiesByOrg(org.ID)
	if err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"communities": dto.ToCommunityDTOs(communities),
	})
}

// ListMembers lists a community's members
func (h *CommunityHandler) ListMembers(c *gin.Context) {
	community, ok := middleware.GetCommunity(c)
	if !ok {
		apierrors.InternalError(c, "Community not found in context")
		return
	}

	members, err := h.communityService.ListMembers(community.ID)
	if err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToCommunityMemberDTOs(members),
	})
}

// UpdateCommunity updates community settings
func (h *CommunityHandler) UpdateCommunity(c *gin.Context) {
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

	type UpdateCommunityRequest struct {
		Description         *string               `json:"description"`
		Type                *models.CommunityType `json:"type"`
		PostCreationMinRole *models.CommunityRole `json:"post_creation_min_role"`
	}

	var req UpdateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.communityService.UpdateCommunity(userID, community.ID, services.UpdateCommunityInput{
		Description:         req.Description,
		Type:                req.Type,
		PostCreationMinRole: req.PostCreationMinRole,
	})
	if err != nil {
		respondCommunityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommunityDTO(*updated))
}

func respondCommunityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCommunityName):
		apierrors.BadRequest(c, "Community name cannot be empty")
	case errors.Is(err, services.ErrInvalidCommunityType):
		apierrors.BadRequest(c, "Invalid community type")
	case errors.Is(err, services.ErrInvalidMinRole):
		apierrors.BadRequest(c, "Invalid post creation min role")
	case errors.Is(err, services.ErrCommunitySlugTaken):
		apierrors.Conflict(c, "Community slug already in use")
	case errors.Is(err, services.ErrCommunityNotFound):
		apierrors.NotFound(c, "Community not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrNotAllowed):
		apierrors.Forbidden(c, "")
	default:
		apierrors.InternalError(c, "")
	}
}
