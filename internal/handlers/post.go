package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "community-api/internal/errors"
	"community-api/internal/middleware"
	"community-api/internal/services"
	"community-api/internal/utils"
)

// PostHandler handles post related requests
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// CreatePost handles POST /api/communities/:id/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
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

	type CreatePostRequest struct {
		Title string `json:"title" binding:"required"`
		Body  string `json:"body"`
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.postService.CreatePost(services.CreatePostInput{
		AuthorID:    userID,
		CommunityID: community.ID,
		Title:       req.Title,
		Body:        req.Body,
	})
	if err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// ListPosts handles GET /api/communities/:id/posts
func (h *PostHandler) ListPosts(c *gin.Context) {
	community, ok := middleware.GetCommunity(c)
	if !ok {
		apierrors.InternalError(c, "Community not found in context")
		return
	}

	params := utils.GetPaginationParams(c)

	posts, total, err := h.postService.ListPosts(community.ID, params.Offset, params.Limit)
	if err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetPost handles GET /api/posts/:post_id
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid post ID")
		return
	}

	post, err := h.postService.GetPost(postID)
	if err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost handles DELETE /api/posts/:post_id
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid post ID")
		return
	}

	if err := h.postService.DeletePost(userID, postID); err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// PinPost handles PUT /api/posts/:post_id/pin
func (h *PostHandler) PinPost(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid post ID")
		return
	}

	type PinRequest struct {
		Pinned *bool `json:"pinned" binding:"required"`
	}

	var req PinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.postService.PinPost(userID, postID, *req.Pinned); err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated"})
}

// CreateComment handles POST /api/posts/:post_id/comments
func (h *PostHandler) CreateComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid post ID")
		return
	}

	type CreateCommentRequest struct {
		Body     string  `json:"body" binding:"required"`
		ParentID *uint64 `json:"parent_id"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.postService.CreateComment(userID, postID, req.ParentID, req.Body)
	if err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ToggleReaction handles POST /api/posts/:post_id/reactions
func (h *PostHandler) ToggleReaction(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid post ID")
		return
	}

	type ReactionRequest struct {
		Kind string `json:"kind" binding:"required"`
	}

	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	active, err := h.postService.ToggleReaction(userID, postID, req.Kind)
	if err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"active": active})
}

func respondPostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		apierrors.NotFound(c, "Post not found")
	case errors.Is(err, services.ErrCommunityNotFound):
		apierrors.NotFound(c, "Community not found")
	case errors.Is(err, services.ErrEmptyPostTitle):
		apierrors.BadRequest(c, "Post title cannot be empty")
	case errors.Is(err, services.ErrEmptyComment):
		apierrors.BadRequest(c, "Comment body cannot be empty")
	case errors.Is(err, services.ErrPostDeleted):
		apierrors.Conflict(c, "Post has been deleted")
	case errors.Is(err, services.ErrMinRoleNotMet):
		apierrors.Forbidden(c, "Your role in this community is too low to post")
	case errors.Is(err, services.ErrInvalidReaction):
		apierrors.BadRequest(c, "Invalid reaction kind")
	case errors.Is(err, services.ErrNotAllowed):
		apierrors.Forbidden(c, "Not allowed")
	default:
		apierrors.InternalError(c, "")
	}
}
