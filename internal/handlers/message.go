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

// MessageHandler handles direct message requests
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// SendMessage handles POST /api/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SendMessageRequest struct {
		RecipientID uint64 `json:"recipient_id" binding:"required"`
		Body        string `json:"body" binding:"required"`
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.messageService.SendMessage(c.Request.Context(), userID, req.RecipientID, req.Body)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// ListConversations handles GET /api/conversations
func (h *MessageHandler) ListConversations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	conversations, err := h.messageService.ListConversations(userID)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// ListMessages handles GET /api/conversations/:conversation_id/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	conversationID, err := strconv.ParseUint(c.Param("conversation_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid conversation ID")
		return
	}

	params := utils.GetPaginationParams(c)

	messages, err := h.messageService.ListMessages(userID, conversationID, params.Offset, params.Limit)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func respondMessageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		apierrors.BadRequest(c, "Message body cannot be empty")
	case errors.Is(err, services.ErrMessageToSelf):
		apierrors.BadRequest(c, "Cannot message yourself")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "Recipient not found")
	case errors.Is(err, services.ErrConversationNotFound):
		apierrors.NotFound(c, "Conversation not found")
	case errors.Is(err, services.ErrNotInConversation):
		apierrors.Forbidden(c, "Not a participant of this conversation")
	default:
		apierrors.InternalError(c, "")
	}
}
