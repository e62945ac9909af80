package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"community-api/internal/database"
	"community-api/internal/dto"
	apierrors "community-api/internal/errors"
	"community-api/internal/middleware"
	"community-api/internal/permissions"
)

// PermissionsHandler exposes the session user's permission snapshot.
type PermissionsHandler struct{}

// NewPermissionsHandler creates a new PermissionsHandler.
func NewPermissionsHandler() *PermissionsHandler {
	return &PermissionsHandler{}
}

// GetPermissions returns the caller's app role, org role, and community
// roles. The snapshot is resolved fresh from the database on every call;
// role changes take effect on the next request.
func (h *PermissionsHandler) GetPermissions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	snap, err := permissions.Resolve(database.GetDB(), userID)
	if err != nil {
		if errors.Is(err, permissions.ErrUserNotFound) {
			apierrors.NotFound(c, "User not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToPermissionsDTO(snap))
}
