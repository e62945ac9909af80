package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"community-api/internal/constants"
	"community-api/internal/database"
	apierrors "community-api/internal/errors"
	"community-api/internal/models"
)

// RequireCommunity loads the community named by the :id parameter into the
// gin context. Visibility of private communities is decided downstream by
// the permission resolver; this middleware only resolves existence.
func RequireCommunity() gin.HandlerFunc {
	return func(c *gin.Context) {
		communityIDStr := c.Param("id")
		communityID, err := strconv.ParseUint(communityIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid community ID")
			c.Abort()
			return
		}

		var community models.Community
		if err := database.GetDB().First(&community, communityID).Error; err != nil {
			apierrors.NotFound(c, "Community not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyCommunity, community)
		c.Next()
	}
}

// GetCommunity retrieves the community loaded by RequireCommunity.
func GetCommunity(c *gin.Context) (models.Community, bool) {
	value, exists := c.Get(constants.ContextKeyCommunity)
	if !exists {
		return models.Community{}, false
	}
	community, ok := value.(models.Community)
	return community, ok
}
