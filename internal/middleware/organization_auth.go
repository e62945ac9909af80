package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"community-api/internal/constants"
	"community-api/internal/database"
	apierrors "community-api/internal/errors"
	"community-api/internal/models"
)

// RequireOrganizationAccess checks if the user is a member of the
// organization named by the :id parameter. App admins pass without a
// membership row.
func RequireOrganizationAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgIDStr := c.Param("id")
		orgID, err := strconv.ParseUint(orgIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid organization ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var org models.Organization
		if err := database.GetDB().First(&org, orgID).Error; err != nil {
			apierrors.NotFound(c, "Organization not found")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if user.AppRole == models.AppRoleAdmin {
			c.Set(constants.ContextKeyOrganization, org)
			c.Next()
			return
		}

		var member models.OrgMember
		err = database.GetDB().Where("org_id = ? AND user_id = ?", orgID, userID).First(&member).Error
		if err != nil {
			// Return 404 instead of 403 to avoid leaking organization existence
			apierrors.NotFound(c, "Organization not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyOrganization, org)
		c.Set(constants.ContextKeyOrgMember, member)
		c.Next()
	}
}

// GetOrganization retrieves the organization loaded by
// RequireOrganizationAccess.
func GetOrganization(c *gin.Context) (models.Organization, bool) {
	value, exists := c.Get(constants.ContextKeyOrganization)
	if !exists {
		return models.Organization{}, false
	}
	org, ok := value.(models.Organization)
	return org, ok
}
