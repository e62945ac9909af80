package dto

import (
	"time"

	"community-api/internal/models"
)

// UserDTO is the public user representation.
type UserDTO struct {
	ID          uint64         `json:"id"`
	Username    string         `json:"username"`
	DisplayName string         `json:"display_name"`
	AppRole     models.AppRole `json:"app_role"`
	OrgID       *uint64        `json:"org_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ToUserDTO converts a user model to its DTO.
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AppRole:     user.AppRole,
		OrgID:       user.OrgID,
		CreatedAt:   user.CreatedAt,
	}
}
