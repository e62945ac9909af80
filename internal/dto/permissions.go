package dto

import (
	"community-api/internal/models"
	"community-api/internal/permissions"
)

// CommunityRoleDTO is one community role in a permission snapshot.
type CommunityRoleDTO struct {
	CommunityID uint64               `json:"community_id"`
	Role        models.CommunityRole `json:"role"`
	OrgID       *uint64              `json:"org_id,omitempty"`
}

// PermissionsDTO is the session user's permission snapshot as returned by
// the permissions endpoint.
type PermissionsDTO struct {
	AppRole        models.AppRole     `json:"app_role"`
	OrgRole        models.OrgRole     `json:"org_role,omitempty"`
	CommunityRoles []CommunityRoleDTO `json:"community_roles"`
}

// ToPermissionsDTO converts a resolver snapshot to its DTO.
func ToPermissionsDTO(snap *permissions.Snapshot) PermissionsDTO {
	records := snap.CommunityRoles()
	roles := make([]CommunityRoleDTO, len(records))
	for i, rec := range records {
		roles[i] = CommunityRoleDTO{
			CommunityID: rec.CommunityID,
			Role:        rec.Role,
			OrgID:       rec.OrgID,
		}
	}
	return PermissionsDTO{
		AppRole:        snap.AppRole(),
		OrgRole:        snap.OrgRole(),
		CommunityRoles: roles,
	}
}
