package dto

import (
	"time"

	"community-api/internal/models"
)

// OrganizationDTO is the public organization representation.
type OrganizationDTO struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	InviteCode string    `json:"invite_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrganizationWithRoleDTO represents an organization with the user's role
type OrganizationWithRoleDTO struct {
	OrganizationDTO
	Role models.OrgRole `json:"role"`
}

// OrgMemberDTO represents a member in an organization
type OrgMemberDTO struct {
	User     UserDTO        `json:"user"`
	Role     models.OrgRole `json:"role"`
	JoinedAt time.Time      `json:"joined_at"`
}

// ToOrganizationDTO converts an organization model to its DTO.
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:         org.ID,
		Name:       org.Name,
		Slug:       org.Slug,
		InviteCode: org.InviteCode,
		CreatedAt:  org.CreatedAt,
	}
}

// ToOrganizationWithRoleDTO converts an org membership to a DTO with role.
func ToOrganizationWithRoleDTO(member models.OrgMember) OrganizationWithRoleDTO {
	return OrganizationWithRoleDTO{
		OrganizationDTO: ToOrganizationDTO(member.Organization),
		Role:            member.Role,
	}
}

// ToOrgMemberDTO converts an org member to its DTO.
func ToOrgMemberDTO(member models.OrgMember) OrgMemberDTO {
	return OrgMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToOrgMemberDTOs converts a slice of org members.
func ToOrgMemberDTOs(members []models.OrgMember) []OrgMemberDTO {
	out := make([]OrgMemberDTO, len(members))
	for i, m := range members {
		out[i] = ToOrgMemberDTO(m)
	}
	return out
}
