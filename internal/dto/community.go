package dto

import (
	"time"

	"community-api/internal/models"
)

// CommunityDTO is the public community representation.
type CommunityDTO struct {
	ID                  uint64               `json:"id"`
	Name                string               `json:"name"`
	Slug                string               `json:"slug"`
	Description         string               `json:"description"`
	Type                models.CommunityType `json:"type"`
	OrgID               *uint64              `json:"org_id,omitempty"`
	PostCreationMinRole models.CommunityRole `json:"post_creation_min_role"`
	CreatorID           uint64               `json:"creator_id"`
	CreatedAt           time.Time            `json:"created_at"`
}

// CommunityMemberDTO represents a member of a community.
type CommunityMemberDTO struct {
	User           UserDTO               `json:"user"`
	Role           models.CommunityRole  `json:"role"`
	MembershipType models.MembershipType `json:"membership_type"`
	JoinedAt       time.Time             `json:"joined_at"`
}

// MemberRequestDTO represents a join/follow request.
type MemberRequestDTO struct {
	ID          uint64               `json:"id"`
	CommunityID uint64               `json:"community_id"`
	User        UserDTO              `json:"user"`
	Type        models.RequestType   `json:"type"`
	Status      models.RequestStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

// InviteDTO represents a community invite.
type InviteDTO struct {
	Code      string    `json:"code"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	OneTime   bool      `json:"one_time"`
}

// ToCommunityDTO converts a community model to its DTO.
func ToCommunityDTO(c models.Community) CommunityDTO {
	return CommunityDTO{
		ID:                  c.ID,
		Name:                c.Name,
		Slug:                c.Slug,
		Description:         c.Description,
		Type:                c.Type,
		OrgID:               c.OrgID,
		PostCreationMinRole: c.PostCreationMinRole,
		CreatorID:           c.CreatorID,
		CreatedAt:           c.CreatedAt,
	}
}

// ToCommunityDTOs converts a slice of communities.
func ToCommunityDTOs(communities []models.Community) []CommunityDTO {
	out := make([]CommunityDTO, len(communities))
	for i, c := range communities {
		out[i] = ToCommunityDTO(c)
	}
	return out
}

// ToCommunityMemberDTO converts a community member to its DTO.
func ToCommunityMemberDTO(m models.CommunityMember) CommunityMemberDTO {
	return CommunityMemberDTO{
		User:           ToUserDTO(m.User),
		Role:           m.Role,
		MembershipType: m.MembershipType,
		JoinedAt:       m.JoinedAt,
	}
}

// ToCommunityMemberDTOs converts a slice of community members.
func ToCommunityMemberDTOs(members []models.CommunityMember) []CommunityMemberDTO {
	out := make([]CommunityMemberDTO, len(members))
	for i, m := range members {
		out[i] = ToCommunityMemberDTO(m)
	}
	return out
}

// ToMemberRequestDTO converts a member request to its DTO.
func ToMemberRequestDTO(r models.CommunityMemberRequest) MemberRequestDTO {
	return MemberRequestDTO{
		ID:          r.ID,
		CommunityID: r.CommunityID,
		User:        ToUserDTO(r.User),
		Type:        r.Type,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
}

// ToMemberRequestDTOs converts a slice of member requests.
func ToMemberRequestDTOs(requests []models.CommunityMemberRequest) []MemberRequestDTO {
	out := make([]MemberRequestDTO, len(requests))
	for i, r := range requests {
		out[i] = ToMemberRequestDTO(r)
	}
	return out
}

// ToInviteDTO converts an invite to its DTO.
func ToInviteDTO(invite models.CommunityInvite) InviteDTO {
	return InviteDTO{
		Code:      invite.Code,
		Email:     invite.Email,
		ExpiresAt: invite.ExpiresAt,
		OneTime:   invite.OneTime,
	}
}
