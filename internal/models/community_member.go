package models

import "time"

type CommunityRole string

const (
	CommunityRoleMember    CommunityRole = "member"
	CommunityRoleModerator CommunityRole = "moderator"
	CommunityRoleAdmin     CommunityRole = "admin"
)

type MembershipType string

const (
	MembershipTypeMember   MembershipType = "member"
	MembershipTypeFollower MembershipType = "follower"
)

// CommunityMember is the join record between a user and a community. The
// composite key means a user holds at most one row per community, so "member"
// and "follower" are mutually exclusive at the data level.
type CommunityMember struct {
	CommunityID    uint64         `gorm:"primarykey" json:"community_id"`
	UserID         uint64         `gorm:"primarykey" json:"user_id"`
	Role           CommunityRole  `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	MembershipType MembershipType `gorm:"type:varchar(20);not null;default:'member'" json:"membership_type"`
	Status         MemberStatus   `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	JoinedAt       time.Time      `json:"joined_at"`

	// Relations
	Community Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
