package models

import "time"

type OrgRole string

const (
	OrgRoleUser  OrgRole = "user"
	OrgRoleAdmin OrgRole = "admin"
)

type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "active"
	MemberStatusPending MemberStatus = "pending"
)

// OrgMember is the join record between a user and an organization. One row
// per (org, user) pair.
type OrgMember struct {
	OrgID    uint64       `gorm:"primarykey" json:"org_id"`
	UserID   uint64       `gorm:"primarykey" json:"user_id"`
	Role     OrgRole      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Status   MemberStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	JoinedAt time.Time    `json:"joined_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrgID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
