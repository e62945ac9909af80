package models

import "time"

type RequestType string

const (
	RequestTypeJoin   RequestType = "join"
	RequestTypeFollow RequestType = "follow"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// CommunityMemberRequest is a join/follow request awaiting review. Multiple
// historical requests may exist per (user, community); the membership service
// keeps at most one pending at a time.
type CommunityMemberRequest struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	CommunityID uint64        `gorm:"not null;index" json:"community_id"`
	UserID      uint64        `gorm:"not null;index" json:"user_id"`
	Type        RequestType   `gorm:"type:varchar(20);not null" json:"type"`
	Status      RequestStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ReviewedBy  *uint64       `json:"reviewed_by"`
	ReviewedAt  *time.Time    `json:"reviewed_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Community Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
