package models

import "time"

// CommunityInvite is a code-based invitation into a community. Email-targeted
// invites store the address; delivery happens elsewhere. A one-time invite is
// consumed by stamping UsedAt/UsedByID.
type CommunityInvite struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	CommunityID uint64     `gorm:"not null;index" json:"community_id"`
	Code        string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Email       string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	CreatedBy   uint64     `gorm:"not null" json:"created_by"`
	ExpiresAt   time.Time  `gorm:"not null" json:"expires_at"`
	OneTime     bool       `gorm:"not null;default:true" json:"one_time"`
	UsedAt      *time.Time `json:"used_at"`
	UsedByID    *uint64    `json:"used_by_id"`
	CreatedAt   time.Time  `json:"created_at"`

	// Relations
	Community Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
}
