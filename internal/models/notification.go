package models

import "time"

type NotificationKind string

const (
	NotificationMembershipApproved NotificationKind = "membership_approved"
	NotificationMembershipRejected NotificationKind = "membership_rejected"
	NotificationRoleChanged        NotificationKind = "role_changed"
	NotificationRemoved            NotificationKind = "removed_from_community"
	NotificationNewMessage         NotificationKind = "new_message"
)

// Notification is an in-app notification row for one recipient.
type Notification struct {
	ID          uint64           `gorm:"primarykey" json:"id"`
	UserID      uint64           `gorm:"not null;index" json:"user_id"`
	Kind        NotificationKind `gorm:"type:varchar(40);not null" json:"kind"`
	ActorID     *uint64          `json:"actor_id"`
	CommunityID *uint64          `json:"community_id"`
	Body        string           `gorm:"type:varchar(500)" json:"body"`
	ReadAt      *time.Time       `json:"read_at"`
	CreatedAt   time.Time        `json:"created_at"`
}
