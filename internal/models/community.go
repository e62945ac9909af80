package models

import (
	"time"

	"gorm.io/gorm"
)

type CommunityType string

const (
	CommunityTypePublic  CommunityType = "public"
	CommunityTypePrivate CommunityType = "private"
)

type Community struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Name        string        `gorm:"type:varchar(100);not null" json:"name"`
	Slug        string        `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Description string        `gorm:"type:text" json:"description"`
	Type        CommunityType `gorm:"type:varchar(20);not null;default:'public'" json:"type"`
	// OrgID is nullable: legacy/global communities belong to no organization.
	OrgID               *uint64        `gorm:"index" json:"org_id"`
	PostCreationMinRole CommunityRole  `gorm:"type:varchar(20);not null;default:'member'" json:"post_creation_min_role"`
	CreatorID           uint64         `gorm:"not null;index" json:"creator_id"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization *Organization     `gorm:"foreignKey:OrgID" json:"organization,omitempty"`
	Creator      User              `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Members      []CommunityMember `gorm:"foreignKey:CommunityID" json:"members,omitempty"`
	Posts        []Post            `gorm:"foreignKey:CommunityID" json:"posts,omitempty"`
}
