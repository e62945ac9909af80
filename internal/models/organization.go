package models

import (
	"time"

	"gorm.io/gorm"
)

type Organization struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	Name       string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Slug       string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	InviteCode string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"invite_code"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members     []OrgMember `gorm:"foreignKey:OrgID" json:"members,omitempty"`
	Communities []Community `gorm:"foreignKey:OrgID" json:"communities,omitempty"`
}
