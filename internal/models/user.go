package models

import (
	"time"

	"gorm.io/gorm"
)

type AppRole string

const (
	AppRoleUser  AppRole = "user"
	AppRoleAdmin AppRole = "admin"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  string         `gorm:"type:varchar(100)" json:"display_name"`
	AppRole      AppRole        `gorm:"type:varchar(20);not null;default:'user'" json:"app_role"`
	OrgID        *uint64        `gorm:"index" json:"org_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	OrgMemberships       []OrgMember       `gorm:"foreignKey:UserID" json:"-"`
	CommunityMemberships []CommunityMember `gorm:"foreignKey:UserID" json:"-"`
	Posts                []Post            `gorm:"foreignKey:AuthorID" json:"-"`
}
