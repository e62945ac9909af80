package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is community or org-wide content. Deletion is a soft flag so the
// comment thread under a deleted post survives.
type Post struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Body        string         `gorm:"type:text" json:"body"`
	AuthorID    uint64         `gorm:"not null;index" json:"author_id"`
	CommunityID *uint64        `gorm:"index" json:"community_id"`
	OrgID       *uint64        `gorm:"index" json:"org_id"`
	IsPinned    bool           `gorm:"not null;default:false" json:"is_pinned"`
	IsDeleted   bool           `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Author    User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Community *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	Comments  []Comment  `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Reactions []Reaction `gorm:"foreignKey:PostID" json:"reactions,omitempty"`
}

type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	PostID    uint64    `gorm:"not null;index" json:"post_id"`
	AuthorID  uint64    `gorm:"not null;index" json:"author_id"`
	ParentID  *uint64   `gorm:"index" json:"parent_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	IsDeleted bool      `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Post   Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// Reaction is unique per (post, user, kind).
type Reaction struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	PostID    uint64    `gorm:"not null;index;uniqueIndex:uk_reaction" json:"post_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uk_reaction" json:"user_id"`
	Kind      string    `gorm:"type:varchar(30);not null;uniqueIndex:uk_reaction" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
