package repository

import (
	"community-api/internal/database"
	"community-api/internal/models"
	"gorm.io/gorm"
)

// GormPostRepository is a GORM implementation of PostRepository
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &GormPostRepository{db: db}
}

// Create creates a new post
func (r *GormPostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

// FindByID finds a post by ID, comments included
func (r *GormPostRepository) FindByID(id uint64) (*models.Post, error) {
	var post models.Post
	if err := r.db.
		Preload("Author").
		Preload("Comments").
		Preload("Reactions").
		First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListByCommunity lists a community's posts, pinned first then newest first
func (r *GormPostRepository) ListByCommunity(communityID uint64, offset, limit int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	query := r.db.Model(&models.Post{}).
		Where("community_id = ? AND is_deleted = ?", communityID, false)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Author").
		Order("is_pinned DESC, created_at DESC").
		Scopes(database.Paginate(offset, limit)).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// MarkDeleted soft-deletes a post via the IsDeleted flag; the comment thread
// survives
func (r *GormPostRepository) MarkDeleted(id uint64) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		Update("is_deleted", true).Error
}

// SetPinned pins or unpins a post
func (r *GormPostRepository) SetPinned(id uint64, pinned bool) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		Update("is_pinned", pinned).Error
}

// CreateComment creates a comment
func (r *GormPostRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// FindReaction finds a user's reaction of one kind on a post
func (r *GormPostRepository) FindReaction(postID, userID uint64, kind string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.Where("post_id = ? AND user_id = ? AND kind = ?", postID, userID, kind).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// CreateReaction adds a reaction
func (r *GormPostRepository) CreateReaction(reaction *models.Reaction) error {
	return r.db.Create(reaction).Error
}

// DeleteReaction removes a reaction
func (r *GormPostRepository) DeleteReaction(postID, userID uint64, kind string) error {
	return r.db.Where("post_id = ? AND user_id = ? AND kind = ?", postID, userID, kind).
		Delete(&models.Reaction{}).Error
}
