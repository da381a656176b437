// Package repo – likes, bookmarks and comments.
//
// Like and Bookmark rows are unique per (user, idea) at the schema level;
// the toggle services treat a uniqueness violation as "already exists".
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
)

// GetLike returns the like row for the pair, or ErrNotFound.
func GetLike(ctx context.Context, db *gorm.DB, userID, ideaID string) (*domain.Like, error) {
	var l domain.Like
	err := db.WithContext(ctx).Where("user_id = ? AND idea_id = ?", userID, ideaID).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLike inserts a like row; duplicates are rejected by the unique index.
func CreateLike(ctx context.Context, db *gorm.DB, userID, ideaID string) error {
	l := &domain.Like{
		ID:        uuid.NewString(),
		UserID:    userID,
		IdeaID:    ideaID,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(l).Error
}

// DeleteLike removes a like row by ID.
func DeleteLike(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Like{}).Error
}

// GetBookmark returns the bookmark row for the pair, or ErrNotFound.
func GetBookmark(ctx context.Context, db *gorm.DB, userID, ideaID string) (*domain.Bookmark, error) {
	var b domain.Bookmark
	err := db.WithContext(ctx).Where("user_id = ? AND idea_id = ?", userID, ideaID).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBookmark inserts a bookmark row; duplicates are rejected by the
// unique index.
func CreateBookmark(ctx context.Context, db *gorm.DB, userID, ideaID string) error {
	b := &domain.Bookmark{
		ID:        uuid.NewString(),
		UserID:    userID,
		IdeaID:    ideaID,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(b).Error
}

// DeleteBookmark removes a bookmark row by ID.
func DeleteBookmark(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Bookmark{}).Error
}

// CreateComment inserts a comment and returns it with the author preloaded.
func CreateComment(ctx context.Context, db *gorm.DB, ideaID, userID, content string, parentID *string) (*domain.Comment, error) {
	c := &domain.Comment{
		ID:        uuid.NewString(),
		IdeaID:    ideaID,
		UserID:    userID,
		ParentID:  parentID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Preload("User").Where("id = ?", c.ID).First(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments returns the top-level comments of an idea, newest first,
// each with its replies oldest first and all authors preloaded.
func ListComments(ctx context.Context, db *gorm.DB, ideaID string) ([]domain.Comment, error) {
	var tops []domain.Comment
	err := db.WithContext(ctx).
		Preload("User").
		Where("idea_id = ? AND parent_id IS NULL", ideaID).
		Order("created_at DESC").
		Find(&tops).Error
	if err != nil {
		return nil, err
	}
	return tops, nil
}

// ListReplies returns the direct replies of a comment, oldest first.
func ListReplies(ctx context.Context, db *gorm.DB, parentID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Preload("User").
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
