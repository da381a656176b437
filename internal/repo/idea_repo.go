// Package repo – idea persistence.
//
// Repository functions for ideas and their attachments: CRUD, the atomic
// view counter, and the feed/search query composition. Ordering and
// filter semantics live here; the eligibility rules (policy) live in the
// services layer.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
)

// IdeaFilter narrows a feed query. Zero values mean "no filter".
type IdeaFilter struct {
	Category     string
	GenreID      string
	MonetizeType domain.MonetizeType
	AuthorID     string
	// GenreIDs applies the viewer's onboarding genre personalization when
	// no explicit category/genre filter is present.
	GenreIDs []string
	// SortPopular orders by like count descending instead of recency.
	SortPopular bool
	// IncludePrivate lifts the is_public restriction for owner listings.
	IncludePrivate bool
}

// CreateIdea inserts the idea row.
func CreateIdea(ctx context.Context, db *gorm.DB, idea *domain.Idea) error {
	if idea.ID == "" {
		idea.ID = uuid.NewString()
	}
	idea.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(idea).Error
}

// GetIdea fetches an idea by ID with genre and attachments preloaded,
// or ErrNotFound.
func GetIdea(ctx context.Context, db *gorm.DB, id string) (*domain.Idea, error) {
	var idea domain.Idea
	err := db.WithContext(ctx).
		Preload("Genre").
		Preload("Attachments").
		Where("id = ?", id).
		First(&idea).Error
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

// IncrementViews bumps the view counter atomically at the storage layer.
// Read-then-write from application code would lose updates under
// concurrent viewers.
func IncrementViews(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Model(&domain.Idea{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// UpdateIdeaContent replaces the content and char count of an idea.
func UpdateIdeaContent(ctx context.Context, db *gorm.DB, id, content string, charCount int) error {
	res := db.WithContext(ctx).Model(&domain.Idea{}).Where("id = ?", id).
		Updates(map[string]any{"content": content, "char_count": charCount})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteIdea removes the idea row; attachments cascade via FK.
func DeleteIdea(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Idea{}).Error
}

// CreateAttachment inserts an attachment row for an idea.
func CreateAttachment(ctx context.Context, db *gorm.DB, att *domain.Attachment) error {
	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	att.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(att).Error
}

// ListAttachments returns the attachments of an idea.
func ListAttachments(ctx context.Context, db *gorm.DB, ideaID string) ([]domain.Attachment, error) {
	var out []domain.Attachment
	err := db.WithContext(ctx).Where("idea_id = ?", ideaID).Find(&out).Error
	return out, err
}

// applyFilter composes the WHERE clause shared by feed listing and its
// count query.
func applyFilter(q *gorm.DB, f IdeaFilter) *gorm.DB {
	if !f.IncludePrivate {
		q = q.Where("is_public = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.GenreID != "" {
		q = q.Where("genre_id = ?", f.GenreID)
	}
	if f.MonetizeType != "" {
		q = q.Where("monetize_type = ?", f.MonetizeType)
	}
	if f.AuthorID != "" {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if len(f.GenreIDs) > 0 {
		q = q.Where("genre_id IN ?", f.GenreIDs)
	}
	return q
}

// ListIdeasPage returns one page of the feed plus the filtered total.
// Popular ordering ranks by like count descending with recency as the
// tie-break.
func ListIdeasPage(ctx context.Context, db *gorm.DB, f IdeaFilter, offset, limit int) ([]domain.Idea, int64, error) {
	base := applyFilter(db.WithContext(ctx).Model(&domain.Idea{}), f)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := applyFilter(db.WithContext(ctx).Model(&domain.Idea{}), f).
		Preload("Genre").
		Preload("Attachments")
	if f.SortPopular {
		q = q.Order("(SELECT COUNT(*) FROM likes WHERE likes.idea_id = ideas.id) DESC, created_at DESC")
	} else {
		q = q.Order("created_at DESC")
	}

	var out []domain.Idea
	err := q.Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

// SearchIdeas performs a case-insensitive substring match over idea
// content and the author's username/display name. Search deliberately
// skips the genre personalization applied to the default feed.
func SearchIdeas(ctx context.Context, db *gorm.DB, q string, offset, limit int) ([]domain.Idea, int64, error) {
	pattern := "%" + q + "%"
	match := db.WithContext(ctx).Model(&domain.Idea{}).
		Joins("JOIN users ON users.id = ideas.author_id").
		Where("ideas.is_public = ?", true).
		Where("ideas.content LIKE ? COLLATE NOCASE OR users.username LIKE ? COLLATE NOCASE OR users.display_name LIKE ? COLLATE NOCASE",
			pattern, pattern, pattern)

	var total int64
	if err := match.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Idea
	err := match.
		Preload("Genre").
		Preload("Attachments").
		Order("ideas.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, total, err
}

// CountIdeas returns the total number of ideas on the platform.
func CountIdeas(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Idea{}).Count(&n).Error
	return n, err
}

// IdeaCounts returns the like/comment/bookmark/interest counters of an idea.
func IdeaCounts(ctx context.Context, db *gorm.DB, ideaID string) (likes, comments, bookmarks, interests int64, err error) {
	if err = db.WithContext(ctx).Model(&domain.Like{}).Where("idea_id = ?", ideaID).Count(&likes).Error; err != nil {
		return
	}
	if err = db.WithContext(ctx).Model(&domain.Comment{}).Where("idea_id = ?", ideaID).Count(&comments).Error; err != nil {
		return
	}
	if err = db.WithContext(ctx).Model(&domain.Bookmark{}).Where("idea_id = ?", ideaID).Count(&bookmarks).Error; err != nil {
		return
	}
	err = db.WithContext(ctx).Model(&domain.IdeaInterest{}).Where("idea_id = ?", ideaID).Count(&interests).Error
	return
}

// ListBookmarkedIdeasPage returns a page of the user's bookmarked ideas,
// most recently bookmarked first.
func ListBookmarkedIdeasPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Idea, int64, error) {
	base := db.WithContext(ctx).Model(&domain.Bookmark{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var marks []domain.Bookmark
	if err := base.Order("created_at DESC").Offset(offset).Limit(limit).Find(&marks).Error; err != nil {
		return nil, 0, err
	}
	if len(marks) == 0 {
		return []domain.Idea{}, total, nil
	}

	ids := make([]string, 0, len(marks))
	for _, b := range marks {
		ids = append(ids, b.IdeaID)
	}
	var ideas []domain.Idea
	if err := db.WithContext(ctx).
		Preload("Genre").Preload("Attachments").
		Where("id IN ?", ids).Find(&ideas).Error; err != nil {
		return nil, 0, err
	}

	// Preserve bookmark order.
	byID := make(map[string]domain.Idea, len(ideas))
	for _, i := range ideas {
		byID[i.ID] = i
	}
	ordered := make([]domain.Idea, 0, len(marks))
	for _, b := range marks {
		if i, ok := byID[b.IdeaID]; ok {
			ordered = append(ordered, i)
		}
	}
	return ordered, total, nil
}
