// Package repo – read-side aggregate queries for the analytics endpoints.
// Pure rollups; nothing here mutates state.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
)

// CreatorIdeaStats is one idea's analytics row, ranked by views in
// ListCreatorIdeaStats.
type CreatorIdeaStats struct {
	ID            string  `json:"id"`
	Content       string  `json:"content"`
	ViewCount     int64   `json:"view_count"`
	TotalEarnings float64 `json:"total_earnings"`
	IsSold        bool    `json:"is_sold"`
	Likes         int64   `json:"likes"`
	Comments      int64   `json:"comments"`
	Bookmarks     int64   `json:"bookmarks"`
	Interests     int64   `json:"interests"`
}

// ListCreatorIdeaStats returns per-idea counters for everything the
// author has posted, top performing (by views) first.
func ListCreatorIdeaStats(ctx context.Context, db *gorm.DB, authorID string) ([]CreatorIdeaStats, error) {
	var out []CreatorIdeaStats
	err := db.WithContext(ctx).Model(&domain.Idea{}).
		Select(`ideas.id, ideas.content, ideas.view_count, ideas.total_earnings, ideas.is_sold,
			(SELECT COUNT(*) FROM likes WHERE likes.idea_id = ideas.id) AS likes,
			(SELECT COUNT(*) FROM comments WHERE comments.idea_id = ideas.id AND comments.deleted_at IS NULL) AS comments,
			(SELECT COUNT(*) FROM bookmarks WHERE bookmarks.idea_id = ideas.id) AS bookmarks,
			(SELECT COUNT(*) FROM idea_interests WHERE idea_interests.idea_id = ideas.id) AS interests`).
		Where("ideas.author_id = ?", authorID).
		Order("ideas.view_count DESC").
		Scan(&out).Error
	return out, err
}

// PlatformStats is the admin-only rollup across the whole platform.
type PlatformStats struct {
	TotalUsers   int64 `json:"total_users"`
	TotalIdeas   int64 `json:"total_ideas"`
	TotalRevenue int64 `json:"total_revenue"`
	OpenDisputes int64 `json:"open_disputes"`
}

// GetPlatformStats computes the admin dashboard counters: user and idea
// totals, completed-transaction revenue, and open dispute count.
func GetPlatformStats(ctx context.Context, db *gorm.DB) (*PlatformStats, error) {
	var s PlatformStats
	var err error

	if s.TotalUsers, err = CountUsers(ctx, db); err != nil {
		return nil, err
	}
	if s.TotalIdeas, err = CountIdeas(ctx, db); err != nil {
		return nil, err
	}
	if s.TotalRevenue, err = SumCompletedAmounts(ctx, db); err != nil {
		return nil, err
	}
	if s.OpenDisputes, err = CountOpenDisputes(ctx, db); err != nil {
		return nil, err
	}
	return &s, nil
}
