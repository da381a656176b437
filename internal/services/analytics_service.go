// Package services – AnalyticsService
//
// This file implements creator analytics and the admin platform summary.
// The admin check fails closed: anything but an explicit ADMIN role is
// rejected.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/repo"
)

// CreatorSummary aggregates a creator's reach across all their ideas.
type CreatorSummary struct {
	IdeaCount      int64                   `json:"idea_count"`
	TotalViews     int64                   `json:"total_views"`
	TotalEarnings  float64                 `json:"total_earnings"`
	TotalInterests int64                   `json:"total_interests"`
	Ideas          []repo.CreatorIdeaStats `json:"ideas"`
}

// AnalyticsService owns the reporting reads.
type AnalyticsService struct {
	DB *gorm.DB
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db}
}

// CreatorSummary returns the caller's per-idea stats ranked by views,
// plus the rolled-up totals.
func (s *AnalyticsService) CreatorSummary(ctx context.Context, userID string) (*CreatorSummary, error) {
	rows, err := repo.ListCreatorIdeaStats(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}

	out := &CreatorSummary{IdeaCount: int64(len(rows)), Ideas: rows}
	for _, r := range rows {
		out.TotalViews += r.ViewCount
		out.TotalEarnings += r.TotalEarnings
		out.TotalInterests += r.Interests
	}
	return out, nil
}

// PlatformStats returns the platform-wide totals. Only admins may read
// them.
func (s *AnalyticsService) PlatformStats(ctx context.Context, actor *domain.User) (*repo.PlatformStats, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	return repo.GetPlatformStats(ctx, s.DB)
}
