// Package services – NotificationService
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/repo"
)

// NotificationService reads and settles the caller's notifications.
// Writes happen inside the services that produce events.
type NotificationService struct {
	DB *gorm.DB
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// List returns one page of the caller's notifications, newest first,
// with the total and unread counters.
func (s *NotificationService) List(ctx context.Context, userID string, page, limit int) ([]domain.Notification, int64, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return repo.ListNotificationsPage(ctx, s.DB, userID, (page-1)*limit, limit)
}

// MarkRead settles the given notification IDs, or every unread one when
// ids is empty. Only the caller's own rows are touched.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, ids []string) error {
	return repo.MarkNotificationsRead(ctx, s.DB, userID, ids)
}
