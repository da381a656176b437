// Package repo – payment transactions and notifications.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
)

// CreateTransaction inserts a PENDING payment attempt.
func CreateTransaction(ctx context.Context, db *gorm.DB, tx *domain.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Status == "" {
		tx.Status = domain.TxPending
	}
	tx.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(tx).Error
}

// GetTransaction fetches a transaction by ID, or ErrNotFound.
func GetTransaction(ctx context.Context, db *gorm.DB, id string) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := db.WithContext(ctx).Where("id = ?", id).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

// MarkTransactionFailed moves a transaction to FAILED. Called before a
// verification error is returned so no attempt is left ambiguously
// PENDING.
func MarkTransactionFailed(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Model(&domain.Transaction{}).Where("id = ?", id).
		Update("status", domain.TxFailed).Error
}

// MarkTransactionCompleted moves a transaction to COMPLETED and records
// the gateway payment identifiers.
func MarkTransactionCompleted(ctx context.Context, db *gorm.DB, id, paymentID, signature string) error {
	return db.WithContext(ctx).Model(&domain.Transaction{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":     domain.TxCompleted,
			"payment_id": paymentID,
			"signature":  signature,
		}).Error
}

// ListTransactions returns the user's most recent payment attempts.
func ListTransactions(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.Transaction, error) {
	var out []domain.Transaction
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SumCompletedAmounts totals the amounts of all COMPLETED transactions.
func SumCompletedAmounts(ctx context.Context, db *gorm.DB) (int64, error) {
	var row struct{ Total int64 }
	err := db.WithContext(ctx).Model(&domain.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("status = ?", domain.TxCompleted).
		Scan(&row).Error
	return row.Total, err
}

//
// Notifications
//

// CreateNotification inserts a notification row. Callers treat failures
// as best-effort and only log them.
func CreateNotification(ctx context.Context, db *gorm.DB, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(n).Error
}

// ListNotificationsPage returns one page of the recipient's
// notifications, newest first, plus the total and unread counts.
func ListNotificationsPage(ctx context.Context, db *gorm.DB, recipientID string, offset, limit int) ([]domain.Notification, int64, int64, error) {
	base := db.WithContext(ctx).Model(&domain.Notification{}).Where("recipient_id = ?", recipientID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}
	var unread int64
	if err := db.WithContext(ctx).Model(&domain.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&unread).Error; err != nil {
		return nil, 0, 0, err
	}

	var out []domain.Notification
	err := db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, total, unread, err
}

// MarkNotificationsRead marks the given notifications read, scoped to the
// recipient. An empty ids slice marks everything unread as read.
func MarkNotificationsRead(ctx context.Context, db *gorm.DB, recipientID string, ids []string) error {
	q := db.WithContext(ctx).Model(&domain.Notification{}).Where("recipient_id = ?", recipientID)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	} else {
		q = q.Where("is_read = ?", false)
	}
	return q.Update("is_read", true).Error
}
