// Package repo – buyer interest, NDAs and disputes.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Abroon25/ideax/internal/domain"
)

// UpsertInterest inserts or overwrites the single interest row keyed by
// (idea, user). The ON CONFLICT clause makes concurrent resubmissions
// collapse into one row with the last write's message and offer.
func UpsertInterest(ctx context.Context, db *gorm.DB, ideaID, userID, message string, offerAmount *float64) (*domain.IdeaInterest, error) {
	it := &domain.IdeaInterest{
		ID:          uuid.NewString(),
		IdeaID:      ideaID,
		UserID:      userID,
		Message:     message,
		OfferAmount: offerAmount,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "idea_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"message", "offer_amount", "updated_at"}),
	}).Create(it).Error
	if err != nil {
		return nil, err
	}

	// Re-read so callers get the surviving row (the conflict path keeps
	// the original ID).
	var out domain.IdeaInterest
	if err := db.WithContext(ctx).Where("idea_id = ? AND user_id = ?", ideaID, userID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInterests returns all interest rows for an idea, newest first, with
// the prospective buyers preloaded.
func ListInterests(ctx context.Context, db *gorm.DB, ideaID string) ([]domain.IdeaInterest, error) {
	var out []domain.IdeaInterest
	err := db.WithContext(ctx).
		Preload("User").
		Where("idea_id = ?", ideaID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// CreateNDA records the confidentiality artifact for (idea, buyer, seller).
func CreateNDA(ctx context.Context, db *gorm.DB, ideaID, buyerID, sellerID string) (*domain.NDA, error) {
	nda := &domain.NDA{
		ID:        uuid.NewString(),
		IdeaID:    ideaID,
		BuyerID:   buyerID,
		SellerID:  sellerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(nda).Error; err != nil {
		return nil, err
	}
	return nda, nil
}

// CreateDispute opens a dispute against a transaction.
func CreateDispute(ctx context.Context, db *gorm.DB, transactionID, raisedByID, reason string) (*domain.Dispute, error) {
	d := &domain.Dispute{
		ID:            uuid.NewString(),
		TransactionID: transactionID,
		RaisedByID:    raisedByID,
		Reason:        reason,
		Status:        domain.DisputeOpen,
		CreatedAt:     time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// CountOpenDisputes returns the number of disputes still awaiting review.
func CountOpenDisputes(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Dispute{}).Where("status = ?", domain.DisputeOpen).Count(&n).Error
	return n, err
}
