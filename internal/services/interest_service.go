// Package services – InterestService
//
// This file implements the buyer side of monetization: expressing
// interest in an idea, the author-only interest listing, NDA generation,
// and dispute filing. Interest is non-binding; nothing here transfers
// ownership or marks an idea sold.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/repo"
)

// InterestService owns interest, NDA, and dispute operations.
type InterestService struct {
	DB *gorm.DB
}

// NewInterestService constructs an InterestService.
func NewInterestService(db *gorm.DB) *InterestService {
	return &InterestService{DB: db}
}

// Express records the user's interest in a monetized, unsold idea they
// do not own. Resubmission overwrites the previous message and offer.
// The author is notified best-effort.
func (s *InterestService) Express(ctx context.Context, userID, ideaID, message string, offerAmount *float64) (*domain.IdeaInterest, error) {
	idea, err := repo.GetIdea(ctx, s.DB, ideaID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}
	if idea.AuthorID == userID {
		return nil, ErrSelfInterest
	}
	if idea.MonetizeType == domain.MonetizeNone {
		return nil, ErrNotMonetized
	}
	if idea.IsSold {
		return nil, ErrAlreadySold
	}

	interest, err := repo.UpsertInterest(ctx, s.DB, ideaID, userID, strings.TrimSpace(message), offerAmount)
	if err != nil {
		return nil, err
	}

	n := domain.Notification{
		ID:          uuid.NewString(),
		Type:        domain.NotifyIdeaInterest,
		RecipientID: idea.AuthorID,
		SenderID:    &userID,
		IdeaID:      &ideaID,
		Message:     "Someone is interested in your idea.",
	}
	if err := repo.CreateNotification(ctx, s.DB, &n); err != nil {
		log.Warn().Err(err).Str("idea_id", ideaID).Msg("interest notification failed")
	}
	return interest, nil
}

// List returns all interests on an idea. Only the idea's author may see
// them.
func (s *InterestService) List(ctx context.Context, actorID, ideaID string) ([]domain.IdeaInterest, error) {
	idea, err := repo.GetIdea(ctx, s.DB, ideaID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}
	if idea.AuthorID != actorID {
		return nil, ErrNotOwner
	}
	return repo.ListInterests(ctx, s.DB, ideaID)
}

// GenerateNDA creates the NDA artifact between the idea's author and a
// prospective buyer. Either party may trigger it; it never affects the
// idea's sold state.
func (s *InterestService) GenerateNDA(ctx context.Context, actorID, ideaID, buyerID string) (*domain.NDA, error) {
	idea, err := repo.GetIdea(ctx, s.DB, ideaID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}
	if idea.MonetizeType == domain.MonetizeNone {
		return nil, ErrNotMonetized
	}
	if buyerID == "" {
		buyerID = actorID
	}
	if actorID != idea.AuthorID && actorID != buyerID {
		return nil, ErrForbidden
	}
	if buyerID == idea.AuthorID {
		return nil, ErrSelfInterest
	}
	return repo.CreateNDA(ctx, s.DB, ideaID, buyerID, idea.AuthorID)
}

// RaiseDispute opens a dispute against one of the caller's transactions.
func (s *InterestService) RaiseDispute(ctx context.Context, actorID, transactionID, reason string) (*domain.Dispute, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrInvalidInput
	}

	tx, err := repo.GetTransaction(ctx, s.DB, transactionID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if tx.UserID != actorID {
		return nil, ErrTransactionNotFound
	}
	return repo.CreateDispute(ctx, s.DB, transactionID, actorID, reason)
}
