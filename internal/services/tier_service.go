// Package services – TierService
//
// This file implements the tier lifecycle: lazy expiry of paid tiers and
// application of a purchased upgrade. Expiry is evaluated at the auth
// boundary on every request instead of by a background job, so a lapsed
// subscription is enforced the moment its holder next shows up.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/email"
	"github.com/Abroon25/ideax/internal/repo"
	"github.com/Abroon25/ideax/internal/tier"
)

// TierService owns tier resolution and upgrades.
type TierService struct {
	DB    *gorm.DB
	Email email.Sender
}

// NewTierService constructs a TierService.
func NewTierService(db *gorm.DB, sender email.Sender) *TierService {
	return &TierService{DB: db, Email: sender}
}

// Resolve returns the user with an effective tier: a paid tier past its
// expiry is downgraded to FREE in storage and in the returned value.
// Every authenticated code path must read the tier through here.
func (s *TierService) Resolve(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u.Tier == domain.TierFree || u.TierExpiresAt == nil {
		return u, nil
	}
	if time.Now().UTC().Before(*u.TierExpiresAt) {
		return u, nil
	}

	if err := repo.DowngradeTier(ctx, s.DB, u.ID); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", u.ID).Str("from", string(u.Tier)).Msg("tier expired, downgraded to FREE")
	u.Tier = domain.TierFree
	u.TierExpiresAt = nil
	return u, nil
}

// Catalog returns the tier ladder for the pricing endpoint.
func (s *TierService) Catalog() map[domain.Tier]tier.Limits {
	return tier.All()
}

// ApplyUpgrade moves the user to target for one calendar month from now.
// It is called only after a verified payment. The confirmation mail and
// notification are best-effort.
func (s *TierService) ApplyUpgrade(ctx context.Context, userID string, target domain.Tier) error {
	if _, err := tier.Lookup(target); err != nil {
		return ErrInvalidUpgrade
	}
	if target == domain.TierFree {
		return ErrInvalidUpgrade
	}

	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		return err
	}

	// Calendar month, not 30 days: Jan 31 renews on the corresponding
	// normalized date.
	expiry := time.Now().UTC().AddDate(0, 1, 0)
	if err := repo.SetTier(ctx, s.DB, userID, target, expiry); err != nil {
		return err
	}
	log.Info().Str("user_id", userID).Str("tier", string(target)).Time("expires_at", expiry).Msg("tier upgraded")

	if err := repo.CreateNotification(ctx, s.DB, &domain.Notification{
		ID:          uuid.NewString(),
		Type:        domain.NotifyTierUpgraded,
		RecipientID: userID,
		Message:     fmt.Sprintf("Your account is now on the %s tier.", target),
	}); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("upgrade notification failed")
	}
	if err := s.Email.Send(ctx, u.Email, "Tier upgrade confirmed",
		fmt.Sprintf("<p>You are now on <b>%s</b> until %s.</p>", target, expiry.Format("2 Jan 2006"))); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("upgrade email failed")
	}
	return nil
}
