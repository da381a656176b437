package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/email"
	"github.com/Abroon25/ideax/internal/repo"
)

func TestResolve_FreeAndActivePassThrough(t *testing.T) {
	db := newServiceDB(t)
	svc := NewTierService(db, &email.Recorder{})
	ctx := context.Background()

	free := newTestUser(t, db, "freeuser")
	got, err := svc.Resolve(ctx, free)
	if err != nil || got.Tier != domain.TierFree {
		t.Fatalf("free passthrough: %+v, %v", got, err)
	}

	paid := newTestUser(t, db, "paiduser")
	future := time.Now().UTC().Add(time.Hour)
	if err := repo.SetTier(ctx, db, paid.ID, domain.TierPremium, future); err != nil {
		t.Fatalf("SetTier: %v", err)
	}
	paid.Tier = domain.TierPremium
	paid.TierExpiresAt = &future
	got, err = svc.Resolve(ctx, paid)
	if err != nil || got.Tier != domain.TierPremium {
		t.Fatalf("active tier should survive: %+v, %v", got, err)
	}
}

func TestResolve_DowngradesLapsedTier(t *testing.T) {
	db := newServiceDB(t)
	svc := NewTierService(db, &email.Recorder{})
	ctx := context.Background()

	u := newTestUser(t, db, "lapser")
	past := time.Now().UTC().Add(-time.Minute)
	if err := repo.SetTier(ctx, db, u.ID, domain.TierBasic, past); err != nil {
		t.Fatalf("SetTier: %v", err)
	}
	u.Tier = domain.TierBasic
	u.TierExpiresAt = &past

	got, err := svc.Resolve(ctx, u)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Tier != domain.TierFree || got.TierExpiresAt != nil {
		t.Fatalf("lapsed tier not downgraded: %+v", got)
	}
	stored, _ := repo.GetUser(ctx, db, u.ID)
	if stored.Tier != domain.TierFree || stored.TierExpiresAt != nil {
		t.Fatalf("downgrade not stored: %+v", stored)
	}
}

func TestApplyUpgrade(t *testing.T) {
	db := newServiceDB(t)
	rec := &email.Recorder{}
	svc := NewTierService(db, rec)
	ctx := context.Background()
	u := newTestUser(t, db, "climber")

	if err := svc.ApplyUpgrade(ctx, u.ID, domain.TierFree); !errors.Is(err, ErrInvalidUpgrade) {
		t.Fatalf("FREE is not a purchasable target: %v", err)
	}
	if err := svc.ApplyUpgrade(ctx, u.ID, domain.Tier("GOLD")); !errors.Is(err, ErrInvalidUpgrade) {
		t.Fatalf("unknown tier must be rejected: %v", err)
	}

	before := time.Now().UTC()
	if err := svc.ApplyUpgrade(ctx, u.ID, domain.TierPremium); err != nil {
		t.Fatalf("ApplyUpgrade: %v", err)
	}

	stored, _ := repo.GetUser(ctx, db, u.ID)
	if stored.Tier != domain.TierPremium || stored.TierExpiresAt == nil {
		t.Fatalf("upgrade not stored: %+v", stored)
	}
	wantExpiry := before.AddDate(0, 1, 0)
	if diff := stored.TierExpiresAt.Sub(wantExpiry); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("expiry should be one calendar month out, got %v", stored.TierExpiresAt)
	}

	if len(rec.Sent) != 1 || rec.Sent[0].Subject != "Tier upgrade confirmed" {
		t.Fatalf("confirmation mail missing: %+v", rec.Sent)
	}
	_, _, unread, err := repo.ListNotificationsPage(ctx, db, u.ID, 0, 10)
	if err != nil || unread != 1 {
		t.Fatalf("upgrade notification missing: unread=%d err=%v", unread, err)
	}
}

func TestCatalog_ListsAllThreeTiers(t *testing.T) {
	svc := NewTierService(newServiceDB(t), &email.Recorder{})
	cat := svc.Catalog()
	if len(cat) != 3 {
		t.Fatalf("catalog size = %d; want 3", len(cat))
	}
	if cat[domain.TierBasic].MonthlyPrice != 499 {
		t.Fatalf("BASIC price wrong: %+v", cat[domain.TierBasic])
	}
}
