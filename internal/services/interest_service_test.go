package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/repo"
)

// newMonetizedIdea seeds a public idea carrying the given monetize type.
func newMonetizedIdea(t *testing.T, db *gorm.DB, authorID string, mt domain.MonetizeType) *domain.Idea {
	t.Helper()
	idea := &domain.Idea{
		ID:           uuid.NewString(),
		AuthorID:     authorID,
		GenreID:      "genre-fintech",
		Category:     "Technology",
		Content:      "an idea for sale",
		CharCount:    16,
		IsPublic:     true,
		MonetizeType: mt,
	}
	if err := repo.CreateIdea(context.Background(), db, idea); err != nil {
		t.Fatalf("seed idea: %v", err)
	}
	return idea
}

func TestExpress_GuardsAndOverwrite(t *testing.T) {
	db := newServiceDB(t)
	svc := NewInterestService(db)
	ctx := context.Background()
	author := newTestUser(t, db, "inventor")
	buyer := newTestUser(t, db, "investor")
	newTestGenre(t, db, "fintech")
	idea := newMonetizedIdea(t, db, author.ID, domain.MonetizeMoney)

	if _, err := svc.Express(ctx, buyer.ID, "missing", "hi", nil); !errors.Is(err, ErrIdeaNotFound) {
		t.Fatalf("unknown idea: %v", err)
	}
	if _, err := svc.Express(ctx, author.ID, idea.ID, "mine", nil); !errors.Is(err, ErrSelfInterest) {
		t.Fatalf("self interest: %v", err)
	}

	plain := newMonetizedIdea(t, db, author.ID, domain.MonetizeNone)
	if _, err := svc.Express(ctx, buyer.ID, plain.ID, "hi", nil); !errors.Is(err, ErrNotMonetized) {
		t.Fatalf("non-monetized: %v", err)
	}

	offer := 1000.0
	first, err := svc.Express(ctx, buyer.ID, idea.ID, "I want this", &offer)
	if err != nil {
		t.Fatalf("Express: %v", err)
	}

	// Resubmission overwrites in place.
	better := 2500.0
	second, err := svc.Express(ctx, buyer.ID, idea.ID, "raising my offer", &better)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if second.ID != first.ID || *second.OfferAmount != 2500 {
		t.Fatalf("resubmission should overwrite: %+v", second)
	}

	// The author is notified each time.
	_, _, unread, _ := repo.ListNotificationsPage(ctx, db, author.ID, 0, 10)
	if unread != 2 {
		t.Fatalf("author notifications = %d; want 2", unread)
	}
}

func TestExpress_SoldIdeaRejected(t *testing.T) {
	db := newServiceDB(t)
	svc := NewInterestService(db)
	ctx := context.Background()
	author := newTestUser(t, db, "soldout")
	buyer := newTestUser(t, db, "latecomer")
	newTestGenre(t, db, "fintech")
	idea := newMonetizedIdea(t, db, author.ID, domain.MonetizeMoney)

	if err := db.Model(&domain.Idea{}).Where("id = ?", idea.ID).Update("is_sold", true).Error; err != nil {
		t.Fatalf("mark sold: %v", err)
	}
	if _, err := svc.Express(ctx, buyer.ID, idea.ID, "too late?", nil); !errors.Is(err, ErrAlreadySold) {
		t.Fatalf("sold idea: %v", err)
	}
}

func TestInterestList_AuthorOnly(t *testing.T) {
	db := newServiceDB(t)
	svc := NewInterestService(db)
	ctx := context.Background()
	author := newTestUser(t, db, "curator")
	buyer := newTestUser(t, db, "bidder")
	newTestGenre(t, db, "fintech")
	idea := newMonetizedIdea(t, db, author.ID, domain.MonetizeProfitShare)

	_, _ = svc.Express(ctx, buyer.ID, idea.ID, "count me in", nil)

	if _, err := svc.List(ctx, buyer.ID, idea.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("non-author list: %v", err)
	}
	out, err := svc.List(ctx, author.ID, idea.ID)
	if err != nil || len(out) != 1 || out[0].UserID != buyer.ID {
		t.Fatalf("List: %+v, %v", out, err)
	}
}

func TestGenerateNDA(t *testing.T) {
	db := newServiceDB(t)
	svc := NewInterestService(db)
	ctx := context.Background()
	author := newTestUser(t, db, "drafter")
	buyer := newTestUser(t, db, "signer")
	outsider := newTestUser(t, db, "lurker")
	newTestGenre(t, db, "fintech")
	idea := newMonetizedIdea(t, db, author.ID, domain.MonetizeShareholding)

	// The buyer triggers it for themselves.
	nda, err := svc.GenerateNDA(ctx, buyer.ID, idea.ID, "")
	if err != nil {
		t.Fatalf("GenerateNDA: %v", err)
	}
	if nda.BuyerID != buyer.ID || nda.SellerID != author.ID || nda.IdeaID != idea.ID {
		t.Fatalf("parties wrong: %+v", nda)
	}

	// The author may draft one naming a buyer.
	if _, err := svc.GenerateNDA(ctx, author.ID, idea.ID, buyer.ID); err != nil {
		t.Fatalf("author-initiated NDA: %v", err)
	}

	if _, err := svc.GenerateNDA(ctx, outsider.ID, idea.ID, buyer.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("third party NDA: %v", err)
	}
	if _, err := svc.GenerateNDA(ctx, author.ID, idea.ID, author.ID); !errors.Is(err, ErrSelfInterest) {
		t.Fatalf("author as buyer: %v", err)
	}

	plain := newMonetizedIdea(t, db, author.ID, domain.MonetizeNone)
	if _, err := svc.GenerateNDA(ctx, buyer.ID, plain.ID, ""); !errors.Is(err, ErrNotMonetized) {
		t.Fatalf("non-monetized NDA: %v", err)
	}
}

func TestRaiseDispute(t *testing.T) {
	db := newServiceDB(t)
	svc := NewInterestService(db)
	ctx := context.Background()
	buyer := newTestUser(t, db, "wronged")
	other := newTestUser(t, db, "bystander")

	txn := &domain.Transaction{UserID: buyer.ID, Type: domain.TxTierUpgrade, Amount: 499}
	_ = repo.CreateTransaction(ctx, db, txn)

	if _, err := svc.RaiseDispute(ctx, buyer.ID, txn.ID, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank reason: %v", err)
	}
	if _, err := svc.RaiseDispute(ctx, other.ID, txn.ID, "not my charge"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("foreign transaction: %v", err)
	}

	d, err := svc.RaiseDispute(ctx, buyer.ID, txn.ID, "tier never applied")
	if err != nil {
		t.Fatalf("RaiseDispute: %v", err)
	}
	if d.Status != domain.DisputeOpen || d.RaisedByID != buyer.ID {
		t.Fatalf("dispute wrong: %+v", d)
	}
	n, _ := repo.CountOpenDisputes(ctx, db)
	if n != 1 {
		t.Fatalf("open disputes = %d", n)
	}
}
