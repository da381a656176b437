package repo

import (
	"context"
	"testing"

	"github.com/Abroon25/ideax/internal/domain"
)

func TestUpsertInterest_ResubmissionOverwrites(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "zara")
	buyer := seedUser(t, db, "abram")
	g := seedGenre(t, db, "fintech", "STARTUP")
	idea := seedIdea(t, db, author, g, "x", true)

	offer1 := 1000.0
	first, err := UpsertInterest(ctx, db, idea.ID, buyer.ID, "interested", &offer1)
	if err != nil {
		t.Fatalf("UpsertInterest: %v", err)
	}

	offer2 := 2500.0
	second, err := UpsertInterest(ctx, db, idea.ID, buyer.ID, "raising my offer", &offer2)
	if err != nil {
		t.Fatalf("UpsertInterest rerun: %v", err)
	}
	// The conflict path keeps the original row.
	if second.ID != first.ID {
		t.Fatalf("resubmission should keep the original row id")
	}
	if second.Message != "raising my offer" || second.OfferAmount == nil || *second.OfferAmount != 2500 {
		t.Fatalf("overwrite not applied: %+v", second)
	}

	var n int64
	db.Model(&domain.IdeaInterest{}).Where("idea_id = ?", idea.ID).Count(&n)
	if n != 1 {
		t.Fatalf("expected a single interest row, got %d", n)
	}
}

func TestListInterests_NewestFirstWithBuyers(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "basil")
	b1 := seedUser(t, db, "cora")
	b2 := seedUser(t, db, "dmitri")
	g := seedGenre(t, db, "gaming", "CREATIVE")
	idea := seedIdea(t, db, author, g, "x", true)

	if _, err := UpsertInterest(ctx, db, idea.ID, b1.ID, "me first", nil); err != nil {
		t.Fatalf("UpsertInterest: %v", err)
	}
	if _, err := UpsertInterest(ctx, db, idea.ID, b2.ID, "me too", nil); err != nil {
		t.Fatalf("UpsertInterest: %v", err)
	}

	out, err := ListInterests(ctx, db, idea.ID)
	if err != nil {
		t.Fatalf("ListInterests: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 interests, got %d", len(out))
	}
	if out[0].User.Username == "" {
		t.Fatalf("buyer not preloaded: %+v", out[0])
	}
}

func TestCreateNDA(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "elio")
	buyer := seedUser(t, db, "freya")
	g := seedGenre(t, db, "health", "STARTUP")
	idea := seedIdea(t, db, author, g, "x", true)

	nda, err := CreateNDA(ctx, db, idea.ID, buyer.ID, author.ID)
	if err != nil {
		t.Fatalf("CreateNDA: %v", err)
	}
	if nda.ID == "" || nda.BuyerID != buyer.ID || nda.SellerID != author.ID {
		t.Fatalf("nda fields unexpected: %+v", nda)
	}
}

func TestDisputes_CreateAndCountOpen(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "gideon")

	txn := &domain.Transaction{UserID: u.ID, Type: domain.TxTierUpgrade, Amount: 499}
	if err := CreateTransaction(ctx, db, txn); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	d, err := CreateDispute(ctx, db, txn.ID, u.ID, "charged twice")
	if err != nil {
		t.Fatalf("CreateDispute: %v", err)
	}
	if d.Status != domain.DisputeOpen {
		t.Fatalf("new dispute should be OPEN, got %s", d.Status)
	}

	n, err := CountOpenDisputes(ctx, db)
	if err != nil || n != 1 {
		t.Fatalf("CountOpenDisputes = %d, err %v", n, err)
	}

	db.Model(&domain.Dispute{}).Where("id = ?", d.ID).Update("status", domain.DisputeResolved)
	n, _ = CountOpenDisputes(ctx, db)
	if n != 0 {
		t.Fatalf("resolved dispute still counted open")
	}
}
