package repo

import (
	"context"
	"testing"

	"github.com/Abroon25/ideax/internal/domain"
)

func TestListCreatorIdeaStats_RanksByViews(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "delia")
	fan := seedUser(t, db, "ezra")
	genre := seedGenre(t, db, "fintech", "Finance")

	quiet := seedIdea(t, db, author, genre, "quiet idea", true)
	busy := seedIdea(t, db, author, genre, "busy idea", true)

	for i := 0; i < 3; i++ {
		_ = IncrementViews(ctx, db, busy.ID)
	}
	_ = CreateLike(ctx, db, fan.ID, busy.ID)
	_ = CreateBookmark(ctx, db, fan.ID, busy.ID)
	if _, err := CreateComment(ctx, db, busy.ID, fan.ID, "love it", nil); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if _, err := UpsertInterest(ctx, db, busy.ID, fan.ID, "interested", nil); err != nil {
		t.Fatalf("UpsertInterest: %v", err)
	}

	rows, err := ListCreatorIdeaStats(ctx, db, author.ID)
	if err != nil {
		t.Fatalf("ListCreatorIdeaStats: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != busy.ID || rows[1].ID != quiet.ID {
		t.Fatalf("view ranking wrong: %+v", rows)
	}
	top := rows[0]
	if top.ViewCount != 3 || top.Likes != 1 || top.Comments != 1 || top.Bookmarks != 1 || top.Interests != 1 {
		t.Fatalf("counters wrong: %+v", top)
	}
}

func TestGetPlatformStats(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "fern")
	buyer := seedUser(t, db, "gus")
	genre := seedGenre(t, db, "gaming", "Technology")
	seedIdea(t, db, author, genre, "stats idea", true)

	txn := &domain.Transaction{UserID: buyer.ID, Type: domain.TxTierUpgrade, Amount: 499}
	_ = CreateTransaction(ctx, db, txn)
	_ = MarkTransactionCompleted(ctx, db, txn.ID, "pay", "sig")
	if _, err := CreateDispute(ctx, db, txn.ID, buyer.ID, "never applied"); err != nil {
		t.Fatalf("CreateDispute: %v", err)
	}

	s, err := GetPlatformStats(ctx, db)
	if err != nil {
		t.Fatalf("GetPlatformStats: %v", err)
	}
	if s.TotalUsers != 2 || s.TotalIdeas != 1 || s.TotalRevenue != 499 || s.OpenDisputes != 1 {
		t.Fatalf("rollup wrong: %+v", s)
	}
}
