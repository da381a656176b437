package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
)

// seedUser inserts a minimal user; the username doubles as the local part
// of the email and the tail of the phone number so rows never collide.
func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        username + "@example.com",
		Phone:        "9" + fixedDigits(username),
		Username:     username,
		DisplayName:  username,
		PasswordHash: "x",
		Role:         domain.RoleUser,
		Tier:         domain.TierFree,
	}
	if err := CreateUser(context.Background(), db, u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// fixedDigits maps a name onto nine digits for the phone column.
func fixedDigits(s string) string {
	out := make([]byte, 9)
	for i := range out {
		out[i] = '0' + byte(s[i%len(s)]%10)
	}
	return string(out)
}

func TestCreateUser_AssignsIDAndTimestamps(t *testing.T) {
	db := newRepoDB(t)
	u := seedUser(t, db, "alice")
	if u.ID == "" || u.CreatedAt.IsZero() {
		t.Fatalf("id/created_at not set: %+v", u)
	}

	got, err := GetUser(context.Background(), db, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestGetUserBy_EmailAndUsername(t *testing.T) {
	db := newRepoDB(t)
	u := seedUser(t, db, "bob")

	if got, err := GetUserByEmail(context.Background(), db, u.Email); err != nil || got.ID != u.ID {
		t.Fatalf("GetUserByEmail: got=%v err=%v", got, err)
	}
	if got, err := GetUserByUsername(context.Background(), db, "bob"); err != nil || got.ID != u.ID {
		t.Fatalf("GetUserByUsername: got=%v err=%v", got, err)
	}
	if _, err := GetUser(context.Background(), db, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindUserConflict(t *testing.T) {
	db := newRepoDB(t)
	u := seedUser(t, db, "carol")

	hit, err := FindUserConflict(context.Background(), db, u.Email, "9000000000", "someoneelse")
	if err != nil || hit == nil || hit.ID != u.ID {
		t.Fatalf("email conflict not found: hit=%v err=%v", hit, err)
	}
	free, err := FindUserConflict(context.Background(), db, "new@example.com", "9000000001", "newname")
	if err != nil || free != nil {
		t.Fatalf("expected no conflict, got hit=%v err=%v", free, err)
	}
}

func TestUpdateUserFields_NotFound(t *testing.T) {
	db := newRepoDB(t)
	err := UpdateUserFields(context.Background(), db, "missing", map[string]any{"bio": "x"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestTierSetAndDowngrade(t *testing.T) {
	db := newRepoDB(t)
	u := seedUser(t, db, "dave")

	expiry := time.Now().UTC().Add(24 * time.Hour)
	if err := SetTier(context.Background(), db, u.ID, domain.TierPremium, expiry); err != nil {
		t.Fatalf("SetTier: %v", err)
	}
	got, _ := GetUser(context.Background(), db, u.ID)
	if got.Tier != domain.TierPremium || got.TierExpiresAt == nil {
		t.Fatalf("tier not applied: %+v", got)
	}

	if err := DowngradeTier(context.Background(), db, u.ID); err != nil {
		t.Fatalf("DowngradeTier: %v", err)
	}
	got, _ = GetUser(context.Background(), db, u.ID)
	if got.Tier != domain.TierFree || got.TierExpiresAt != nil {
		t.Fatalf("downgrade incomplete: %+v", got)
	}
}

func TestRefreshTokens_Lifecycle(t *testing.T) {
	db := newRepoDB(t)
	u := seedUser(t, db, "erin")
	ctx := context.Background()

	exp := time.Now().UTC().Add(time.Hour)
	if err := CreateRefreshToken(ctx, db, u.ID, "tok-1", exp); err != nil {
		t.Fatalf("CreateRefreshToken: %v", err)
	}
	rt, err := GetRefreshToken(ctx, db, "tok-1")
	if err != nil || rt.UserID != u.ID {
		t.Fatalf("GetRefreshToken: rt=%v err=%v", rt, err)
	}

	if err := RotateRefreshToken(ctx, db, rt.ID, "tok-2", exp.Add(time.Hour)); err != nil {
		t.Fatalf("RotateRefreshToken: %v", err)
	}
	if _, err := GetRefreshToken(ctx, db, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old token should be gone, got %v", err)
	}
	if _, err := GetRefreshToken(ctx, db, "tok-2"); err != nil {
		t.Fatalf("rotated token missing: %v", err)
	}

	if err := DeleteRefreshTokenByValue(ctx, db, "tok-2"); err != nil {
		t.Fatalf("DeleteRefreshTokenByValue: %v", err)
	}
	if _, err := GetRefreshToken(ctx, db, "tok-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted token still present")
	}

	_ = CreateRefreshToken(ctx, db, u.ID, "tok-3", exp)
	_ = CreateRefreshToken(ctx, db, u.ID, "tok-4", exp)
	if err := DeleteRefreshTokens(ctx, db, u.ID); err != nil {
		t.Fatalf("DeleteRefreshTokens: %v", err)
	}
	var n int64
	db.Model(&domain.RefreshToken{}).Where("user_id = ?", u.ID).Count(&n)
	if n != 0 {
		t.Fatalf("expected all tokens revoked, %d left", n)
	}
}

func TestFollows_AndUserCounts(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	a := seedUser(t, db, "featherb")
	b := seedUser(t, db, "grace")

	if _, err := GetFollow(ctx, db, a.ID, b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no follow yet, got %v", err)
	}
	if err := CreateFollow(ctx, db, a.ID, b.ID); err != nil {
		t.Fatalf("CreateFollow: %v", err)
	}
	f, err := GetFollow(ctx, db, a.ID, b.ID)
	if err != nil {
		t.Fatalf("GetFollow: %v", err)
	}

	// Duplicate edge is rejected by the unique pair index.
	if err := CreateFollow(ctx, db, a.ID, b.ID); err == nil {
		t.Fatalf("duplicate follow should violate the unique index")
	}

	_, followers, following, err := UserCounts(ctx, db, b.ID)
	if err != nil || followers != 1 || following != 0 {
		t.Fatalf("counts for b: followers=%d following=%d err=%v", followers, following, err)
	}
	_, followers, following, _ = UserCounts(ctx, db, a.ID)
	if followers != 0 || following != 1 {
		t.Fatalf("counts for a: followers=%d following=%d", followers, following)
	}

	if err := DeleteFollow(ctx, db, f.ID); err != nil {
		t.Fatalf("DeleteFollow: %v", err)
	}
	if _, err := GetFollow(ctx, db, a.ID, b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("follow should be gone")
	}
}

func TestSearchUsers_MatchesAndRanksByFollowers(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	popular := seedUser(t, db, "devpopular")
	quiet := seedUser(t, db, "devquiet")
	fan := seedUser(t, db, "harriet")
	_ = CreateFollow(ctx, db, fan.ID, popular.ID)

	out, total, err := SearchUsers(ctx, db, "DEV", 0, 10)
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if total != 2 || len(out) != 2 {
		t.Fatalf("expected both dev users, got total=%d len=%d", total, len(out))
	}
	if out[0].ID != popular.ID || out[1].ID != quiet.ID {
		t.Fatalf("follower ranking not applied: %s before %s", out[0].Username, out[1].Username)
	}
}
