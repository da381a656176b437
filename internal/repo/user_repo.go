// Package repo – user persistence.
//
// Thin, context-aware repository functions for users, refresh tokens and
// follows. No business logic lives here; services enforce the rules and
// translate errors.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
)

// CreateUser inserts a new user row. Uniqueness of email, phone and
// username is enforced by the schema; violations surface as DB errors for
// the service layer to translate.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(u).Error
}

// GetUser fetches a user by ID, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by email, or ErrNotFound.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername fetches a user by username, or ErrNotFound.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUserConflict returns the first existing user that collides with the
// given email, phone or username, or nil when all three are free.
func FindUserConflict(ctx context.Context, db *gorm.DB, email, phone, username string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("email = ? OR phone = ? OR username = ?", email, phone, username).
		First(&u).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUserFields applies a partial update to the user row.
func UpdateUserFields(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DowngradeTier resets a user to FREE and clears the expiry. Used by the
// lazy expiry check at the auth boundary.
func DowngradeTier(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]any{"tier": domain.TierFree, "tier_expires_at": nil}).Error
}

// SetTier applies a tier with its expiry timestamp.
func SetTier(ctx context.Context, db *gorm.DB, id string, t domain.Tier, expiresAt time.Time) error {
	return db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]any{"tier": t, "tier_expires_at": expiresAt}).Error
}

// CountUsers returns the total number of registered users.
func CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error
	return n, err
}

// SearchUsers performs a case-insensitive substring match over username
// and display name, paginated, most-followed first.
func SearchUsers(ctx context.Context, db *gorm.DB, q string, offset, limit int) ([]domain.User, int64, error) {
	pattern := "%" + q + "%"
	base := db.WithContext(ctx).Model(&domain.User{}).
		Where("username LIKE ? COLLATE NOCASE OR display_name LIKE ? COLLATE NOCASE", pattern, pattern)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.User
	err := base.
		Order("(SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id) DESC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, total, err
}

//
// Refresh tokens
//

// CreateRefreshToken stores a new opaque refresh token for userID.
func CreateRefreshToken(ctx context.Context, db *gorm.DB, userID, token string, expiresAt time.Time) error {
	rt := &domain.RefreshToken{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(rt).Error
}

// GetRefreshToken fetches a stored refresh token row by its value.
func GetRefreshToken(ctx context.Context, db *gorm.DB, token string) (*domain.RefreshToken, error) {
	var rt domain.RefreshToken
	if err := db.WithContext(ctx).Where("token = ?", token).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// RotateRefreshToken replaces the token value and extends its expiry.
func RotateRefreshToken(ctx context.Context, db *gorm.DB, id, newToken string, expiresAt time.Time) error {
	return db.WithContext(ctx).Model(&domain.RefreshToken{}).Where("id = ?", id).
		Updates(map[string]any{"token": newToken, "expires_at": expiresAt}).Error
}

// DeleteRefreshTokens removes all refresh tokens for userID.
func DeleteRefreshTokens(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.RefreshToken{}).Error
}

// DeleteRefreshTokenByValue removes one refresh token by its value.
func DeleteRefreshTokenByValue(ctx context.Context, db *gorm.DB, token string) error {
	return db.WithContext(ctx).Where("token = ?", token).Delete(&domain.RefreshToken{}).Error
}

//
// Follows
//

// GetFollow returns the follow row for the pair, or ErrNotFound.
func GetFollow(ctx context.Context, db *gorm.DB, followerID, followingID string) (*domain.Follow, error) {
	var f domain.Follow
	err := db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFollow inserts a follow edge; the (follower, following) pair is
// unique at the schema level.
func CreateFollow(ctx context.Context, db *gorm.DB, followerID, followingID string) error {
	f := &domain.Follow{
		ID:          uuid.NewString(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(f).Error
}

// DeleteFollow removes a follow edge by row ID.
func DeleteFollow(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Follow{}).Error
}

// UserCounts returns the idea/follower/following counters shown on a profile.
func UserCounts(ctx context.Context, db *gorm.DB, userID string) (ideas, followers, following int64, err error) {
	if err = db.WithContext(ctx).Model(&domain.Idea{}).Where("author_id = ?", userID).Count(&ideas).Error; err != nil {
		return
	}
	if err = db.WithContext(ctx).Model(&domain.Follow{}).Where("following_id = ?", userID).Count(&followers).Error; err != nil {
		return
	}
	err = db.WithContext(ctx).Model(&domain.Follow{}).Where("follower_id = ?", userID).Count(&following).Error
	return
}
