package domain

import (
	"time"

	"gorm.io/gorm"
)

// User is a platform account. Tier and TierExpiresAt are mutated only by
// the tier lifecycle (upgrade or lazy expiry at the auth boundary); the
// stored tier must never be trusted past TierExpiresAt.
type User struct {
	ID            string     `json:"id"              gorm:"type:char(36);primaryKey"`
	Email         string     `json:"email"           gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash  string     `json:"-"               gorm:"column:password;type:varchar(128);not null"`
	Phone         string     `json:"phone"           gorm:"type:varchar(16);not null;uniqueIndex"`
	Username      string     `json:"username"        gorm:"type:varchar(32);not null;uniqueIndex"`
	DisplayName   string     `json:"display_name"    gorm:"type:varchar(64);not null"`
	Bio           string     `json:"bio"             gorm:"type:varchar(512)"`
	Avatar        string     `json:"avatar"          gorm:"type:varchar(512)"`
	Role          string     `json:"role"            gorm:"type:varchar(16);not null;default:'USER'"`
	Tier          Tier       `json:"tier"            gorm:"type:varchar(16);not null;default:'FREE'"`
	TierExpiresAt *time.Time `json:"tier_expires_at"`

	IsVerified    bool `json:"is_verified"    gorm:"not null;default:false"`
	IsOnboarded   bool `json:"is_onboarded"   gorm:"not null;default:false"`
	TourCompleted bool `json:"tour_completed" gorm:"not null;default:false"`

	ResetToken       *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// PublicUser is the author/sender projection embedded into idea, comment
// and notification payloads. It never exposes credentials or contact data.
type PublicUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	Tier        Tier   `json:"tier"`
}

// Public returns the shareable projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
		Tier:        u.Tier,
	}
}

// RefreshToken is an opaque, rotating credential exchanged for new access
// tokens. One row per issued token; rotation replaces the token value.
type RefreshToken struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Token     string    `json:"-"          gorm:"type:char(36);not null;uniqueIndex"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for RefreshToken.
func (RefreshToken) TableName() string { return "refresh_tokens" }

// Follow links a follower to the account they follow. The pair is unique
// so a double-follow toggles instead of duplicating.
type Follow struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	FollowerID  string    `json:"follower_id"  gorm:"type:char(36);not null;index;uniqueIndex:ux_follow_pair"`
	FollowingID string    `json:"following_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_follow_pair"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `json:"-" gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE"`
	Following User `json:"-" gorm:"foreignKey:FollowingID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Follow.
func (Follow) TableName() string { return "follows" }

// UserGenre records a genre the user picked during onboarding. The feed
// narrows to these genres when the user queries without explicit filters.
type UserGenre struct {
	ID        string    `json:"id"       gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"  gorm:"type:char(36);not null;index;uniqueIndex:ux_user_genre"`
	GenreID   string    `json:"genre_id" gorm:"type:char(36);not null;uniqueIndex:ux_user_genre"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `json:"-"     gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Genre Genre `json:"genre" gorm:"foreignKey:GenreID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for UserGenre.
func (UserGenre) TableName() string { return "user_genres" }
