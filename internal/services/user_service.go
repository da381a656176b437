// Package services – UserService
//
// This file implements profile reads and updates, follow toggles, user
// search, and the onboarding flags. Avatar uploads share the best-effort
// contract of idea attachments.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/repo"
	"github.com/Abroon25/ideax/internal/storage"
)

// Profile is a user plus their public counters and the viewer's follow
// state.
type Profile struct {
	domain.PublicUser
	Bio         string `json:"bio"`
	IdeaCount   int64  `json:"idea_count"`
	Followers   int64  `json:"followers"`
	Following   int64  `json:"following"`
	IsFollowing bool   `json:"is_following"`
}

// UpdateProfileInput carries the mutable profile fields. Nil pointers
// leave the stored value untouched.
type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
	Avatar      []byte
	AvatarName  string
}

// UserService owns profile and social-graph operations.
type UserService struct {
	DB       *gorm.DB
	Uploader storage.Uploader
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB, up storage.Uploader) *UserService {
	return &UserService{DB: db, Uploader: up}
}

// GetProfile returns a user's public profile as seen by viewerID.
func (s *UserService) GetProfile(ctx context.Context, username, viewerID string) (*Profile, error) {
	u, err := repo.GetUserByUsername(ctx, s.DB, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.profile(ctx, u, viewerID)
}

// GetProfileByID is GetProfile keyed by user ID, used for /auth/me style
// self reads.
func (s *UserService) GetProfileByID(ctx context.Context, id, viewerID string) (*Profile, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.profile(ctx, u, viewerID)
}

// UpdateProfile applies the provided fields to the caller's own profile.
// A failed avatar upload is logged and skipped.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error) {
	fields := map[string]any{}
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" || utf8.RuneCountInString(name) > 64 {
			return nil, ErrInvalidInput
		}
		fields["display_name"] = name
	}
	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		if utf8.RuneCountInString(bio) > 512 {
			return nil, ErrInvalidInput
		}
		fields["bio"] = bio
	}
	if len(in.Avatar) > 0 {
		res, err := s.Uploader.Upload(ctx, in.Avatar, in.AvatarName, "avatars/"+userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("avatar upload failed, skipped")
		} else {
			fields["avatar"] = res.URL
		}
	}

	if len(fields) > 0 {
		if err := repo.UpdateUserFields(ctx, s.DB, userID, fields); err != nil {
			return nil, err
		}
	}
	return repo.GetUser(ctx, s.DB, userID)
}

// ChangePassword verifies the current password and replaces it, revoking
// every other session.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < 8 {
		return ErrWeakPassword
	}
	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := repo.UpdateUserFields(ctx, s.DB, userID, map[string]any{"password": string(hash)}); err != nil {
		return err
	}
	return repo.DeleteRefreshTokens(ctx, s.DB, userID)
}

// ToggleFollow flips the follower relation toward targetID and reports
// the new state. A new follow notifies the target.
func (s *UserService) ToggleFollow(ctx context.Context, followerID, targetID string) (following bool, err error) {
	if followerID == targetID {
		return false, ErrSelfFollow
	}
	if _, err := repo.GetUser(ctx, s.DB, targetID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}

	existing, err := repo.GetFollow(ctx, s.DB, followerID, targetID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return false, err
	}
	if existing != nil {
		if err := repo.DeleteFollow(ctx, s.DB, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := repo.CreateFollow(ctx, s.DB, followerID, targetID); err != nil {
		return false, err
	}
	n := domain.Notification{
		ID:          uuid.NewString(),
		Type:        domain.NotifyFollow,
		RecipientID: targetID,
		SenderID:    &followerID,
		Message:     "You have a new follower.",
	}
	if err := repo.CreateNotification(ctx, s.DB, &n); err != nil {
		log.Warn().Err(err).Str("user_id", targetID).Msg("follow notification failed")
	}
	return true, nil
}

// Search matches users by username or display name, ranked by follower
// count.
func (s *UserService) Search(ctx context.Context, q string, page, limit int) ([]domain.PublicUser, int64, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []domain.PublicUser{}, 0, nil
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	users, total, err := repo.SearchUsers(ctx, s.DB, q, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, total, nil
}

// CompleteTour marks the product tour finished for the user.
func (s *UserService) CompleteTour(ctx context.Context, userID string) error {
	return repo.UpdateUserFields(ctx, s.DB, userID, map[string]any{"tour_completed": true})
}

func (s *UserService) profile(ctx context.Context, u *domain.User, viewerID string) (*Profile, error) {
	ideas, followers, following, err := repo.UserCounts(ctx, s.DB, u.ID)
	if err != nil {
		return nil, err
	}
	p := &Profile{
		PublicUser: u.Public(),
		Bio:        u.Bio,
		IdeaCount:  ideas,
		Followers:  followers,
		Following:  following,
	}
	if viewerID != "" && viewerID != u.ID {
		if f, err := repo.GetFollow(ctx, s.DB, viewerID, u.ID); err == nil && f != nil {
			p.IsFollowing = true
		}
	}
	return p, nil
}
