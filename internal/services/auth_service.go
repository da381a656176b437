// Package services – AuthService
//
// This file implements AuthService: signup, login, refresh-token
// rotation, logout, and the password reset flow. Password hashes use
// bcrypt; access tokens are short-lived JWTs minted through the auth
// package, and refresh tokens are opaque rotating rows so a stolen one
// dies on first reuse.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/auth"
	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/email"
	"github.com/Abroon25/ideax/internal/repo"
)

var (
	emailRE    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRE    = regexp.MustCompile(`^[6-9]\d{9}$`)
	usernameRE = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)
)

// SignupInput carries the fields required to open an account.
type SignupInput struct {
	Email       string
	Phone       string
	Username    string
	DisplayName string
	Password    string
}

// TokenPair is the credential set returned by signup, login, and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService owns account creation and session lifecycle.
type AuthService struct {
	DB     *gorm.DB
	Email  email.Sender
	Tiers  *TierService
	Secret []byte

	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// ResetTTL bounds how long a password reset token stays valid.
	ResetTTL time.Duration
}

// NewAuthService constructs an AuthService with the given session windows.
func NewAuthService(db *gorm.DB, sender email.Sender, tiers *TierService, secret []byte, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		DB:         db,
		Email:      sender,
		Tiers:      tiers,
		Secret:     secret,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		ResetTTL:   time.Hour,
	}
}

// Signup validates the input, rejects conflicts on email, phone, or
// username, and creates a FREE-tier account. A welcome mail is sent
// best-effort.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, *TokenPair, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.DisplayName = strings.TrimSpace(in.DisplayName)

	if !emailRE.MatchString(in.Email) {
		return nil, nil, fmt.Errorf("%w: email", ErrInvalidInput)
	}
	if !phoneRE.MatchString(in.Phone) {
		return nil, nil, fmt.Errorf("%w: phone", ErrInvalidInput)
	}
	if !usernameRE.MatchString(in.Username) {
		return nil, nil, fmt.Errorf("%w: username", ErrInvalidInput)
	}
	if in.DisplayName == "" {
		in.DisplayName = in.Username
	}
	if len(in.Password) < 8 {
		return nil, nil, ErrWeakPassword
	}

	if conflict, err := repo.FindUserConflict(ctx, s.DB, in.Email, in.Phone, in.Username); err != nil {
		return nil, nil, err
	} else if conflict != nil {
		switch {
		case conflict.Email == in.Email:
			return nil, nil, ErrEmailTaken
		case conflict.Phone == in.Phone:
			return nil, nil, ErrPhoneTaken
		default:
			return nil, nil, ErrUsernameTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Phone:        in.Phone,
		Username:     in.Username,
		DisplayName:  in.DisplayName,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Tier:         domain.TierFree,
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		return nil, nil, err
	}

	pair, err := s.issue(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	if err := s.Email.Send(ctx, u.Email, "Welcome to IdeaX",
		fmt.Sprintf("<p>Hi %s, your account is ready.</p>", u.DisplayName)); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID).Msg("welcome email failed")
	}
	return u, pair, nil
}

// Login authenticates by email or username plus password. Unknown
// identifier and wrong password both surface as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.User, *TokenPair, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	var (
		u   *domain.User
		err error
	)
	if strings.Contains(identifier, "@") {
		u, err = repo.GetUserByEmail(ctx, s.DB, identifier)
	} else {
		u, err = repo.GetUserByUsername(ctx, s.DB, identifier)
	}
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	// Expired paid tiers are downgraded before the tier lands in a token.
	if u, err = s.Tiers.Resolve(ctx, u); err != nil {
		return nil, nil, err
	}

	pair, err := s.issue(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Refresh rotates a valid refresh token and returns a fresh pair. The
// presented token is consumed whether or not it verifies.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	rt, err := repo.GetRefreshToken(ctx, s.DB, refreshToken)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if time.Now().UTC().After(rt.ExpiresAt) {
		_ = repo.DeleteRefreshTokenByValue(ctx, s.DB, refreshToken)
		return nil, ErrInvalidToken
	}

	u, err := repo.GetUser(ctx, s.DB, rt.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if u, err = s.Tiers.Resolve(ctx, u); err != nil {
		return nil, err
	}

	newToken := uuid.NewString()
	if err := repo.RotateRefreshToken(ctx, s.DB, rt.ID, newToken, time.Now().UTC().Add(s.RefreshTTL)); err != nil {
		return nil, err
	}
	access, err := auth.Mint(s.Secret, u.ID, u.Role, string(u.Tier), s.AccessTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: newToken}, nil
}

// Logout revokes one refresh token, or every session of the user when
// all is set.
func (s *AuthService) Logout(ctx context.Context, userID, refreshToken string, all bool) error {
	if all {
		return repo.DeleteRefreshTokens(ctx, s.DB, userID)
	}
	return repo.DeleteRefreshTokenByValue(ctx, s.DB, refreshToken)
}

// ForgotPassword stores a one-hour reset token and mails it. An unknown
// email is reported as success so the endpoint cannot enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	u, err := repo.GetUserByEmail(ctx, s.DB, emailAddr)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	expiry := time.Now().UTC().Add(s.ResetTTL)
	if err := repo.UpdateUserFields(ctx, s.DB, u.ID, map[string]any{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	}); err != nil {
		return err
	}

	if err := s.Email.Send(ctx, u.Email, "Reset your IdeaX password",
		fmt.Sprintf("<p>Your reset code is <b>%s</b>. It expires in one hour.</p>", token)); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID).Msg("reset email failed")
	}
	return nil
}

// ResetPassword consumes a reset token, replaces the password hash, and
// revokes every open session.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	var u domain.User
	err := s.DB.WithContext(ctx).
		Where("reset_token = ?", token).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if u.ResetTokenExpiry == nil || time.Now().UTC().After(*u.ResetTokenExpiry) {
		return ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := repo.UpdateUserFields(ctx, s.DB, u.ID, map[string]any{
		"password":           string(hash),
		"reset_token":        nil,
		"reset_token_expiry": nil,
	}); err != nil {
		return err
	}
	return repo.DeleteRefreshTokens(ctx, s.DB, u.ID)
}

// issue mints an access token and persists a fresh refresh token.
func (s *AuthService) issue(ctx context.Context, u *domain.User) (*TokenPair, error) {
	access, err := auth.Mint(s.Secret, u.ID, u.Role, string(u.Tier), s.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh := uuid.NewString()
	if err := repo.CreateRefreshToken(ctx, s.DB, u.ID, refresh, time.Now().UTC().Add(s.RefreshTTL)); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
