// Package services – GenreService
//
// This file implements the genre catalog and the onboarding selection.
// Selecting genres (1 to 10 of them) replaces any previous selection and
// marks the account onboarded; the selection drives feed
// personalization.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/repo"
)

// MaxGenreSelection caps how many genres a user may pick at onboarding.
const MaxGenreSelection = 10

// GenreService owns the genre catalog and user selections.
type GenreService struct {
	DB *gorm.DB
}

// NewGenreService constructs a GenreService.
func NewGenreService(db *gorm.DB) *GenreService {
	return &GenreService{DB: db}
}

// List returns the full genre catalog.
func (s *GenreService) List(ctx context.Context) ([]domain.Genre, error) {
	return repo.ListGenres(ctx, s.DB)
}

// Select replaces the user's genre selection and marks them onboarded.
// Duplicate IDs in the input collapse to one.
func (s *GenreService) Select(ctx context.Context, userID string, genreIDs []string) ([]domain.UserGenre, error) {
	seen := make(map[string]struct{}, len(genreIDs))
	unique := make([]string, 0, len(genreIDs))
	for _, id := range genreIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 || len(unique) > MaxGenreSelection {
		return nil, ErrInvalidInput
	}

	for _, id := range unique {
		if _, err := repo.GetGenre(ctx, s.DB, id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrGenreNotFound
			}
			return nil, err
		}
	}

	if err := repo.ReplaceUserGenres(ctx, s.DB, userID, unique); err != nil {
		return nil, err
	}
	if err := repo.UpdateUserFields(ctx, s.DB, userID, map[string]any{"is_onboarded": true}); err != nil {
		return nil, err
	}
	return repo.ListUserGenres(ctx, s.DB, userID)
}

// Mine returns the user's current genre selection.
func (s *GenreService) Mine(ctx context.Context, userID string) ([]domain.UserGenre, error) {
	return repo.ListUserGenres(ctx, s.DB, userID)
}

// SeedCatalog builds the default genre rows from a name/category table.
// Slugs are lowercase-hyphenated names; display names are title-cased.
func SeedCatalog() []domain.Genre {
	type entry struct {
		name, category, icon string
	}
	entries := []entry{
		{"technology", "STARTUP", "💻"},
		{"fintech", "STARTUP", "💳"},
		{"health tech", "STARTUP", "🩺"},
		{"ed tech", "STARTUP", "📚"},
		{"e-commerce", "BUSINESS", "🛒"},
		{"food and beverage", "BUSINESS", "🍜"},
		{"real estate", "BUSINESS", "🏠"},
		{"sustainability", "SOCIAL", "🌱"},
		{"social impact", "SOCIAL", "🤝"},
		{"entertainment", "CREATIVE", "🎬"},
		{"gaming", "CREATIVE", "🎮"},
		{"art and design", "CREATIVE", "🎨"},
	}

	titleCaser := cases.Title(language.English)
	out := make([]domain.Genre, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.Genre{
			ID:       uuid.NewString(),
			Name:     titleCaser.String(e.name),
			Slug:     strings.ReplaceAll(e.name, " ", "-"),
			Category: e.category,
			Icon:     e.icon,
		})
	}
	return out
}
