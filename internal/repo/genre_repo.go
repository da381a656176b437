// Package repo – genres and onboarding selections.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
)

// ListGenres returns the full genre catalog, alphabetically.
func ListGenres(ctx context.Context, db *gorm.DB) ([]domain.Genre, error) {
	var out []domain.Genre
	err := db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

// GetGenre fetches a genre by ID, or ErrNotFound.
func GetGenre(ctx context.Context, db *gorm.DB, id string) (*domain.Genre, error) {
	var g domain.Genre
	if err := db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// ReplaceUserGenres swaps the user's onboarding selection atomically:
// delete-then-insert inside one transaction.
func ReplaceUserGenres(ctx context.Context, db *gorm.DB, userID string, genreIDs []string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&domain.UserGenre{}).Error; err != nil {
			return err
		}
		for _, gid := range genreIDs {
			ug := &domain.UserGenre{
				ID:        uuid.NewString(),
				UserID:    userID,
				GenreID:   gid,
				CreatedAt: time.Now().UTC(),
			}
			if err := tx.Create(ug).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListUserGenres returns the user's selected genres with genre data
// preloaded.
func ListUserGenres(ctx context.Context, db *gorm.DB, userID string) ([]domain.UserGenre, error) {
	var out []domain.UserGenre
	err := db.WithContext(ctx).Preload("Genre").Where("user_id = ?", userID).Find(&out).Error
	return out, err
}

// UserGenreIDs returns just the genre IDs of the user's selection, for
// feed personalization.
func UserGenreIDs(ctx context.Context, db *gorm.DB, userID string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).Model(&domain.UserGenre{}).
		Where("user_id = ?", userID).
		Pluck("genre_id", &ids).Error
	return ids, err
}
