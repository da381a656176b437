// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), schema migrations, and the genre seed.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/Abroon25/ideax/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// OpenSQLite opens (or creates) a SQLite database, applies PRAGMAs,
// tunes the pool, and installs the OpenTelemetry tracing plugin.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if the parent directory does not exist (instead of a
	// cryptic sqlite "out of memory (14)" later).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for every domain entity,
// including the unique indexes the toggle and upsert flows rely on.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.RefreshToken{},
		&domain.Genre{},
		&domain.UserGenre{},
		&domain.Idea{},
		&domain.Attachment{},
		&domain.Like{},
		&domain.Bookmark{},
		&domain.Comment{},
		&domain.IdeaInterest{},
		&domain.Follow{},
		&domain.Notification{},
		&domain.Transaction{},
		&domain.NDA{},
		&domain.Dispute{},
		&domain.Conversation{},
		&domain.ConversationParticipant{},
		&domain.Message{},
	)
}

// SeedGenres upserts the fixed genre catalog by slug. Safe to run on
// every startup.
func SeedGenres(db *gorm.DB, genres []domain.Genre) error {
	for _, g := range genres {
		var existing domain.Genre
		err := db.Where("slug = ?", g.Slug).First(&existing).Error
		switch {
		case err == nil:
			updates := map[string]any{
				"name": g.Name, "category": g.Category,
				"icon": g.Icon, "description": g.Description,
			}
			if err := db.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
		case err == gorm.ErrRecordNotFound:
			g.ID = uuid.NewString()
			g.CreatedAt = time.Now().UTC()
			if err := db.Create(&g).Error; err != nil {
				return err
			}
		default:
			return err
		}
	}
	return nil
}
