// Shared fixtures for the service tests. Services call the repo layer
// directly, so every test runs against a real temp-file SQLite database.
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/repo"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestUser inserts a user directly, bypassing signup. The phone is
// derived from the username so distinct names never collide on the
// unique index.
func newTestUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()

	digits := make([]byte, 9)
	for i := range digits {
		digits[i] = '0' + username[i%len(username)]%10
	}
	u := &domain.User{
		ID:          uuid.NewString(),
		Email:       username + "@example.com",
		Phone:       "9" + string(digits),
		Username:    username,
		DisplayName: username,
		Role:        domain.RoleUser,
		Tier:        domain.TierFree,
	}
	if err := repo.CreateUser(context.Background(), db, u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func newTestGenre(t *testing.T, db *gorm.DB, slug string) *domain.Genre {
	t.Helper()

	g := &domain.Genre{
		ID:       "genre-" + slug,
		Name:     slug,
		Slug:     slug,
		Category: "Technology",
	}
	if err := db.Create(g).Error; err != nil {
		t.Fatalf("seed genre %s: %v", slug, err)
	}
	return g
}
