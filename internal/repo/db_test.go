package repo

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Abroon25/ideax/internal/domain"
)

// newRepoDB opens a fresh temp-file SQLite database with the full schema
// migrated.
func newRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "missing", "x.db"))
	if err == nil {
		t.Fatalf("expected error for missing parent directory")
	}
}

func TestOpenSQLite_CreatesAndMigrates(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
}

func TestSeedGenres_UpsertsBySlug(t *testing.T) {
	db := newRepoDB(t)

	seed := []domain.Genre{
		{ID: "g1", Name: "Technology", Slug: "technology", Category: "STARTUP", Icon: "A"},
		{ID: "g2", Name: "Gaming", Slug: "gaming", Category: "CREATIVE", Icon: "B"},
	}
	if err := SeedGenres(db, seed); err != nil {
		t.Fatalf("SeedGenres: %v", err)
	}

	var n int64
	db.Model(&domain.Genre{}).Count(&n)
	if n != 2 {
		t.Fatalf("expected 2 genres, got %d", n)
	}

	// Second run with changed metadata updates in place instead of duplicating.
	seed[0].Name = "Tech"
	seed[0].Icon = "C"
	if err := SeedGenres(db, seed); err != nil {
		t.Fatalf("SeedGenres rerun: %v", err)
	}
	db.Model(&domain.Genre{}).Count(&n)
	if n != 2 {
		t.Fatalf("rerun should not duplicate: got %d rows", n)
	}
	var g domain.Genre
	if err := db.Where("slug = ?", "technology").First(&g).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if g.Name != "Tech" || g.Icon != "C" {
		t.Fatalf("rerun should update fields: %+v", g)
	}
}
