package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"

	"markmycampus/internal/config"
	"markmycampus/internal/model"
	"markmycampus/internal/platform/database"
)

// Config returns a configuration backed by a private in-memory SQLite database.
func Config(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.App.GinMode = "test"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AdminPassword = "test-admin-password"
	cfg.Database.Driver = "sqlite"
	cfg.Database.SQLitePath = MemoryDSN(t)
	cfg.Log.Level = "error"
	return cfg
}

func MemoryDSN(t *testing.T) string {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

// OpenInMemoryDB opens a migrated in-memory database closed on test cleanup.
func OpenInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.New(context.Background(), Config(t))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// SeedUser inserts a user row directly, bypassing password hashing.
func SeedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}
