package db

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUserTestDB(t *testing.T) func() {
	t.Helper()

	dsn := fmt.Sprintf("file:db-user-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	previous := DB
	DB = gdb

	return func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
		DB = previous
	}
}

func TestEnsureUserCreatesOnce(t *testing.T) {
	cleanup := setupUserTestDB(t)
	defer cleanup()

	if err := EnsureUser("admin", "secret123"); err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	if err := EnsureUser("admin", "different"); err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	var users []User
	if err := DB.Find(&users).Error; err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(users))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte("secret123")); err != nil {
		t.Fatalf("stored password must match the first call: %v", err)
	}
}

func TestEnsureUserSkipsBlankCredentials(t *testing.T) {
	cleanup := setupUserTestDB(t)
	defer cleanup()

	if err := EnsureUser("  ", "secret"); err != nil {
		t.Fatalf("blank username must be a no-op: %v", err)
	}
	if err := EnsureUser("admin", ""); err != nil {
		t.Fatalf("blank password must be a no-op: %v", err)
	}

	var count int64
	DB.Model(&User{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no users created, got %d", count)
	}
}
