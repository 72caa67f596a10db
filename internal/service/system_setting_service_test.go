package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/sakuralog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSystemSettingTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:system-setting-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func TestGetSettingsReturnsDefaults(t *testing.T) {
	gdb, cleanup := setupSystemSettingTestDB(t)
	defer cleanup()

	svc := NewSystemSettingService(gdb)
	settings, err := svc.GetSettings()
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}

	if settings.SiteName != "樱花技术博客" {
		t.Fatalf("expected default site name, got %q", settings.SiteName)
	}
	if settings.SiteDescription != "" || settings.SiteLogoURL != "" {
		t.Fatalf("expected empty optional settings, got %+v", settings)
	}
}

func TestUpdateSettingsUpsertsAndFallsBack(t *testing.T) {
	gdb, cleanup := setupSystemSettingTestDB(t)
	defer cleanup()

	svc := NewSystemSettingService(gdb)

	updated, err := svc.UpdateSettings(SystemSettingsInput{
		SiteName:        "新站点",
		SiteDescription: "描述",
		SiteLogoURL:     "https://cdn.example/logo.png",
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if updated.SiteName != "新站点" {
		t.Fatalf("unexpected site name %q", updated.SiteName)
	}

	fetched, err := svc.GetSettings()
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if fetched.SiteName != "新站点" || fetched.SiteDescription != "描述" {
		t.Fatalf("settings not persisted: %+v", fetched)
	}

	// 站点名称留空时回退默认值
	blank, err := svc.UpdateSettings(SystemSettingsInput{SiteName: "  "})
	if err != nil {
		t.Fatalf("update with blank name: %v", err)
	}
	if blank.SiteName != "樱花技术博客" {
		t.Fatalf("expected default fallback, got %q", blank.SiteName)
	}

	var count int64
	gdb.Model(&db.SystemSetting{}).Count(&count)
	if count != 3 {
		t.Fatalf("expected 3 setting rows after upserts, got %d", count)
	}
}
