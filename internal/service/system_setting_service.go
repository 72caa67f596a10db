package service

import (
	"fmt"
	"strings"

	"github.com/sakuralog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SystemSettings 描述后台可配置的站点信息。
type SystemSettings struct {
	SiteName        string
	SiteDescription string
	SiteLogoURL     string
}

// SystemSettingsInput 用于更新系统设置。
type SystemSettingsInput struct {
	SiteName        string
	SiteDescription string
	SiteLogoURL     string
}

// SystemSettingService 提供系统设置的读取与更新能力。
type SystemSettingService struct {
	db *gorm.DB
}

// NewSystemSettingService 构造 SystemSettingService。
func NewSystemSettingService(gdb *gorm.DB) *SystemSettingService {
	return &SystemSettingService{db: gdb}
}

var settingKeys = []string{
	db.SettingKeySiteName,
	db.SettingKeySiteDescription,
	db.SettingKeySiteLogoURL,
}

// GetSettings 读取系统设置，如未设置将返回默认值。
func (s *SystemSettingService) GetSettings() (SystemSettings, error) {
	result := SystemSettings{SiteName: "樱花技术博客"}

	var records []db.SystemSetting
	if err := s.db.Where("key IN ?", settingKeys).Find(&records).Error; err != nil {
		return result, fmt.Errorf("load system settings: %w", err)
	}

	for _, record := range records {
		switch record.Key {
		case db.SettingKeySiteName:
			if strings.TrimSpace(record.Value) != "" {
				result.SiteName = record.Value
			}
		case db.SettingKeySiteDescription:
			result.SiteDescription = record.Value
		case db.SettingKeySiteLogoURL:
			result.SiteLogoURL = record.Value
		}
	}

	return result, nil
}

// UpdateSettings 保存系统设置，未填写站点名称时回退默认值。
func (s *SystemSettingService) UpdateSettings(input SystemSettingsInput) (SystemSettings, error) {
	sanitized := SystemSettings{
		SiteName:        strings.TrimSpace(input.SiteName),
		SiteDescription: strings.TrimSpace(input.SiteDescription),
		SiteLogoURL:     strings.TrimSpace(input.SiteLogoURL),
	}
	if sanitized.SiteName == "" {
		sanitized.SiteName = "樱花技术博客"
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := upsertSetting(tx, db.SettingKeySiteName, sanitized.SiteName); err != nil {
			return err
		}
		if err := upsertSetting(tx, db.SettingKeySiteDescription, sanitized.SiteDescription); err != nil {
			return err
		}
		return upsertSetting(tx, db.SettingKeySiteLogoURL, sanitized.SiteLogoURL)
	})
	if err != nil {
		return SystemSettings{}, err
	}

	return sanitized, nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SystemSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
