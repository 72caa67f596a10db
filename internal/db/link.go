package db

import "gorm.io/gorm"

// Link 定义了友情链接模型
type Link struct {
	gorm.Model
	Name        string `gorm:"size:50;not null"`
	URL         string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Avatar      string
	IsActive    bool `gorm:"default:true"`
	SortOrder   int  `gorm:"default:0"`
}
