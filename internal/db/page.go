package db

import "gorm.io/gorm"

// Page 定义了独立内容页模型，如「关于」页。
type Page struct {
	gorm.Model
	Slug        string `gorm:"uniqueIndex;not null"`
	Title       string `gorm:"not null"`
	Summary     string
	Content     string `gorm:"type:text"`
	ContentHTML string `gorm:"type:text"`
}
