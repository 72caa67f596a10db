package db

import "gorm.io/gorm"

// Tag 定义了文章标签模型
type Tag struct {
	gorm.Model
	Name  string `gorm:"size:50;not null"`
	Slug  string `gorm:"size:50;uniqueIndex;not null"`
	Color string `gorm:"size:20;default:#C5A059"`
	Posts []Post `gorm:"many2many:post_tags;"`

	// PostCount 为列表查询时的聚合字段，只读，不参与迁移。
	PostCount int64 `gorm:"->;-:migration"`
}
