package db

import "gorm.io/gorm"

// Series 定义了文章系列模型，SortOrder 仅作展示排序提示。
type Series struct {
	gorm.Model
	Name        string `gorm:"size:100;not null"`
	Slug        string `gorm:"size:100;uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	CoverImage  string
	SortOrder   int    `gorm:"default:0"`
	Posts       []Post

	// PostCount 为列表查询时的聚合字段，只读，不参与迁移。
	PostCount int64 `gorm:"->;-:migration"`
}
