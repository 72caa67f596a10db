package db

import (
	"time"

	"gorm.io/gorm"
)

// 文章发布状态。
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post 定义了博客文章模型。
// ContentHTML 是 Content 的渲染缓存，由保存管线统一覆盖，不可单独修改。
type Post struct {
	gorm.Model
	Title         string `gorm:"size:200;not null"`
	Slug          string `gorm:"size:200;uniqueIndex;not null"`
	UserID        uint
	User          User
	CategoryID    *uint
	Category      *Category `gorm:"constraint:OnDelete:SET NULL;"`
	SeriesID      *uint
	Series        *Series `gorm:"constraint:OnDelete:SET NULL;"`
	SeriesOrder   int     `gorm:"default:0"`
	Tags          []Tag   `gorm:"many2many:post_tags;"`
	Excerpt       string  `gorm:"size:500"`
	Content       string  `gorm:"type:text;not null"`
	ContentHTML   string  `gorm:"type:text"`
	CoverImage    string
	GalleryImages string `gorm:"type:text"` // JSON 数组，存图片地址列表
	Featured      bool   `gorm:"default:false"`
	FeaturedOrder int    `gorm:"default:0"`
	Status        string `gorm:"size:10;default:draft;index"`
	Views         uint   `gorm:"default:0"`
	PublishedAt   *time.Time `gorm:"index"`
	Comments      []Comment  `gorm:"constraint:OnDelete:CASCADE;"`
}

// IsPublished 返回文章是否处于已发布状态。
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
