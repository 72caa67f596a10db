package db

import "gorm.io/gorm"

// Comment 定义了文章评论模型。
// 仅支持一层回复：回复的 ParentID 指向顶级评论。
type Comment struct {
	gorm.Model
	PostID      uint `gorm:"index;not null"`
	Post        Post `gorm:"constraint:OnDelete:CASCADE;"`
	ParentID    *uint
	Parent      *Comment  `gorm:"constraint:OnDelete:CASCADE;"`
	Replies     []Comment `gorm:"foreignKey:ParentID"`
	AuthorName  string    `gorm:"size:50;not null"`
	AuthorEmail string    `gorm:"size:254;not null"`
	AuthorURL   string
	Content     string `gorm:"type:text;not null"`
	IsApproved  bool   `gorm:"default:false"`
	IsSpam      bool   `gorm:"default:false"`
	IPAddress   string `gorm:"size:45"`
}
