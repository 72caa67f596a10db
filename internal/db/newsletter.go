package db

import (
	"time"

	"gorm.io/gorm"
)

// 新闻通讯状态。原始数据里还存在过 "scheduled"，
// 但没有任何调度器会消费它，这里只保留可达状态。
const (
	NewsletterStatusDraft = "draft"
	NewsletterStatusSent  = "sent"
)

// Newsletter 定义了新闻通讯模型。
// RecipientCount 与 SentDate 仅在 draft→sent 转换时写入一次。
type Newsletter struct {
	gorm.Model
	Subject        string `gorm:"size:200;not null"`
	Content        string `gorm:"type:text;not null"`
	ContentHTML    string `gorm:"type:text"`
	RelatedPosts   []Post `gorm:"many2many:newsletter_posts;"`
	Status         string `gorm:"size:20;default:draft;index"`
	ScheduledDate  *time.Time
	SentDate       *time.Time
	RecipientCount uint `gorm:"default:0"`
	OpenCount      uint `gorm:"default:0"` // 打开统计，暂无像素回调写入
}

// NewsletterLog 记录每次发送时的 (通讯, 订阅者) 投递行。
type NewsletterLog struct {
	ID           uint       `gorm:"primaryKey"`
	NewsletterID uint       `gorm:"index;not null"`
	Newsletter   Newsletter `gorm:"constraint:OnDelete:CASCADE;"`
	SubscriberID uint       `gorm:"index;not null"`
	Subscriber   Subscriber `gorm:"constraint:OnDelete:CASCADE;"`
	SentDate     time.Time
	Opened       bool `gorm:"default:false"`
	OpenedDate   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName 指定自定义表名。
func (NewsletterLog) TableName() string {
	return "newsletter_logs"
}
