package db

import (
	"time"

	"gorm.io/gorm"
)

// Subscriber 定义了新闻通讯订阅者模型。
// Token 用于邮箱验证与退订链接，重新订阅时会重新生成。
type Subscriber struct {
	gorm.Model
	Email           string `gorm:"size:254;uniqueIndex;not null"`
	Name            string `gorm:"size:100"`
	Token           string `gorm:"size:36;uniqueIndex;not null"`
	IsActive        bool   `gorm:"default:true"`
	IsVerified      bool   `gorm:"default:false"`
	UnsubscribeDate *time.Time
	LastSentDate    *time.Time
}
