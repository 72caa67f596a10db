package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sakuralog/internal/db"
	"github.com/sakuralog/internal/mail"
	"gorm.io/gorm"
)

var (
	ErrSubscriberNotFound      = errors.New("subscriber not found")
	ErrSubscriberEmailRequired = errors.New("subscriber email is required")
)

// SubscribeOutcome 描述一次订阅请求落在状态机上的结果。
type SubscribeOutcome int

const (
	// SubscribeCreated 表示新建了订阅记录并发送了验证邮件。
	SubscribeCreated SubscribeOutcome = iota
	// SubscribeReactivated 表示重新激活了已退订的记录。
	SubscribeReactivated
	// SubscribeAlreadyActive 表示邮箱已在订阅中，本次为幂等空操作。
	SubscribeAlreadyActive
)

// SubscriberService 管理订阅者的订阅、验证与退订。
type SubscriberService struct {
	db          *gorm.DB
	mailer      mail.Mailer
	siteBaseURL string
}

// NewSubscriberService creates a SubscriberService instance.
func NewSubscriberService(gdb *gorm.DB, mailer mail.Mailer, siteBaseURL string) *SubscriberService {
	return &SubscriberService{db: gdb, mailer: mailer, siteBaseURL: strings.TrimRight(siteBaseURL, "/")}
}

// Subscribe 按邮箱 get-or-create：
// 新邮箱建档并发验证邮件；已退订的重新激活、重置验证状态并换发令牌；
// 仍在订阅中的不做任何修改。
func (s *SubscriberService) Subscribe(email, name string) (*db.Subscriber, SubscribeOutcome, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, 0, ErrSubscriberEmailRequired
	}

	var subscriber db.Subscriber
	err := s.db.Where("email = ?", email).First(&subscriber).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, err
		}

		subscriber = db.Subscriber{
			Email:    email,
			Name:     strings.TrimSpace(name),
			Token:    uuid.NewString(),
			IsActive: true,
		}
		if err := s.db.Create(&subscriber).Error; err != nil {
			return nil, 0, err
		}

		s.sendVerificationEmail(&subscriber)
		return &subscriber, SubscribeCreated, nil
	}

	if subscriber.IsActive {
		return &subscriber, SubscribeAlreadyActive, nil
	}

	subscriber.IsActive = true
	subscriber.IsVerified = false
	subscriber.Token = uuid.NewString()
	subscriber.UnsubscribeDate = nil
	if err := s.db.Save(&subscriber).Error; err != nil {
		return nil, 0, err
	}

	s.sendVerificationEmail(&subscriber)
	return &subscriber, SubscribeReactivated, nil
}

// Verify 按令牌完成邮箱验证。
func (s *SubscriberService) Verify(token string) (*db.Subscriber, error) {
	subscriber, err := s.getByToken(token)
	if err != nil {
		return nil, err
	}

	if !subscriber.IsVerified {
		if err := s.db.Model(subscriber).Update("is_verified", true).Error; err != nil {
			return nil, err
		}
		subscriber.IsVerified = true
	}
	return subscriber, nil
}

// Unsubscribe 按邮箱退订。重复调用是幂等的。
func (s *SubscriberService) Unsubscribe(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrSubscriberEmailRequired
	}

	var subscriber db.Subscriber
	if err := s.db.Where("email = ?", email).First(&subscriber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriberNotFound
		}
		return err
	}

	return s.deactivate(&subscriber)
}

// UnsubscribeByToken 按令牌退订，供邮件中的退订链接使用。
func (s *SubscriberService) UnsubscribeByToken(token string) error {
	subscriber, err := s.getByToken(token)
	if err != nil {
		return err
	}
	return s.deactivate(subscriber)
}

// ListAll returns every subscriber for the management page, newest first.
func (s *SubscriberService) ListAll() ([]db.Subscriber, error) {
	var subscribers []db.Subscriber
	if err := s.db.Order("created_at desc").Find(&subscribers).Error; err != nil {
		return nil, err
	}
	return subscribers, nil
}

// ActiveVerifiedCount 返回可接收通讯的订阅者数量。
func (s *SubscriberService) ActiveVerifiedCount() (int64, error) {
	var count int64
	if err := s.db.Model(&db.Subscriber{}).
		Where("is_active = ? AND is_verified = ?", true, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SubscriberService) getByToken(token string) (*db.Subscriber, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrSubscriberNotFound
	}

	var subscriber db.Subscriber
	if err := s.db.Where("token = ?", token).First(&subscriber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriberNotFound
		}
		return nil, err
	}
	return &subscriber, nil
}

func (s *SubscriberService) deactivate(subscriber *db.Subscriber) error {
	if !subscriber.IsActive {
		return nil
	}

	now := time.Now()
	return s.db.Model(subscriber).Updates(map[string]interface{}{
		"is_active":        false,
		"unsubscribe_date": now,
	}).Error
}

// sendVerificationEmail 发送验证邮件。
// 发送失败按既定策略记录日志后忽略，不影响订阅流程。
func (s *SubscriberService) sendVerificationEmail(subscriber *db.Subscriber) {
	if s.mailer == nil {
		return
	}

	name := subscriber.Name
	if name == "" {
		name = "朋友"
	}
	verifyURL := fmt.Sprintf("%s/newsletter/verify/%s/", s.siteBaseURL, subscriber.Token)

	body := fmt.Sprintf(`您好 %s！

感谢您订阅樱花技术博客！

请点击以下链接验证您的邮箱：
%s

如果您没有订阅过我们的博客，请忽略此邮件。

---
樱花技术博客
`, name, verifyURL)

	msg := mail.Message{
		To:      subscriber.Email,
		Subject: "【樱花技术博客】邮箱验证",
		Body:    body,
	}
	if err := s.mailer.Send(msg); err != nil {
		log.Printf("发送验证邮件失败: %v", err)
	}
}
