package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sakuralog/internal/db"
	"github.com/sakuralog/internal/mail"
	"gorm.io/gorm"
)

var (
	ErrNewsletterNotFound = errors.New("newsletter not found")
	ErrNewsletterInvalid  = errors.New("newsletter subject and content are required")
)

// NewsletterService 管理通讯的编辑与发送。
// 状态机只有 draft → sent 一条转换，由后台发送动作触发。
type NewsletterService struct {
	db          *gorm.DB
	mailer      mail.Mailer
	siteBaseURL string
}

// NewsletterInput represents fields accepted when creating or updating a newsletter.
type NewsletterInput struct {
	Subject        string
	Content        string
	RelatedPostIDs []uint
}

// DispatchSummary 汇总一次发送动作中单封通讯的投递结果。
type DispatchSummary struct {
	NewsletterID uint
	Subject      string
	Recipients   int
}

// NewNewsletterService creates a NewsletterService instance.
func NewNewsletterService(gdb *gorm.DB, mailer mail.Mailer, siteBaseURL string) *NewsletterService {
	return &NewsletterService{db: gdb, mailer: mailer, siteBaseURL: strings.TrimRight(siteBaseURL, "/")}
}

// List returns newsletters newest first.
func (s *NewsletterService) List() ([]db.Newsletter, error) {
	var newsletters []db.Newsletter
	if err := s.db.Order("created_at desc").Find(&newsletters).Error; err != nil {
		return nil, err
	}
	return newsletters, nil
}

// Get fetches a newsletter with related posts preloaded.
func (s *NewsletterService) Get(id uint) (*db.Newsletter, error) {
	var newsletter db.Newsletter
	if err := s.db.Preload("RelatedPosts").First(&newsletter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsletterNotFound
		}
		return nil, err
	}
	return &newsletter, nil
}

// Create persists a draft newsletter, rendering the HTML cache on save.
func (s *NewsletterService) Create(input NewsletterInput) (*db.Newsletter, error) {
	newsletter := db.Newsletter{Status: db.NewsletterStatusDraft}
	if err := s.applyInput(&newsletter, input); err != nil {
		return nil, err
	}
	return s.saveWithPosts(&newsletter, input.RelatedPostIDs)
}

// Update applies updates to a newsletter. 已发送的通讯内容仍可修正，但状态不回退。
func (s *NewsletterService) Update(id uint, input NewsletterInput) (*db.Newsletter, error) {
	var newsletter db.Newsletter
	if err := s.db.First(&newsletter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsletterNotFound
		}
		return nil, err
	}

	if err := s.applyInput(&newsletter, input); err != nil {
		return nil, err
	}
	return s.saveWithPosts(&newsletter, input.RelatedPostIDs)
}

// Delete removes a newsletter and its delivery log.
func (s *NewsletterService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("newsletter_id = ?", id).Delete(&db.NewsletterLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Newsletter{}, id).Error
	})
}

// Dispatch 对选中的通讯执行发送：
// 只处理 draft 状态，其余静默跳过；收件人集合为当前 active+verified 订阅者；
// recipient_count、sent_date 与逐收件人日志行在同一事务中落库。
// 邮件传输失败按既定策略记录日志后忽略，日志行仍然计为已发送。
func (s *NewsletterService) Dispatch(ids []uint) ([]DispatchSummary, error) {
	summaries := make([]DispatchSummary, 0, len(ids))

	for _, id := range ids {
		var newsletter db.Newsletter
		if err := s.db.First(&newsletter, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return summaries, err
		}

		if newsletter.Status != db.NewsletterStatusDraft {
			continue
		}

		var subscribers []db.Subscriber
		if err := s.db.Where("is_active = ? AND is_verified = ?", true, true).
			Find(&subscribers).Error; err != nil {
			return summaries, err
		}

		sentAt := time.Now()
		if err := s.db.Transaction(func(tx *gorm.DB) error {
			updates := map[string]interface{}{
				"status":          db.NewsletterStatusSent,
				"sent_date":       sentAt,
				"recipient_count": len(subscribers),
			}
			if err := tx.Model(&db.Newsletter{}).Where("id = ?", newsletter.ID).
				Updates(updates).Error; err != nil {
				return err
			}

			for _, subscriber := range subscribers {
				entry := db.NewsletterLog{
					NewsletterID: newsletter.ID,
					SubscriberID: subscriber.ID,
					SentDate:     sentAt,
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}

				if err := tx.Model(&db.Subscriber{}).Where("id = ?", subscriber.ID).
					Update("last_sent_date", sentAt).Error; err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return summaries, err
		}

		for _, subscriber := range subscribers {
			s.deliver(&newsletter, &subscriber)
		}

		summaries = append(summaries, DispatchSummary{
			NewsletterID: newsletter.ID,
			Subject:      newsletter.Subject,
			Recipients:   len(subscribers),
		})
	}

	return summaries, nil
}

// Logs returns delivery log rows for a newsletter, newest first.
func (s *NewsletterService) Logs(newsletterID uint) ([]db.NewsletterLog, error) {
	var logs []db.NewsletterLog
	if err := s.db.Preload("Subscriber").
		Where("newsletter_id = ?", newsletterID).
		Order("sent_date desc, id desc").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *NewsletterService) applyInput(newsletter *db.Newsletter, input NewsletterInput) error {
	subject := strings.TrimSpace(input.Subject)
	content := input.Content
	if subject == "" || strings.TrimSpace(content) == "" {
		return ErrNewsletterInvalid
	}

	htmlContent, err := RenderMarkdown(content)
	if err != nil {
		return fmt.Errorf("render newsletter content: %w", err)
	}

	newsletter.Subject = subject
	newsletter.Content = content
	newsletter.ContentHTML = htmlContent
	return nil
}

func (s *NewsletterService) saveWithPosts(newsletter *db.Newsletter, postIDs []uint) (*db.Newsletter, error) {
	return newsletter, s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(newsletter).Error; err != nil {
			return err
		}

		var posts []db.Post
		if len(postIDs) > 0 {
			if err := tx.Where("id IN ?", postIDs).Find(&posts).Error; err != nil {
				return err
			}
			if len(posts) != len(postIDs) {
				return ErrPostNotFound
			}
		}

		if err := tx.Model(newsletter).Association("RelatedPosts").Replace(posts); err != nil {
			return err
		}

		return tx.Preload("RelatedPosts").First(newsletter, newsletter.ID).Error
	})
}

func (s *NewsletterService) deliver(newsletter *db.Newsletter, subscriber *db.Subscriber) {
	if s.mailer == nil {
		return
	}

	unsubscribeURL := fmt.Sprintf("%s/newsletter/unsubscribe/%s/", s.siteBaseURL, subscriber.Token)
	body := fmt.Sprintf("%s\n\n---\n退订请访问：%s\n", newsletter.Content, unsubscribeURL)

	msg := mail.Message{
		To:      subscriber.Email,
		Subject: newsletter.Subject,
		Body:    body,
	}
	if err := s.mailer.Send(msg); err != nil {
		log.Printf("发送通讯失败 newsletter=%d subscriber=%s: %v", newsletter.ID, subscriber.Email, err)
	}
}
