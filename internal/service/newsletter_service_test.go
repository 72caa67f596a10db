package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sakuralog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupNewsletterServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:newsletter-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func seedVerifiedSubscribers(t *testing.T, gdb *gorm.DB, n int) []db.Subscriber {
	t.Helper()

	subscribers := make([]db.Subscriber, 0, n)
	for i := 0; i < n; i++ {
		subscriber := db.Subscriber{
			Email:      fmt.Sprintf("reader%d@example.com", i+1),
			Token:      fmt.Sprintf("token-%d", i+1),
			IsActive:   true,
			IsVerified: true,
		}
		if err := gdb.Create(&subscriber).Error; err != nil {
			t.Fatalf("seed subscriber %d: %v", i, err)
		}
		subscribers = append(subscribers, subscriber)
	}
	return subscribers
}

func TestNewsletterCreateRendersHTML(t *testing.T) {
	gdb, cleanup := setupNewsletterServiceTestDB(t)
	defer cleanup()

	svc := NewNewsletterService(gdb, &recordingMailer{}, "https://blog.example.com")
	newsletter, err := svc.Create(NewsletterInput{Subject: "本月更新", Content: "# 更新\n\n内容"})
	if err != nil {
		t.Fatalf("create newsletter: %v", err)
	}

	if newsletter.Status != db.NewsletterStatusDraft {
		t.Fatalf("new newsletter must be draft, got %q", newsletter.Status)
	}
	if !strings.Contains(newsletter.ContentHTML, "<h1") {
		t.Fatalf("expected rendered html cache, got %q", newsletter.ContentHTML)
	}
}

func TestNewsletterCreateValidation(t *testing.T) {
	gdb, cleanup := setupNewsletterServiceTestDB(t)
	defer cleanup()

	svc := NewNewsletterService(gdb, &recordingMailer{}, "https://blog.example.com")
	if _, err := svc.Create(NewsletterInput{Subject: " ", Content: "x"}); err != ErrNewsletterInvalid {
		t.Fatalf("expected ErrNewsletterInvalid for empty subject, got %v", err)
	}
	if _, err := svc.Create(NewsletterInput{Subject: "x", Content: "  "}); err != ErrNewsletterInvalid {
		t.Fatalf("expected ErrNewsletterInvalid for empty content, got %v", err)
	}
}

func TestNewsletterCreateRejectsUnknownRelatedPosts(t *testing.T) {
	gdb, cleanup := setupNewsletterServiceTestDB(t)
	defer cleanup()

	svc := NewNewsletterService(gdb, &recordingMailer{}, "https://blog.example.com")
	if _, err := svc.Create(NewsletterInput{Subject: "x", Content: "y", RelatedPostIDs: []uint{42}}); err != ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestNewsletterDispatchWritesLogsAndCount(t *testing.T) {
	gdb, cleanup := setupNewsletterServiceTestDB(t)
	defer cleanup()

	subscribers := seedVerifiedSubscribers(t, gdb, 3)

	// 未验证与已退订的订阅者不应收信
	extra := db.Subscriber{Email: "silent@example.com", Token: "token-x", IsActive: true}
	if err := gdb.Create(&extra).Error; err != nil {
		t.Fatalf("seed unverified subscriber: %v", err)
	}

	mailer := &recordingMailer{}
	svc := NewNewsletterService(gdb, mailer, "https://blog.example.com")
	newsletter, err := svc.Create(NewsletterInput{Subject: "第一期", Content: "大家好"})
	if err != nil {
		t.Fatalf("create newsletter: %v", err)
	}

	summaries, err := svc.Dispatch([]uint{newsletter.ID})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(summaries) != 1 || summaries[0].Recipients != len(subscribers) {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}

	var reloaded db.Newsletter
	if err := gdb.First(&reloaded, newsletter.ID).Error; err != nil {
		t.Fatalf("reload newsletter: %v", err)
	}
	if reloaded.Status != db.NewsletterStatusSent {
		t.Fatalf("expected status sent, got %q", reloaded.Status)
	}
	if reloaded.SentDate == nil {
		t.Fatalf("expected sent_date stamped")
	}
	if reloaded.RecipientCount != uint(len(subscribers)) {
		t.Fatalf("expected recipient_count=%d, got %d", len(subscribers), reloaded.RecipientCount)
	}

	var logCount int64
	gdb.Model(&db.NewsletterLog{}).Where("newsletter_id = ?", newsletter.ID).Count(&logCount)
	if logCount != int64(len(subscribers)) {
		t.Fatalf("expected %d log rows, got %d", len(subscribers), logCount)
	}

	if len(mailer.sent) != len(subscribers) {
		t.Fatalf("expected %d mails, got %d", len(subscribers), len(mailer.sent))
	}
	for _, msg := range mailer.sent {
		if msg.To == "silent@example.com" {
			t.Fatalf("unverified subscriber must not receive mail")
		}
		if !strings.Contains(msg.Body, "/newsletter/unsubscribe/") {
			t.Fatalf("mail body missing unsubscribe link: %q", msg.Body)
		}
	}

	var updated db.Subscriber
	if err := gdb.First(&updated, subscribers[0].ID).Error; err != nil {
		t.Fatalf("reload subscriber: %v", err)
	}
	if updated.LastSentDate == nil {
		t.Fatalf("expected last_sent_date stamped on recipients")
	}
}

func TestNewsletterDispatchSkipsNonDraft(t *testing.T) {
	gdb, cleanup := setupNewsletterServiceTestDB(t)
	defer cleanup()

	seedVerifiedSubscribers(t, gdb, 2)

	mailer := &recordingMailer{}
	svc := NewNewsletterService(gdb, mailer, "https://blog.example.com")
	newsletter, err := svc.Create(NewsletterInput{Subject: "第一期", Content: "大家好"})
	if err != nil {
		t.Fatalf("create newsletter: %v", err)
	}

	if _, err := svc.Dispatch([]uint{newsletter.ID}); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}

	// 重复发送与不存在的 ID 都被静默跳过
	summaries, err := svc.Dispatch([]uint{newsletter.ID, 9999})
	if err != nil {
		t.Fatalf("second dispatch: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("re-dispatch must be skipped, got %+v", summaries)
	}

	var logCount int64
	gdb.Model(&db.NewsletterLog{}).Count(&logCount)
	if logCount != 2 {
		t.Fatalf("expected log rows only from first dispatch, got %d", logCount)
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("expected 2 mails total, got %d", len(mailer.sent))
	}
}

func TestNewsletterDeleteRemovesLogs(t *testing.T) {
	gdb, cleanup := setupNewsletterServiceTestDB(t)
	defer cleanup()

	seedVerifiedSubscribers(t, gdb, 1)

	svc := NewNewsletterService(gdb, &recordingMailer{}, "https://blog.example.com")
	newsletter, err := svc.Create(NewsletterInput{Subject: "第一期", Content: "大家好"})
	if err != nil {
		t.Fatalf("create newsletter: %v", err)
	}
	if _, err := svc.Dispatch([]uint{newsletter.ID}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if err := svc.Delete(newsletter.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var logCount int64
	gdb.Model(&db.NewsletterLog{}).Where("newsletter_id = ?", newsletter.ID).Count(&logCount)
	if logCount != 0 {
		t.Fatalf("expected delivery logs removed, got %d", logCount)
	}
}

func TestNewsletterUpdateDoesNotRevertStatus(t *testing.T) {
	gdb, cleanup := setupNewsletterServiceTestDB(t)
	defer cleanup()

	seedVerifiedSubscribers(t, gdb, 1)

	svc := NewNewsletterService(gdb, &recordingMailer{}, "https://blog.example.com")
	newsletter, err := svc.Create(NewsletterInput{Subject: "第一期", Content: "大家好"})
	if err != nil {
		t.Fatalf("create newsletter: %v", err)
	}
	if _, err := svc.Dispatch([]uint{newsletter.ID}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	updated, err := svc.Update(newsletter.ID, NewsletterInput{Subject: "第一期（勘误）", Content: "大家好，勘误"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != db.NewsletterStatusSent {
		t.Fatalf("update must not revert status, got %q", updated.Status)
	}
}
