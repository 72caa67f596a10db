package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/sakuralog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCommentServiceTestDB(t *testing.T) (*gorm.DB, uint, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:comment-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	post := db.Post{Title: "评论宿主", Slug: "comment-host", Content: "x", Status: db.PostStatusPublished, UserID: 1}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}

	return gdb, post.ID, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func TestCommentSubmitAlwaysUnapproved(t *testing.T) {
	gdb, postID, cleanup := setupCommentServiceTestDB(t)
	defer cleanup()

	svc := NewCommentService(gdb)
	comment, err := svc.Submit(postID, CommentInput{
		AuthorName:  "访客",
		AuthorEmail: "guest@example.com",
		Content:     "第一条评论",
	})
	if err != nil {
		t.Fatalf("submit comment: %v", err)
	}

	if comment.IsApproved {
		t.Fatalf("new comment must start unapproved")
	}

	visible, err := svc.VisibleForPost(postID)
	if err != nil {
		t.Fatalf("visible comments: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("unapproved comment must not be visible, got %d", len(visible))
	}
}

func TestCommentSubmitValidation(t *testing.T) {
	gdb, postID, cleanup := setupCommentServiceTestDB(t)
	defer cleanup()

	svc := NewCommentService(gdb)
	cases := []struct {
		name  string
		input CommentInput
	}{
		{"missing name", CommentInput{AuthorEmail: "a@b.c", Content: "x"}},
		{"missing email", CommentInput{AuthorName: "a", Content: "x"}},
		{"missing content", CommentInput{AuthorName: "a", AuthorEmail: "a@b.c"}},
		{"whitespace only", CommentInput{AuthorName: "  ", AuthorEmail: " ", Content: " "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Submit(postID, tc.input); err != ErrCommentInvalid {
				t.Fatalf("expected ErrCommentInvalid, got %v", err)
			}
		})
	}
}

func TestCommentSubmitUnknownPost(t *testing.T) {
	gdb, _, cleanup := setupCommentServiceTestDB(t)
	defer cleanup()

	svc := NewCommentService(gdb)
	input := CommentInput{AuthorName: "a", AuthorEmail: "a@b.c", Content: "x"}
	if _, err := svc.Submit(9999, input); err != ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestCommentReplyMustMatchPost(t *testing.T) {
	gdb, postID, cleanup := setupCommentServiceTestDB(t)
	defer cleanup()

	other := db.Post{Title: "另一篇", Slug: "other-post", Content: "x", Status: db.PostStatusPublished, UserID: 1}
	if err := gdb.Create(&other).Error; err != nil {
		t.Fatalf("seed other post: %v", err)
	}

	svc := NewCommentService(gdb)
	parent, err := svc.Submit(postID, CommentInput{AuthorName: "a", AuthorEmail: "a@b.c", Content: "parent"})
	if err != nil {
		t.Fatalf("submit parent: %v", err)
	}

	input := CommentInput{AuthorName: "b", AuthorEmail: "b@c.d", Content: "reply", ParentID: &parent.ID}
	if _, err := svc.Submit(other.ID, input); err != ErrCommentParent {
		t.Fatalf("expected ErrCommentParent, got %v", err)
	}

	missing := uint(9999)
	input.ParentID = &missing
	if _, err := svc.Submit(postID, input); err != ErrCommentNotFound {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}

func TestCommentVisibilityIgnoresSpamFlag(t *testing.T) {
	gdb, postID, cleanup := setupCommentServiceTestDB(t)
	defer cleanup()

	// 既批准又标垃圾的评论依旧可见：可见性只看 is_approved
	odd := db.Comment{PostID: postID, AuthorName: "a", AuthorEmail: "a@b.c", Content: "odd", IsApproved: true, IsSpam: true}
	if err := gdb.Create(&odd).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	svc := NewCommentService(gdb)
	visible, err := svc.VisibleForPost(postID)
	if err != nil {
		t.Fatalf("visible comments: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("approved+spam comment should be visible, got %d", len(visible))
	}
}

func TestCommentApproveAndVisibleReplies(t *testing.T) {
	gdb, postID, cleanup := setupCommentServiceTestDB(t)
	defer cleanup()

	svc := NewCommentService(gdb)
	parent, err := svc.Submit(postID, CommentInput{AuthorName: "a", AuthorEmail: "a@b.c", Content: "parent"})
	if err != nil {
		t.Fatalf("submit parent: %v", err)
	}
	approvedReply, err := svc.Submit(postID, CommentInput{AuthorName: "b", AuthorEmail: "b@c.d", Content: "reply-ok", ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("submit reply: %v", err)
	}
	if _, err := svc.Submit(postID, CommentInput{AuthorName: "c", AuthorEmail: "c@d.e", Content: "reply-hidden", ParentID: &parent.ID}); err != nil {
		t.Fatalf("submit hidden reply: %v", err)
	}

	if err := svc.Approve([]uint{parent.ID, approvedReply.ID}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	visible, err := svc.VisibleForPost(postID)
	if err != nil {
		t.Fatalf("visible comments: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected 1 top-level comment, got %d", len(visible))
	}
	if len(visible[0].Replies) != 1 || visible[0].Replies[0].Content != "reply-ok" {
		t.Fatalf("expected only approved reply, got %+v", visible[0].Replies)
	}

	count, err := svc.CountVisible(postID)
	if err != nil {
		t.Fatalf("count visible: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected visible count 2 (parent + reply), got %d", count)
	}
}

func TestCommentMarkSpamRevokesApproval(t *testing.T) {
	gdb, postID, cleanup := setupCommentServiceTestDB(t)
	defer cleanup()

	svc := NewCommentService(gdb)
	comment, err := svc.Submit(postID, CommentInput{AuthorName: "a", AuthorEmail: "a@b.c", Content: "x"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.Approve([]uint{comment.ID}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := svc.MarkSpam([]uint{comment.ID}); err != nil {
		t.Fatalf("mark spam: %v", err)
	}

	var reloaded db.Comment
	if err := gdb.First(&reloaded, comment.ID).Error; err != nil {
		t.Fatalf("reload comment: %v", err)
	}
	if !reloaded.IsSpam || reloaded.IsApproved {
		t.Fatalf("expected spam=true approved=false, got spam=%v approved=%v", reloaded.IsSpam, reloaded.IsApproved)
	}
}

func TestCommentDeleteRemovesReplies(t *testing.T) {
	gdb, postID, cleanup := setupCommentServiceTestDB(t)
	defer cleanup()

	svc := NewCommentService(gdb)
	parent, err := svc.Submit(postID, CommentInput{AuthorName: "a", AuthorEmail: "a@b.c", Content: "parent"})
	if err != nil {
		t.Fatalf("submit parent: %v", err)
	}
	if _, err := svc.Submit(postID, CommentInput{AuthorName: "b", AuthorEmail: "b@c.d", Content: "reply", ParentID: &parent.ID}); err != nil {
		t.Fatalf("submit reply: %v", err)
	}

	if err := svc.Delete([]uint{parent.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	gdb.Model(&db.Comment{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected all comments removed, got %d", count)
	}
}

func TestCommentListFilters(t *testing.T) {
	gdb, postID, cleanup := setupCommentServiceTestDB(t)
	defer cleanup()

	seeds := []db.Comment{
		{PostID: postID, AuthorName: "a", AuthorEmail: "a@b.c", Content: "pending"},
		{PostID: postID, AuthorName: "b", AuthorEmail: "b@c.d", Content: "approved", IsApproved: true},
		{PostID: postID, AuthorName: "c", AuthorEmail: "c@d.e", Content: "spam", IsSpam: true},
	}
	for i := range seeds {
		if err := gdb.Create(&seeds[i]).Error; err != nil {
			t.Fatalf("seed comment %d: %v", i, err)
		}
	}

	svc := NewCommentService(gdb)

	pending, err := svc.List(CommentFilter{Pending: true})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Content != "pending" {
		t.Fatalf("unexpected pending list: %+v", pending)
	}

	spam, err := svc.List(CommentFilter{SpamOnly: true})
	if err != nil {
		t.Fatalf("list spam: %v", err)
	}
	if len(spam) != 1 || spam[0].Content != "spam" {
		t.Fatalf("unexpected spam list: %+v", spam)
	}

	all, err := svc.List(CommentFilter{PostID: postID})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(all))
	}
}
