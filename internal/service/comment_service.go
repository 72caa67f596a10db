package service

import (
	"errors"
	"strings"

	"github.com/sakuralog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentInvalid  = errors.New("comment name, email and content are required")
	ErrCommentParent   = errors.New("parent comment does not belong to this post")
)

// CommentService 承载评论的提交与审核状态机：
// 提交(未审核) → 批准 / 标垃圾 → （可选）删除。状态转换只由后台批量操作触发。
type CommentService struct {
	db *gorm.DB
}

// CommentInput represents a visitor submitted comment.
type CommentInput struct {
	AuthorName  string
	AuthorEmail string
	AuthorURL   string
	Content     string
	ParentID    *uint
	IPAddress   string
}

// CommentFilter describes admin-side listing filters.
type CommentFilter struct {
	PostID   uint
	Pending  bool
	SpamOnly bool
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Submit validates and stores a visitor comment. 评论总是以未审核状态落库。
func (s *CommentService) Submit(postID uint, input CommentInput) (*db.Comment, error) {
	name := strings.TrimSpace(input.AuthorName)
	email := strings.TrimSpace(input.AuthorEmail)
	content := strings.TrimSpace(input.Content)
	if name == "" || email == "" || content == "" {
		return nil, ErrCommentInvalid
	}

	var post db.Post
	if err := s.db.Select("id").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if input.ParentID != nil {
		var parent db.Comment
		if err := s.db.First(&parent, *input.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		if parent.PostID != postID {
			return nil, ErrCommentParent
		}
	}

	comment := db.Comment{
		PostID:      postID,
		ParentID:    input.ParentID,
		AuthorName:  name,
		AuthorEmail: email,
		AuthorURL:   strings.TrimSpace(input.AuthorURL),
		Content:     content,
		IPAddress:   strings.TrimSpace(input.IPAddress),
		IsApproved:  false,
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// VisibleForPost 返回读者可见的顶级评论及其回复。
// 可见性只看 is_approved，与原始实现保持一致（is_spam 不参与过滤）。
func (s *CommentService) VisibleForPost(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.
		Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_approved = ?", true).Order("created_at asc")
		}).
		Where("post_id = ? AND parent_id IS NULL AND is_approved = ?", postID, true).
		Order("created_at asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CountVisible 返回文章下已批准评论总数（含回复）。
func (s *CommentService) CountVisible(postID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&db.Comment{}).
		Where("post_id = ? AND is_approved = ?", postID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List returns comments for the admin surface, newest first.
func (s *CommentService) List(filter CommentFilter) ([]db.Comment, error) {
	query := s.db.Preload("Post").Order("created_at desc")

	if filter.PostID > 0 {
		query = query.Where("post_id = ?", filter.PostID)
	}
	if filter.Pending {
		query = query.Where("is_approved = ? AND is_spam = ?", false, false)
	}
	if filter.SpamOnly {
		query = query.Where("is_spam = ?", true)
	}

	var comments []db.Comment
	if err := query.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Approve marks the given comments as approved.
func (s *CommentService) Approve(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.Model(&db.Comment{}).Where("id IN ?", ids).
		Update("is_approved", true).Error
}

// MarkSpam flags the given comments as spam and revokes approval.
func (s *CommentService) MarkSpam(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.Model(&db.Comment{}).Where("id IN ?", ids).
		Updates(map[string]interface{}{"is_spam": true, "is_approved": false}).Error
}

// Delete removes the given comments and their replies.
func (s *CommentService) Delete(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("parent_id IN ?", ids).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("id IN ?", ids).Delete(&db.Comment{}).Error
	})
}
