package service

import (
	"errors"
	"strings"

	"github.com/sakuralog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTagExists       = errors.New("tag already exists")
	ErrTagNotFound     = errors.New("tag not found")
	ErrTagNameRequired = errors.New("tag name is required")
)

// TagService wraps tag related operations.
type TagService struct {
	db *gorm.DB
}

// TagUsage 描述标签及其已发布文章数，用于标签云。
type TagUsage struct {
	ID    uint
	Name  string
	Slug  string
	Color string
	Count int64
}

// TagInput represents fields accepted when creating or updating a tag.
type TagInput struct {
	Name  string
	Slug  string
	Color string
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// List returns all tags with their post usage counts, ordered by name.
func (s *TagService) List() ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.
		Model(&db.Tag{}).
		Select("tags.*, COUNT(post_tags.post_id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Group("tags.id").
		Order("tags.name asc").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetBySlug fetches a tag by slug.
func (s *TagService) GetBySlug(slug string) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.Where("slug = ?", slug).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// PublishedUsage 返回已发布文章中标签的使用统计，按使用次数倒序。
// limit <= 0 表示不限制数量。
func (s *TagService) PublishedUsage(limit int) ([]TagUsage, error) {
	query := s.db.Table("tags").
		Select("tags.id, tags.name, tags.slug, tags.color, COUNT(DISTINCT posts.id) AS count").
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins("JOIN posts ON posts.id = post_tags.post_id AND posts.deleted_at IS NULL").
		Where("posts.status = ?", db.PostStatusPublished).
		Where("tags.deleted_at IS NULL").
		Group("tags.id, tags.name, tags.slug, tags.color").
		Order("count desc").
		Order("tags.name asc")

	if limit > 0 {
		query = query.Limit(limit)
	}

	var usages []TagUsage
	if err := query.Scan(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}

// Create inserts a new tag, deriving the slug from the name when absent.
func (s *TagService) Create(input TagInput) (*db.Tag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTagNameRequired
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}

	var existing db.Tag
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, ErrTagExists
	}

	tag := db.Tag{Name: name, Slug: slug, Color: strings.TrimSpace(input.Color)}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Update changes tag fields while keeping slug uniqueness.
func (s *TagService) Update(id uint, input TagInput) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTagNameRequired
	}
	tag.Name = name
	if color := strings.TrimSpace(input.Color); color != "" {
		tag.Color = color
	}

	if slug := strings.TrimSpace(input.Slug); slug != "" && slug != tag.Slug {
		var existing db.Tag
		if err := s.db.Where("slug = ? AND id <> ?", slug, id).First(&existing).Error; err == nil {
			return nil, ErrTagExists
		}
		tag.Slug = slug
	}

	if err := s.db.Save(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Delete removes a tag together with its post associations.
func (s *TagService) Delete(id uint) error {
	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&tag).Association("Posts").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&tag).Error
	})
}
