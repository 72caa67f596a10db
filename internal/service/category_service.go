package service

import (
	"errors"
	"strings"

	"github.com/sakuralog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryExists       = errors.New("category already exists")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameRequired = errors.New("category name is required")
)

// CategoryService wraps category related operations.
type CategoryService struct {
	db *gorm.DB
}

// CategoryUsage 描述分类及其已发布文章数。
type CategoryUsage struct {
	ID    uint
	Name  string
	Slug  string
	Count int64
}

// CategoryInput represents fields accepted when creating or updating a category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns all categories ordered by name.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetBySlug fetches a category by slug.
func (s *CategoryService) GetBySlug(slug string) (*db.Category, error) {
	var category db.Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// PublishedUsage 返回有已发布文章的分类及文章数，按文章数倒序。
func (s *CategoryService) PublishedUsage() ([]CategoryUsage, error) {
	var rows []CategoryUsage
	if err := s.db.Table("categories").
		Select("categories.id, categories.name, categories.slug, COUNT(posts.id) AS count").
		Joins("JOIN posts ON posts.category_id = categories.id AND posts.deleted_at IS NULL").
		Where("posts.status = ?", db.PostStatusPublished).
		Where("categories.deleted_at IS NULL").
		Group("categories.id, categories.name, categories.slug").
		Order("count desc").
		Order("categories.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a new category, deriving the slug from the name when absent.
func (s *CategoryService) Create(input CategoryInput) (*db.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}

	var existing db.Category
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	category := db.Category{Name: name, Slug: slug, Description: strings.TrimSpace(input.Description)}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Update changes category fields. Slug 一经引用即应保持稳定，仅在显式传入时更新。
func (s *CategoryService) Update(id uint, input CategoryInput) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}
	category.Name = name
	category.Description = strings.TrimSpace(input.Description)

	if slug := strings.TrimSpace(input.Slug); slug != "" && slug != category.Slug {
		var existing db.Category
		if err := s.db.Where("slug = ? AND id <> ?", slug, id).First(&existing).Error; err == nil {
			return nil, ErrCategoryExists
		}
		category.Slug = slug
	}

	if err := s.db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a category; posts keep existing through the SET NULL constraint.
func (s *CategoryService) Delete(id uint) error {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Post{}).Where("category_id = ?", id).
			Update("category_id", gorm.Expr("NULL")).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&category).Error
	})
}
