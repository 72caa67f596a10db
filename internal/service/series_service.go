package service

import (
	"errors"
	"strings"

	"github.com/sakuralog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrSeriesExists       = errors.New("series already exists")
	ErrSeriesNotFound     = errors.New("series not found")
	ErrSeriesNameRequired = errors.New("series name is required")
)

// SeriesService wraps series related operations.
type SeriesService struct {
	db *gorm.DB
}

// SeriesUsage 描述系列及其已发布文章数。
type SeriesUsage struct {
	ID    uint
	Name  string
	Slug  string
	Count int64
}

// SeriesInput represents fields accepted when creating or updating a series.
type SeriesInput struct {
	Name        string
	Slug        string
	Description string
	CoverImage  string
	SortOrder   int
}

// NewSeriesService creates a SeriesService instance.
func NewSeriesService(gdb *gorm.DB) *SeriesService {
	return &SeriesService{db: gdb}
}

// List returns all series with their post counts, in configured order.
func (s *SeriesService) List() ([]db.Series, error) {
	var series []db.Series
	if err := s.db.
		Model(&db.Series{}).
		Select("series.*, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN posts ON posts.series_id = series.id AND posts.deleted_at IS NULL").
		Group("series.id").
		Order("series.sort_order asc").
		Order("series.created_at desc").
		Find(&series).Error; err != nil {
		return nil, err
	}
	return series, nil
}

// GetBySlug fetches a series by slug.
func (s *SeriesService) GetBySlug(slug string) (*db.Series, error) {
	var series db.Series
	if err := s.db.Where("slug = ?", slug).First(&series).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	return &series, nil
}

// PublishedUsage 返回有已发布文章的系列及文章数，按文章数倒序。
// limit <= 0 表示不限制数量。
func (s *SeriesService) PublishedUsage(limit int) ([]SeriesUsage, error) {
	query := s.db.Table("series").
		Select("series.id, series.name, series.slug, COUNT(posts.id) AS count").
		Joins("JOIN posts ON posts.series_id = series.id AND posts.deleted_at IS NULL").
		Where("posts.status = ?", db.PostStatusPublished).
		Where("series.deleted_at IS NULL").
		Group("series.id, series.name, series.slug").
		Order("count desc").
		Order("series.name asc")

	if limit > 0 {
		query = query.Limit(limit)
	}

	var usages []SeriesUsage
	if err := query.Scan(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}

// Create inserts a new series, deriving the slug from the name when absent.
func (s *SeriesService) Create(input SeriesInput) (*db.Series, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrSeriesNameRequired
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}

	var existing db.Series
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, ErrSeriesExists
	}

	series := db.Series{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		CoverImage:  strings.TrimSpace(input.CoverImage),
		SortOrder:   input.SortOrder,
	}
	if err := s.db.Create(&series).Error; err != nil {
		return nil, err
	}
	return &series, nil
}

// Update changes series fields while keeping slug uniqueness.
func (s *SeriesService) Update(id uint, input SeriesInput) (*db.Series, error) {
	var series db.Series
	if err := s.db.First(&series, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrSeriesNameRequired
	}
	series.Name = name
	series.Description = strings.TrimSpace(input.Description)
	series.CoverImage = strings.TrimSpace(input.CoverImage)
	series.SortOrder = input.SortOrder

	if slug := strings.TrimSpace(input.Slug); slug != "" && slug != series.Slug {
		var existing db.Series
		if err := s.db.Where("slug = ? AND id <> ?", slug, id).First(&existing).Error; err == nil {
			return nil, ErrSeriesExists
		}
		series.Slug = slug
	}

	if err := s.db.Save(&series).Error; err != nil {
		return nil, err
	}
	return &series, nil
}

// Delete removes a series; posts keep existing through the SET NULL constraint.
func (s *SeriesService) Delete(id uint) error {
	var series db.Series
	if err := s.db.First(&series, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSeriesNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Post{}).Where("series_id = ?", id).
			Update("series_id", gorm.Expr("NULL")).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&series).Error
	})
}
