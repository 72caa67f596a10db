package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sakuralog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrPostTitleRequired = errors.New("post title is required")
)

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// PostFilter describes filters for listing posts.
// 各筛选维度相互独立，组合时取 AND。
type PostFilter struct {
	Year         int
	Month        int
	CategorySlug string
	TagSlug      string
	SeriesSlug   string
	Search       string
	Status       string
	Page         int
	PerPage      int
}

// PostListResult aggregates paginated list data.
type PostListResult struct {
	Posts      []db.Post
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	Status        string
	CategoryID    *uint
	SeriesID      *uint
	SeriesOrder   int
	TagIDs        []uint
	UserID        uint
	CoverImage    string
	GalleryImages string
	Featured      bool
	FeaturedOrder int
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// preparePost 是统一的保存管线：补全 slug、重渲染 HTML 缓存、
// 首次进入 published 状态时盖一次发布时间戳。
func preparePost(post *db.Post) error {
	post.Title = strings.TrimSpace(post.Title)
	if post.Title == "" {
		return ErrPostTitleRequired
	}

	if strings.TrimSpace(post.Slug) == "" {
		post.Slug = Slugify(post.Title)
	}

	htmlContent, err := RenderMarkdown(post.Content)
	if err != nil {
		return fmt.Errorf("render post content: %w", err)
	}
	post.ContentHTML = htmlContent

	if post.Status == "" {
		post.Status = db.PostStatusDraft
	}
	if post.Status == db.PostStatusPublished && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	return nil
}

// Get fetches a post by id with associations preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Tags").Preload("Category").Preload("Series").Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPublishedBySlug 按别名取已发布文章并累加浏览量。
func (s *PostService) GetPublishedBySlug(slug string) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Tags").Preload("Category").Preload("Series").Preload("User").
		Where("slug = ? AND status = ?", slug, db.PostStatusPublished).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&db.Post{}).Where("id = ?", post.ID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		return nil, err
	}
	post.Views++

	return &post, nil
}

// Create persists a post and associates tags in a transaction.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	post := db.Post{
		Title:         input.Title,
		Slug:          strings.TrimSpace(input.Slug),
		Excerpt:       strings.TrimSpace(input.Excerpt),
		Content:       input.Content,
		Status:        input.Status,
		CategoryID:    input.CategoryID,
		SeriesID:      input.SeriesID,
		SeriesOrder:   input.SeriesOrder,
		UserID:        input.UserID,
		CoverImage:    strings.TrimSpace(input.CoverImage),
		GalleryImages: input.GalleryImages,
		Featured:      input.Featured,
		FeaturedOrder: input.FeaturedOrder,
	}

	return s.saveWithTags(&post, input.TagIDs)
}

// Update applies updates to an existing post through the same save pipeline.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	existing.Title = input.Title
	if trimmed := strings.TrimSpace(input.Slug); trimmed != "" {
		existing.Slug = trimmed
	}
	existing.Excerpt = strings.TrimSpace(input.Excerpt)
	existing.Content = input.Content
	existing.Status = input.Status
	existing.CategoryID = input.CategoryID
	existing.SeriesID = input.SeriesID
	existing.SeriesOrder = input.SeriesOrder
	existing.CoverImage = strings.TrimSpace(input.CoverImage)
	existing.GalleryImages = input.GalleryImages
	existing.Featured = input.Featured
	existing.FeaturedOrder = input.FeaturedOrder

	return s.saveWithTags(&existing, input.TagIDs)
}

// Delete removes a post and its comments by id.
func (s *PostService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Post{}, id).Error
	})
}

// List provides paginated posts based on filters.
// 超出范围的页码返回空页而不是错误。
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	result := &PostListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	countQuery := s.applyFilters(s.db.Model(&db.Post{}), filter)
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	orderBy := "posts.created_at desc"
	if filter.Status == db.PostStatusPublished {
		orderBy = "posts.published_at desc, posts.id desc"
	}
	if filter.SeriesSlug != "" {
		// 系列视角按系列内序号正序展示
		orderBy = "posts.series_order asc, posts.id asc"
	}

	var posts []db.Post
	dataQuery := s.applyFilters(
		s.db.Model(&db.Post{}).Preload("Tags").Preload("Category").Preload("Series").Preload("User"),
		filter,
	)
	if err := dataQuery.Order(orderBy).Limit(result.PerPage).Offset(offset).Find(&posts).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Posts = posts
	return result, nil
}

// ListPublished 是 List 的公开读取入口，强制 published 范围。
func (s *PostService) ListPublished(filter PostFilter) (*PostListResult, error) {
	filter.Status = db.PostStatusPublished
	return s.List(filter)
}

// Related returns published posts in the same category, excluding the post itself.
func (s *PostService) Related(post *db.Post, limit int) ([]db.Post, error) {
	if post.CategoryID == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 4
	}

	var posts []db.Post
	if err := s.db.Where("status = ? AND category_id = ? AND id <> ?",
		db.PostStatusPublished, *post.CategoryID, post.ID).
		Order("published_at desc, id desc").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Popular returns published posts ordered by view counter descending.
func (s *PostService) Popular(limit int) ([]db.Post, error) {
	if limit <= 0 {
		limit = 5
	}

	var posts []db.Post
	if err := s.db.Where("status = ?", db.PostStatusPublished).
		Order("views desc, id desc").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Featured 返回首页滑块使用的特色文章。
func (s *PostService) Featured(limit int) ([]db.Post, error) {
	if limit <= 0 {
		limit = 5
	}

	var posts []db.Post
	if err := s.db.Where("status = ? AND featured = ?", db.PostStatusPublished, true).
		Order("featured_order asc, published_at desc").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ArchiveGroup 表示归档页中某一年的文章。
type ArchiveGroup struct {
	Year  int
	Posts []db.Post
}

// Archive 按年份分组返回全部已发布文章，年份倒序。
func (s *PostService) Archive() ([]ArchiveGroup, error) {
	var posts []db.Post
	if err := s.db.Preload("Category").
		Where("status = ?", db.PostStatusPublished).
		Order("published_at desc, id desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}

	var groups []ArchiveGroup
	for _, post := range posts {
		if post.PublishedAt == nil {
			continue
		}
		year := post.PublishedAt.Year()
		if len(groups) == 0 || groups[len(groups)-1].Year != year {
			groups = append(groups, ArchiveGroup{Year: year})
		}
		groups[len(groups)-1].Posts = append(groups[len(groups)-1].Posts, post)
	}

	return groups, nil
}

// SeriesPosition 返回文章在其系列中的序号（从 1 开始）与系列内文章。
func (s *PostService) SeriesPosition(post *db.Post) ([]db.Post, int, error) {
	if post.SeriesID == nil {
		return nil, 0, nil
	}

	var posts []db.Post
	if err := s.db.Where("status = ? AND series_id = ?", db.PostStatusPublished, *post.SeriesID).
		Order("series_order asc, id asc").
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	position := 0
	for i := range posts {
		if posts[i].ID == post.ID {
			position = i + 1
			break
		}
	}

	return posts, position, nil
}

func (s *PostService) saveWithTags(post *db.Post, tagIDs []uint) (*db.Post, error) {
	if err := preparePost(post); err != nil {
		return nil, err
	}

	return post, s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			return err
		}

		var tags []db.Tag
		if len(tagIDs) > 0 {
			if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
				return err
			}

			if len(tags) != len(tagIDs) {
				return ErrTagNotFound
			}
		}

		if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
			return err
		}

		return tx.Preload("Tags").First(post, post.ID).Error
	})
}

func (s *PostService) applyFilters(query *gorm.DB, filter PostFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("posts.status = ?", filter.Status)
	}

	if filter.Year > 0 {
		query = query.Where("CAST(strftime('%Y', posts.published_at) AS INTEGER) = ?", filter.Year)
	}
	if filter.Month > 0 {
		query = query.Where("CAST(strftime('%m', posts.published_at) AS INTEGER) = ?", filter.Month)
	}

	if filter.CategorySlug != "" {
		query = query.Where("posts.category_id IN (?)",
			s.db.Model(&db.Category{}).Select("categories.id").Where("categories.slug = ?", filter.CategorySlug))
	}

	if filter.SeriesSlug != "" {
		query = query.Where("posts.series_id IN (?)",
			s.db.Model(&db.Series{}).Select("series.id").Where("series.slug = ?", filter.SeriesSlug))
	}

	if filter.TagSlug != "" {
		subQuery := s.db.Model(&db.Post{}).
			Select("posts.id").
			Joins("JOIN post_tags ON posts.id = post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", filter.TagSlug).
			Distinct()
		query = query.Where("posts.id IN (?)", subQuery)
	}

	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("(posts.title LIKE ? OR posts.content LIKE ? OR posts.excerpt LIKE ?)",
			search, search, search)
	}

	return query
}
