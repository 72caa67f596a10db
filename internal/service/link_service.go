package service

import (
	"errors"
	"strings"

	"github.com/sakuralog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrLinkNotFound = errors.New("link not found")
	ErrLinkInvalid  = errors.New("link name and url are required")
)

// LinkService wraps friend link operations.
type LinkService struct {
	db *gorm.DB
}

// LinkInput represents fields accepted when creating or updating a link.
type LinkInput struct {
	Name        string
	URL         string
	Description string
	Avatar      string
	IsActive    bool
	SortOrder   int
}

// NewLinkService creates a LinkService instance.
func NewLinkService(gdb *gorm.DB) *LinkService {
	return &LinkService{db: gdb}
}

// ListActive returns enabled links in configured order for public pages.
func (s *LinkService) ListActive() ([]db.Link, error) {
	var links []db.Link
	if err := s.db.Where("is_active = ?", true).
		Order("sort_order asc").Order("created_at desc").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// ListAll returns every link for the admin surface.
func (s *LinkService) ListAll() ([]db.Link, error) {
	var links []db.Link
	if err := s.db.Order("sort_order asc").Order("created_at desc").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// Create inserts a new link.
func (s *LinkService) Create(input LinkInput) (*db.Link, error) {
	name := strings.TrimSpace(input.Name)
	url := strings.TrimSpace(input.URL)
	if name == "" || url == "" {
		return nil, ErrLinkInvalid
	}

	link := db.Link{
		Name:        name,
		URL:         url,
		Description: strings.TrimSpace(input.Description),
		Avatar:      strings.TrimSpace(input.Avatar),
		IsActive:    input.IsActive,
		SortOrder:   input.SortOrder,
	}
	if err := s.db.Create(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// Update applies updates to an existing link.
func (s *LinkService) Update(id uint, input LinkInput) (*db.Link, error) {
	var link db.Link
	if err := s.db.First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	url := strings.TrimSpace(input.URL)
	if name == "" || url == "" {
		return nil, ErrLinkInvalid
	}

	link.Name = name
	link.URL = url
	link.Description = strings.TrimSpace(input.Description)
	link.Avatar = strings.TrimSpace(input.Avatar)
	link.IsActive = input.IsActive
	link.SortOrder = input.SortOrder

	if err := s.db.Save(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// Delete removes a link by id.
func (s *LinkService) Delete(id uint) error {
	result := s.db.Unscoped().Delete(&db.Link{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}
