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

func setupCategoryServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:category-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
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

func TestCategoryCreateDerivesSlugAndRejectsDuplicates(t *testing.T) {
	gdb, cleanup := setupCategoryServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	category, err := svc.Create(CategoryInput{Name: "Web Development"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if category.Slug != "web-development" {
		t.Fatalf("expected derived slug, got %q", category.Slug)
	}

	if _, err := svc.Create(CategoryInput{Name: "别名冲突", Slug: "web-development"}); err != ErrCategoryExists {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
	if _, err := svc.Create(CategoryInput{Name: " "}); err != ErrCategoryNameRequired {
		t.Fatalf("expected ErrCategoryNameRequired, got %v", err)
	}
}

func TestCategoryPublishedUsageCountsOnlyPublished(t *testing.T) {
	gdb, cleanup := setupCategoryServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	busy, err := svc.Create(CategoryInput{Name: "busy"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := svc.Create(CategoryInput{Name: "idle"}); err != nil {
		t.Fatalf("create idle category: %v", err)
	}

	posts := []db.Post{
		{Title: "p1", Slug: "p1", Content: "x", Status: db.PostStatusPublished, UserID: 1, CategoryID: &busy.ID},
		{Title: "p2", Slug: "p2", Content: "x", Status: db.PostStatusPublished, UserID: 1, CategoryID: &busy.ID},
		{Title: "p3", Slug: "p3", Content: "x", Status: db.PostStatusDraft, UserID: 1, CategoryID: &busy.ID},
	}
	for i := range posts {
		if err := gdb.Create(&posts[i]).Error; err != nil {
			t.Fatalf("seed post %d: %v", i, err)
		}
	}

	usage, err := svc.PublishedUsage()
	if err != nil {
		t.Fatalf("published usage: %v", err)
	}

	if len(usage) != 1 {
		t.Fatalf("categories without published posts must be absent, got %d rows", len(usage))
	}
	if usage[0].Slug != "busy" || usage[0].Count != 2 {
		t.Fatalf("unexpected usage row: %+v", usage[0])
	}
}

func TestCategoryDeleteDetachesPosts(t *testing.T) {
	gdb, cleanup := setupCategoryServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	category, err := svc.Create(CategoryInput{Name: "临时"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	post := db.Post{Title: "p1", Slug: "p1", Content: "x", Status: db.PostStatusPublished, UserID: 1, CategoryID: &category.ID}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}

	if err := svc.Delete(category.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	var reloaded db.Post
	if err := gdb.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("post must survive category delete: %v", err)
	}
	if reloaded.CategoryID != nil {
		t.Fatalf("expected category_id cleared, got %v", *reloaded.CategoryID)
	}

	if err := svc.Delete(category.ID); err != ErrCategoryNotFound {
		t.Fatalf("expected ErrCategoryNotFound on second delete, got %v", err)
	}
}

func TestCategoryUpdateKeepsSlugUnlessProvided(t *testing.T) {
	gdb, cleanup := setupCategoryServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	category, err := svc.Create(CategoryInput{Name: "Old Name"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	updated, err := svc.Update(category.ID, CategoryInput{Name: "New Name"})
	if err != nil {
		t.Fatalf("update category: %v", err)
	}
	if updated.Slug != "old-name" {
		t.Fatalf("slug must stay stable without explicit input, got %q", updated.Slug)
	}
	if updated.Name != "New Name" {
		t.Fatalf("expected renamed category, got %q", updated.Name)
	}

	renamed, err := svc.Update(category.ID, CategoryInput{Name: "New Name", Slug: "fresh-slug"})
	if err != nil {
		t.Fatalf("update slug: %v", err)
	}
	if renamed.Slug != "fresh-slug" {
		t.Fatalf("expected explicit slug applied, got %q", renamed.Slug)
	}
}
