package main

import (
	"fmt"
	"log"
	"time"

	"github.com/sakuralog/internal/config"
	"github.com/sakuralog/internal/db"
	"github.com/sakuralog/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 示例数据生成器
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成示例数据...")

	createAdminUser()
	createCategories()
	createTags()
	createSeries()
	createLinks()
	createPosts()
	createComments()
	createSubscribers()

	fmt.Println("示例数据生成完成！")
	fmt.Println("用户: admin (密码: admin123)")
}

// 创建管理员用户
func createAdminUser() {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := db.User{
		Username: "admin",
		Password: string(hashedPassword),
	}
	db.DB.Create(&admin)

	fmt.Println("✅ 管理员用户创建完成")
}

// 创建示例分类
func createCategories() {
	var count int64
	db.DB.Model(&db.Category{}).Count(&count)
	if count > 0 {
		fmt.Println("分类已存在，跳过创建")
		return
	}

	names := []string{"技术", "生活", "思考", "教程"}
	for _, name := range names {
		category := db.Category{Name: name, Slug: service.Slugify(name)}
		if category.Slug == "" {
			category.Slug = fmt.Sprintf("category-%d", time.Now().UnixNano())
		}
		db.DB.Create(&category)
	}

	fmt.Println("✅ 示例分类创建完成")
}

// 创建示例标签
func createTags() {
	var count int64
	db.DB.Model(&db.Tag{}).Count(&count)
	if count > 0 {
		fmt.Println("标签已存在，跳过创建")
		return
	}

	tags := []db.Tag{
		{Name: "Go", Slug: "go", Color: "#00ADD8"},
		{Name: "Web开发", Slug: "web-dev", Color: "#C5A059"},
		{Name: "数据库", Slug: "database", Color: "#336791"},
		{Name: "随笔", Slug: "essay", Color: "#E06C75"},
	}
	for i := range tags {
		db.DB.Create(&tags[i])
	}

	fmt.Println("✅ 示例标签创建完成")
}

// 创建示例系列
func createSeries() {
	var count int64
	db.DB.Model(&db.Series{}).Count(&count)
	if count > 0 {
		fmt.Println("系列已存在，跳过创建")
		return
	}

	series := db.Series{
		Name:        "从零开始写博客引擎",
		Slug:        "blog-engine-from-scratch",
		Description: "记录一个博客引擎从设计到上线的全过程。",
		SortOrder:   1,
	}
	db.DB.Create(&series)

	fmt.Println("✅ 示例系列创建完成")
}

// 创建示例友链
func createLinks() {
	var count int64
	db.DB.Model(&db.Link{}).Count(&count)
	if count > 0 {
		fmt.Println("友链已存在，跳过创建")
		return
	}

	links := []db.Link{
		{Name: "Go 官网", URL: "https://go.dev", Description: "Go 语言官方网站", IsActive: true, SortOrder: 1},
		{Name: "Gin 框架", URL: "https://gin-gonic.com", Description: "Go Web 框架", IsActive: true, SortOrder: 2},
	}
	for i := range links {
		db.DB.Create(&links[i])
	}

	fmt.Println("✅ 示例友链创建完成")
}

// 创建示例文章
func createPosts() {
	var count int64
	db.DB.Model(&db.Post{}).Count(&count)
	if count > 0 {
		fmt.Println("文章已存在，跳过创建")
		return
	}

	var admin db.User
	if err := db.DB.First(&admin).Error; err != nil {
		log.Printf("查找管理员失败: %v", err)
		return
	}

	var category db.Category
	db.DB.First(&category)
	var series db.Series
	db.DB.First(&series)
	var tags []db.Tag
	db.DB.Limit(2).Find(&tags)

	posts := service.NewPostService(db.DB)
	samples := []struct {
		title    string
		excerpt  string
		content  string
		status   string
		featured bool
		order    int
	}{
		{
			title:    "用 Gin 和 GORM 搭建博客",
			excerpt:  "一步步搭建一个支持分类、标签和系列的博客引擎。",
			content:  "## 项目结构\n\n先从 `cmd/server` 和 `internal` 的分层说起……\n\n```go\nfunc main() {\n\tfmt.Println(\"hello\")\n}\n```",
			status:   db.PostStatusPublished,
			featured: true,
			order:    1,
		},
		{
			title:   "Markdown 渲染与内容安全",
			excerpt: "goldmark 渲染加 bluemonday 清洗，缺一不可。",
			content: "渲染结果必须先过白名单再落库，否则评论区的脚本会直接执行。",
			status:  db.PostStatusPublished,
		},
		{
			title:   "草稿：关于邮件订阅的一些想法",
			content: "订阅确认、退订令牌、发送日志，先把状态机画清楚。",
			status:  db.PostStatusDraft,
		},
	}

	tagIDs := make([]uint, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}

	for i, sample := range samples {
		input := service.PostInput{
			Title:    sample.title,
			Excerpt:  sample.excerpt,
			Content:  sample.content,
			Status:   sample.status,
			UserID:   admin.ID,
			TagIDs:   tagIDs,
			Featured: sample.featured,
		}
		input.FeaturedOrder = sample.order
		if category.ID != 0 {
			input.CategoryID = &category.ID
		}
		if series.ID != 0 && sample.status == db.PostStatusPublished {
			input.SeriesID = &series.ID
			input.SeriesOrder = i + 1
		}
		if _, err := posts.Create(input); err != nil {
			log.Printf("创建文章失败: %v", err)
		}
	}

	fmt.Println("✅ 示例文章创建完成")
}

// 创建示例评论
func createComments() {
	var count int64
	db.DB.Model(&db.Comment{}).Count(&count)
	if count > 0 {
		fmt.Println("评论已存在，跳过创建")
		return
	}

	var post db.Post
	if err := db.DB.Where("status = ?", db.PostStatusPublished).First(&post).Error; err != nil {
		return
	}

	comment := db.Comment{
		PostID:      post.ID,
		AuthorName:  "路过的读者",
		AuthorEmail: "reader@example.com",
		Content:     "写得很清楚，期待系列后续！",
		IsApproved:  true,
	}
	db.DB.Create(&comment)

	reply := db.Comment{
		PostID:      post.ID,
		ParentID:    &comment.ID,
		AuthorName:  "博主",
		AuthorEmail: "admin@example.com",
		Content:     "谢谢支持，下一篇写订阅模块。",
		IsApproved:  true,
	}
	db.DB.Create(&reply)

	fmt.Println("✅ 示例评论创建完成")
}

// 创建示例订阅者
func createSubscribers() {
	var count int64
	db.DB.Model(&db.Subscriber{}).Count(&count)
	if count > 0 {
		fmt.Println("订阅者已存在，跳过创建")
		return
	}

	subscriber := db.Subscriber{
		Email:      "reader@example.com",
		Name:       "路过的读者",
		Token:      "00000000-0000-0000-0000-000000000001",
		IsActive:   true,
		IsVerified: true,
	}
	db.DB.Create(&subscriber)

	fmt.Println("✅ 示例订阅者创建完成")
}
