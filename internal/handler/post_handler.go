package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sakuralog/internal/db"
	"github.com/sakuralog/internal/service"
)

type postPayload struct {
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	Status        string `json:"status"`
	CategoryID    *uint  `json:"category_id"`
	SeriesID      *uint  `json:"series_id"`
	SeriesOrder   int    `json:"series_order"`
	TagIDs        []uint `json:"tag_ids"`
	CoverImage    string `json:"cover_image"`
	GalleryImages string `json:"gallery_images"`
	Featured      bool   `json:"featured"`
	FeaturedOrder int    `json:"featured_order"`
}

func (p postPayload) toInput(userID uint) service.PostInput {
	status := strings.TrimSpace(p.Status)
	if status == "" {
		status = db.PostStatusDraft
	}
	return service.PostInput{
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		Status:        status,
		CategoryID:    p.CategoryID,
		SeriesID:      p.SeriesID,
		SeriesOrder:   p.SeriesOrder,
		TagIDs:        p.TagIDs,
		UserID:        userID,
		CoverImage:    p.CoverImage,
		GalleryImages: p.GalleryImages,
		Featured:      p.Featured,
		FeaturedOrder: p.FeaturedOrder,
	}
}

func sessionUserID(c *gin.Context) uint {
	session := sessions.Default(c)
	if id, ok := session.Get("user_id").(uint); ok {
		return id
	}
	return 0
}

// GetPosts 获取文章列表（后台，不限状态）
func (a *API) GetPosts(c *gin.Context) {
	filter := service.PostFilter{
		Status:  strings.TrimSpace(c.Query("status")),
		Search:  strings.TrimSpace(c.Query("search")),
		Page:    parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage: parsePositiveInt(c.DefaultQuery("per_page", "10"), 10),
	}

	result, err := a.posts.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取文章列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       result.Posts,
		"total":       result.Total,
		"page":        result.Page,
		"total_pages": result.TotalPages,
	})
}

// GetPost 获取单篇文章
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "文章不存在")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost 创建新文章
func (a *API) CreatePost(c *gin.Context) {
	var payload postPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	post, err := a.posts.Create(payload.toInput(sessionUserID(c)))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostTitleRequired):
			respondError(c, http.StatusBadRequest, "标题不能为空")
		case errors.Is(err, service.ErrTagNotFound):
			respondError(c, http.StatusBadRequest, "包含不存在的标签")
		default:
			respondError(c, http.StatusInternalServerError, "创建文章失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "文章创建成功", "post": post})
}

// UpdatePost 更新文章
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	var payload postPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	post, err := a.posts.Update(id, payload.toInput(sessionUserID(c)))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "文章不存在")
		case errors.Is(err, service.ErrPostTitleRequired):
			respondError(c, http.StatusBadRequest, "标题不能为空")
		case errors.Is(err, service.ErrTagNotFound):
			respondError(c, http.StatusBadRequest, "包含不存在的标签")
		default:
			respondError(c, http.StatusInternalServerError, "更新文章失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "文章更新成功", "post": post})
}

// DeletePost 删除文章
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除文章失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "文章已删除"})
}
