package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sakuralog/internal/service"
)

// 分类、标签、系列与友链的后台 JSON 接口。

type taxonomyPayload struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
	CoverImage  string `json:"cover_image"`
	SortOrder   int    `json:"sort_order"`
}

// GetCategories 获取分类列表
func (a *API) GetCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取分类列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory 创建分类
func (a *API) CreateCategory(c *gin.Context) {
	var payload taxonomyPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	category, err := a.categories.Create(service.CategoryInput{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNameRequired):
			respondError(c, http.StatusBadRequest, "分类名称不能为空")
		case errors.Is(err, service.ErrCategoryExists):
			respondError(c, http.StatusConflict, "分类已存在")
		default:
			respondError(c, http.StatusInternalServerError, "创建分类失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory 更新分类
func (a *API) UpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的分类ID")
		return
	}

	var payload taxonomyPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	category, err := a.categories.Update(id, service.CategoryInput{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, http.StatusNotFound, "分类不存在")
		case errors.Is(err, service.ErrCategoryNameRequired):
			respondError(c, http.StatusBadRequest, "分类名称不能为空")
		case errors.Is(err, service.ErrCategoryExists):
			respondError(c, http.StatusConflict, "分类已存在")
		default:
			respondError(c, http.StatusInternalServerError, "更新分类失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory 删除分类，分类下的文章保留并置空分类。
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的分类ID")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, http.StatusNotFound, "分类不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除分类失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "分类已删除"})
}

// GetTags 获取标签列表
func (a *API) GetTags(c *gin.Context) {
	tags, err := a.tags.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取标签列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// CreateTag 创建标签
func (a *API) CreateTag(c *gin.Context) {
	var payload taxonomyPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	tag, err := a.tags.Create(service.TagInput{
		Name:  payload.Name,
		Slug:  payload.Slug,
		Color: payload.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagNameRequired):
			respondError(c, http.StatusBadRequest, "标签名称不能为空")
		case errors.Is(err, service.ErrTagExists):
			respondError(c, http.StatusConflict, "标签已存在")
		default:
			respondError(c, http.StatusInternalServerError, "创建标签失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": tag})
}

// UpdateTag 更新标签
func (a *API) UpdateTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的标签ID")
		return
	}

	var payload taxonomyPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	tag, err := a.tags.Update(id, service.TagInput{
		Name:  payload.Name,
		Slug:  payload.Slug,
		Color: payload.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagNotFound):
			respondError(c, http.StatusNotFound, "标签不存在")
		case errors.Is(err, service.ErrTagNameRequired):
			respondError(c, http.StatusBadRequest, "标签名称不能为空")
		case errors.Is(err, service.ErrTagExists):
			respondError(c, http.StatusConflict, "标签已存在")
		default:
			respondError(c, http.StatusInternalServerError, "更新标签失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": tag})
}

// DeleteTag 删除标签及其文章关联
func (a *API) DeleteTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的标签ID")
		return
	}

	if err := a.tags.Delete(id); err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			respondError(c, http.StatusNotFound, "标签不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除标签失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "标签已删除"})
}

// GetSeries 获取系列列表
func (a *API) GetSeries(c *gin.Context) {
	series, err := a.series.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取系列列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

// CreateSeries 创建系列
func (a *API) CreateSeries(c *gin.Context) {
	var payload taxonomyPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	series, err := a.series.Create(service.SeriesInput{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		CoverImage:  payload.CoverImage,
		SortOrder:   payload.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSeriesNameRequired):
			respondError(c, http.StatusBadRequest, "系列名称不能为空")
		case errors.Is(err, service.ErrSeriesExists):
			respondError(c, http.StatusConflict, "系列已存在")
		default:
			respondError(c, http.StatusInternalServerError, "创建系列失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"series": series})
}

// UpdateSeries 更新系列
func (a *API) UpdateSeries(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的系列ID")
		return
	}

	var payload taxonomyPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	series, err := a.series.Update(id, service.SeriesInput{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		CoverImage:  payload.CoverImage,
		SortOrder:   payload.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSeriesNotFound):
			respondError(c, http.StatusNotFound, "系列不存在")
		case errors.Is(err, service.ErrSeriesNameRequired):
			respondError(c, http.StatusBadRequest, "系列名称不能为空")
		case errors.Is(err, service.ErrSeriesExists):
			respondError(c, http.StatusConflict, "系列已存在")
		default:
			respondError(c, http.StatusInternalServerError, "更新系列失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"series": series})
}

// DeleteSeries 删除系列，系列下的文章保留并置空系列。
func (a *API) DeleteSeries(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的系列ID")
		return
	}

	if err := a.series.Delete(id); err != nil {
		if errors.Is(err, service.ErrSeriesNotFound) {
			respondError(c, http.StatusNotFound, "系列不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除系列失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "系列已删除"})
}

type linkPayload struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
	IsActive    bool   `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

// GetLinks 获取友链列表
func (a *API) GetLinks(c *gin.Context) {
	links, err := a.links.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取友链列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"links": links})
}

// CreateLink 创建友链
func (a *API) CreateLink(c *gin.Context) {
	var payload linkPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	link, err := a.links.Create(service.LinkInput{
		Name:        payload.Name,
		URL:         payload.URL,
		Description: payload.Description,
		Avatar:      payload.Avatar,
		IsActive:    payload.IsActive,
		SortOrder:   payload.SortOrder,
	})
	if err != nil {
		if errors.Is(err, service.ErrLinkInvalid) {
			respondError(c, http.StatusBadRequest, "名称和地址不能为空")
			return
		}
		respondError(c, http.StatusInternalServerError, "创建友链失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"link": link})
}

// UpdateLink 更新友链
func (a *API) UpdateLink(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的友链ID")
		return
	}

	var payload linkPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	link, err := a.links.Update(id, service.LinkInput{
		Name:        payload.Name,
		URL:         payload.URL,
		Description: payload.Description,
		Avatar:      payload.Avatar,
		IsActive:    payload.IsActive,
		SortOrder:   payload.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLinkNotFound):
			respondError(c, http.StatusNotFound, "友链不存在")
		case errors.Is(err, service.ErrLinkInvalid):
			respondError(c, http.StatusBadRequest, "名称和地址不能为空")
		default:
			respondError(c, http.StatusInternalServerError, "更新友链失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"link": link})
}

// DeleteLink 删除友链
func (a *API) DeleteLink(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的友链ID")
		return
	}

	if err := a.links.Delete(id); err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			respondError(c, http.StatusNotFound, "友链不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除友链失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "友链已删除"})
}
