package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sakuralog/internal/service"
)

type siteSettingsPayload struct {
	SiteName        string `json:"site_name"`
	SiteDescription string `json:"site_description"`
	SiteLogoURL     string `json:"site_logo_url"`
}

// GetSiteSettings 获取站点设置
func (a *API) GetSiteSettings(c *gin.Context) {
	settings, err := a.system.GetSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取站点设置失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSiteSettings 更新站点设置
func (a *API) UpdateSiteSettings(c *gin.Context) {
	var payload siteSettingsPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	settings, err := a.system.UpdateSettings(service.SystemSettingsInput{
		SiteName:        payload.SiteName,
		SiteDescription: payload.SiteDescription,
		SiteLogoURL:     payload.SiteLogoURL,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "保存站点设置失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "站点设置已保存", "settings": settings})
}

type aboutPagePayload struct {
	Content string `json:"content"`
}

// GetAboutPage 获取关于页内容（尚未创建时返回空内容）
func (a *API) GetAboutPage(c *gin.Context) {
	page, err := a.pages.GetBySlug("about")
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			c.JSON(http.StatusOK, gin.H{"content": ""})
			return
		}
		respondError(c, http.StatusInternalServerError, "获取关于页失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": page.Content, "page": page})
}

// SaveAboutPage 保存关于页内容
func (a *API) SaveAboutPage(c *gin.Context) {
	var payload aboutPagePayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	page, err := a.pages.SaveAboutPage(payload.Content)
	if err != nil {
		if errors.Is(err, service.ErrPageContentMissing) {
			respondError(c, http.StatusBadRequest, "内容不能为空")
			return
		}
		respondError(c, http.StatusInternalServerError, "保存关于页失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "关于页已保存", "page": page})
}
