package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sakuralog/internal/mail"
	"github.com/sakuralog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	posts       *service.PostService
	categories  *service.CategoryService
	tags        *service.TagService
	series      *service.SeriesService
	links       *service.LinkService
	comments    *service.CommentService
	pages       *service.PageService
	subscribers *service.SubscriberService
	newsletters *service.NewsletterService
	system      *service.SystemSettingService
	uploadDir   string
	uploadURL   string
}

const siteSettingsContextKey = "__site_settings"

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, mailer mail.Mailer, siteBaseURL, uploadDir, uploadURL string) *API {
	return &API{
		db:          gdb,
		posts:       service.NewPostService(gdb),
		categories:  service.NewCategoryService(gdb),
		tags:        service.NewTagService(gdb),
		series:      service.NewSeriesService(gdb),
		links:       service.NewLinkService(gdb),
		comments:    service.NewCommentService(gdb),
		pages:       service.NewPageService(gdb),
		subscribers: service.NewSubscriberService(gdb, mailer, siteBaseURL),
		newsletters: service.NewNewsletterService(gdb, mailer, siteBaseURL),
		system:      service.NewSystemSettingService(gdb),
		uploadDir:   uploadDir,
		uploadURL:   uploadURL,
	}
}

func (a *API) siteSettings(c *gin.Context) service.SystemSettings {
	if cached, exists := c.Get(siteSettingsContextKey); exists {
		if view, ok := cached.(service.SystemSettings); ok {
			return view
		}
	}

	settings, err := a.system.GetSettings()
	if err != nil {
		c.Error(err)
	}

	c.Set(siteSettingsContextKey, settings)
	return settings
}

// renderHTML 在渲染模板时自动附加站点设置、年份与闪存消息。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	view := a.siteSettings(c)

	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["site"]; !exists {
		payload["site"] = gin.H{
			"name":        view.SiteName,
			"description": view.SiteDescription,
			"logoUrl":     view.SiteLogoURL,
		}
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}
	if _, exists := payload["flashes"]; !exists {
		payload["flashes"] = takeFlashes(c)
	}

	c.HTML(status, template, payload)
}
