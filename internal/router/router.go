package router

import (
	"html/template"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sakuralog/internal/handler"
)

// Setup 配置 Gin 引擎和路由。
// templateGlob 允许测试传入相对于测试目录的模板路径。
func Setup(api *handler.API, sessionSecret, templateGlob string) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("sakuralog_session", store))

	// 加载模板并添加自定义函数
	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"mul": func(a, b int) int {
			return a * b
		},
	})
	r.LoadHTMLGlob(templateGlob)

	// 静态文件服务
	r.Static("/static", "./web/static")

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 前台路由
	r.GET("/", api.ShowHome)
	r.GET("/posts", api.ShowPostList)
	r.GET("/post/:slug", api.ShowPostDetail)
	r.POST("/post/:slug", api.SubmitComment)
	r.GET("/archive", api.ShowArchive)
	r.GET("/archive/:year", api.ShowYearArchive)
	r.GET("/archive/:year/:month", api.ShowYearArchive)
	r.GET("/category/:slug", api.ShowCategoryArchive)
	r.GET("/tag/:slug", api.ShowTagArchive)
	r.GET("/series/:slug", api.ShowSeriesArchive)
	r.GET("/search", api.ShowSearch)
	r.GET("/about", api.ShowAbout)
	r.POST("/like", api.LikePost)

	// 新闻通讯路由
	newsletter := r.Group("/newsletter")
	{
		newsletter.GET("/subscribe", api.ShowSubscribePage)
		newsletter.POST("/subscribe", api.Subscribe)
		newsletter.GET("/verify/:token", api.VerifyEmail)
		newsletter.GET("/unsubscribe", api.ShowUnsubscribePage)
		newsletter.POST("/unsubscribe", api.Unsubscribe)
		newsletter.GET("/unsubscribe/:token", api.UnsubscribeByToken)
		newsletter.GET("/manage", handler.AuthRequired(), api.ShowNewsletterManagement)
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.GET("/login", api.ShowLoginPage)
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/dashboard", api.ShowDashboard)

			// API路由
			apiGroup := auth.Group("/api")
			{
				apiGroup.GET("/posts", api.GetPosts)
				apiGroup.GET("/posts/:id", api.GetPost)
				apiGroup.POST("/posts", api.CreatePost)
				apiGroup.PUT("/posts/:id", api.UpdatePost)
				apiGroup.DELETE("/posts/:id", api.DeletePost)

				apiGroup.GET("/categories", api.GetCategories)
				apiGroup.POST("/categories", api.CreateCategory)
				apiGroup.PUT("/categories/:id", api.UpdateCategory)
				apiGroup.DELETE("/categories/:id", api.DeleteCategory)

				apiGroup.GET("/tags", api.GetTags)
				apiGroup.POST("/tags", api.CreateTag)
				apiGroup.PUT("/tags/:id", api.UpdateTag)
				apiGroup.DELETE("/tags/:id", api.DeleteTag)

				apiGroup.GET("/series", api.GetSeries)
				apiGroup.POST("/series", api.CreateSeries)
				apiGroup.PUT("/series/:id", api.UpdateSeries)
				apiGroup.DELETE("/series/:id", api.DeleteSeries)

				apiGroup.GET("/links", api.GetLinks)
				apiGroup.POST("/links", api.CreateLink)
				apiGroup.PUT("/links/:id", api.UpdateLink)
				apiGroup.DELETE("/links/:id", api.DeleteLink)

				apiGroup.GET("/comments", api.GetComments)
				apiGroup.POST("/comments/approve", api.ApproveComments)
				apiGroup.POST("/comments/spam", api.MarkCommentsSpam)
				apiGroup.POST("/comments/delete", api.DeleteComments)

				apiGroup.GET("/newsletters", api.GetNewsletters)
				apiGroup.POST("/newsletters", api.CreateNewsletter)
				apiGroup.PUT("/newsletters/:id", api.UpdateNewsletter)
				apiGroup.DELETE("/newsletters/:id", api.DeleteNewsletter)
				apiGroup.POST("/newsletters/send", api.SendNewsletters)

				apiGroup.GET("/settings", api.GetSiteSettings)
				apiGroup.PUT("/settings", api.UpdateSiteSettings)
				apiGroup.GET("/about", api.GetAboutPage)
				apiGroup.PUT("/about", api.SaveAboutPage)

				apiGroup.POST("/upload", api.UploadImage)
			}
		}
	}

	return r
}
