package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sakuralog/internal/db"
	"golang.org/x/crypto/bcrypt"
)

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "管理员登录",
	})
}

// Login 处理用户登录请求
func (a *API) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	var user db.User
	if err := a.db.Where("username = ?", username).First(&user).Error; err != nil {
		a.renderHTML(c, http.StatusUnauthorized, "login.html", gin.H{"title": "管理员登录", "error": "用户名或密码错误"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		a.renderHTML(c, http.StatusUnauthorized, "login.html", gin.H{"title": "管理员登录", "error": "用户名或密码错误"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "login.html", gin.H{"title": "管理员登录", "error": "会话保存失败"})
		return
	}

	c.Redirect(http.StatusFound, "/admin/dashboard")
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/admin/login")
}

// ShowDashboard 渲染后台主面板
func (a *API) ShowDashboard(c *gin.Context) {
	session := sessions.Default(c)
	username := session.Get("username")

	var postCount, commentCount, pendingCount, subscriberCount int64
	a.db.Model(&db.Post{}).Count(&postCount)
	a.db.Model(&db.Comment{}).Count(&commentCount)
	a.db.Model(&db.Comment{}).Where("is_approved = ? AND is_spam = ?", false, false).Count(&pendingCount)
	a.db.Model(&db.Subscriber{}).Where("is_active = ?", true).Count(&subscriberCount)

	a.renderHTML(c, http.StatusOK, "dashboard.html", gin.H{
		"title":           "管理面板",
		"username":        username,
		"postCount":       postCount,
		"commentCount":    commentCount,
		"pendingCount":    pendingCount,
		"subscriberCount": subscriberCount,
	})
}

// AuthRequired 是一个简单的认证中间件
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")
		if userID == nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
