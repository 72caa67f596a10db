package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sakuralog/internal/service"
)

// ShowSubscribePage renders the newsletter subscribe form.
func (a *API) ShowSubscribePage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "subscribe.html", gin.H{"title": "订阅"})
}

// Subscribe 处理订阅请求。AJAX 请求返回 JSON，普通表单提交渲染结果页。
func (a *API) Subscribe(c *gin.Context) {
	email := c.PostForm("email")
	name := c.PostForm("name")

	_, outcome, err := a.subscribers.Subscribe(email, name)
	if err != nil {
		if errors.Is(err, service.ErrSubscriberEmailRequired) {
			if isAjax(c) {
				c.JSON(http.StatusOK, gin.H{"success": false, "message": "请输入邮箱地址。"})
				return
			}
			addFlash(c, "请输入邮箱地址。")
			a.renderHTML(c, http.StatusOK, "subscribe.html", gin.H{"title": "订阅"})
			return
		}

		if isAjax(c) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "订阅失败，请稍后再试。"})
			return
		}
		addFlash(c, "订阅失败，请稍后再试。")
		a.renderHTML(c, http.StatusOK, "subscribe.html", gin.H{"title": "订阅"})
		return
	}

	var message string
	switch outcome {
	case service.SubscribeAlreadyActive:
		message = "您已经订阅过了！"
	case service.SubscribeReactivated:
		message = "请查收邮箱进行验证。"
	default:
		message = "订阅成功！请查收邮箱进行验证。"
	}

	if isAjax(c) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
		return
	}

	addFlash(c, message)
	a.renderHTML(c, http.StatusOK, "subscribe_success.html", gin.H{"title": "订阅成功"})
}

// VerifyEmail 按令牌完成邮箱验证并跳回首页。
func (a *API) VerifyEmail(c *gin.Context) {
	if _, err := a.subscribers.Verify(c.Param("token")); err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	addFlash(c, "邮箱验证成功！您现在可以收到我们的新闻通讯了。")
	c.Redirect(http.StatusFound, "/")
}

// ShowUnsubscribePage renders the unsubscribe form.
func (a *API) ShowUnsubscribePage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "unsubscribe.html", gin.H{"title": "退订"})
}

// Unsubscribe 按表单里的邮箱退订。
func (a *API) Unsubscribe(c *gin.Context) {
	email := c.PostForm("email")
	if err := a.subscribers.Unsubscribe(email); err != nil {
		if errors.Is(err, service.ErrSubscriberNotFound) || errors.Is(err, service.ErrSubscriberEmailRequired) {
			addFlash(c, "该邮箱未订阅。")
		} else {
			addFlash(c, "退订失败，请稍后再试。")
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	addFlash(c, "您已成功退订新闻通讯。")
	c.Redirect(http.StatusFound, "/")
}

// UnsubscribeByToken 处理邮件中的一键退订链接。
func (a *API) UnsubscribeByToken(c *gin.Context) {
	if err := a.subscribers.UnsubscribeByToken(c.Param("token")); err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	addFlash(c, "您已成功退订新闻通讯。")
	c.Redirect(http.StatusFound, "/")
}

// ShowNewsletterManagement 渲染通讯管理页（仅限后台登录用户）。
func (a *API) ShowNewsletterManagement(c *gin.Context) {
	subscribers, err := a.subscribers.ListAll()
	if err != nil {
		subscribers = nil
	}

	newsletters, err := a.newsletters.List()
	if err != nil {
		newsletters = nil
	}

	total, err := a.subscribers.ActiveVerifiedCount()
	if err != nil {
		total = 0
	}

	a.renderHTML(c, http.StatusOK, "newsletter_manage.html", gin.H{
		"title":            "通讯管理",
		"subscribers":      subscribers,
		"newsletters":      newsletters,
		"totalSubscribers": total,
	})
}

// GetNewsletters 获取通讯列表
func (a *API) GetNewsletters(c *gin.Context) {
	newsletters, err := a.newsletters.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取通讯列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"newsletters": newsletters})
}

type newsletterPayload struct {
	Subject        string `json:"subject"`
	Content        string `json:"content"`
	RelatedPostIDs []uint `json:"related_post_ids"`
}

// CreateNewsletter 创建通讯草稿
func (a *API) CreateNewsletter(c *gin.Context) {
	var payload newsletterPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	newsletter, err := a.newsletters.Create(service.NewsletterInput{
		Subject:        payload.Subject,
		Content:        payload.Content,
		RelatedPostIDs: payload.RelatedPostIDs,
	})
	if err != nil {
		if errors.Is(err, service.ErrNewsletterInvalid) {
			respondError(c, http.StatusBadRequest, "主题和内容不能为空")
			return
		}
		respondError(c, http.StatusInternalServerError, "创建通讯失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"newsletter": newsletter})
}

// UpdateNewsletter 更新通讯
func (a *API) UpdateNewsletter(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的通讯ID")
		return
	}

	var payload newsletterPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	newsletter, err := a.newsletters.Update(id, service.NewsletterInput{
		Subject:        payload.Subject,
		Content:        payload.Content,
		RelatedPostIDs: payload.RelatedPostIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNewsletterNotFound):
			respondError(c, http.StatusNotFound, "通讯不存在")
		case errors.Is(err, service.ErrNewsletterInvalid):
			respondError(c, http.StatusBadRequest, "主题和内容不能为空")
		default:
			respondError(c, http.StatusInternalServerError, "更新通讯失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"newsletter": newsletter})
}

// DeleteNewsletter 删除通讯及其发送日志
func (a *API) DeleteNewsletter(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的通讯ID")
		return
	}

	if err := a.newsletters.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除通讯失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "通讯已删除"})
}

// SendNewsletters 批量发送选中的草稿通讯，非草稿静默跳过。
func (a *API) SendNewsletters(c *gin.Context) {
	var payload struct {
		IDs []uint `json:"ids"`
	}
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	summaries, err := a.newsletters.Dispatch(payload.IDs)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "发送通讯失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": summaries})
}
