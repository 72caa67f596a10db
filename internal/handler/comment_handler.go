package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sakuralog/internal/service"
)

// 评论审核的后台 JSON 接口：列表 + 批量批准 / 标垃圾 / 删除。

// GetComments 获取评论列表，支持 status=pending|spam 与 post_id 过滤。
func (a *API) GetComments(c *gin.Context) {
	filter := service.CommentFilter{}

	switch strings.TrimSpace(c.Query("status")) {
	case "pending":
		filter.Pending = true
	case "spam":
		filter.SpamOnly = true
	}

	if raw := strings.TrimSpace(c.Query("post_id")); raw != "" {
		filter.PostID = uint(parsePositiveInt(raw, 0))
	}

	comments, err := a.comments.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取评论列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

type commentBatchPayload struct {
	IDs []uint `json:"ids"`
}

// ApproveComments 批量批准评论
func (a *API) ApproveComments(c *gin.Context) {
	var payload commentBatchPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	if err := a.comments.Approve(payload.IDs); err != nil {
		respondError(c, http.StatusInternalServerError, "批准评论失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "评论已批准"})
}

// MarkCommentsSpam 批量标记垃圾评论并撤销批准
func (a *API) MarkCommentsSpam(c *gin.Context) {
	var payload commentBatchPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	if err := a.comments.MarkSpam(payload.IDs); err != nil {
		respondError(c, http.StatusInternalServerError, "标记垃圾评论失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已标记为垃圾评论"})
}

// DeleteComments 批量删除评论及其回复
func (a *API) DeleteComments(c *gin.Context) {
	var payload commentBatchPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	if err := a.comments.Delete(payload.IDs); err != nil {
		respondError(c, http.StatusInternalServerError, "删除评论失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "评论已删除"})
}
