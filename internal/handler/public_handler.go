package handler

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sakuralog/internal/service"
)

const listPageSize = 10

// ShowHome renders the public home page: featured slider, popular tags,
// categories, friend links, series summaries and the latest published posts.
func (a *API) ShowHome(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)

	posts, err := a.posts.ListPublished(service.PostFilter{Page: page, PerPage: listPageSize})
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "home.html", gin.H{
			"title": "首页",
			"error": "获取文章失败",
		})
		return
	}

	featured, err := a.posts.Featured(5)
	if err != nil {
		featured = nil
	}

	popularTags, err := a.tags.PublishedUsage(15)
	if err != nil {
		popularTags = nil
	}

	categories, err := a.categories.PublishedUsage()
	if err != nil {
		categories = nil
	}

	links, err := a.links.ListActive()
	if err != nil {
		links = nil
	}

	seriesList, err := a.series.PublishedUsage(5)
	if err != nil {
		seriesList = nil
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title":       "首页",
		"posts":       posts.Posts,
		"page":        posts.Page,
		"totalPages":  posts.TotalPages,
		"hasMore":     posts.Page < posts.TotalPages,
		"featured":    featured,
		"popularTags": popularTags,
		"categories":  categories,
		"links":       links,
		"seriesList":  seriesList,
	})
}

// ShowPostList renders the paginated list of all published posts.
func (a *API) ShowPostList(c *gin.Context) {
	a.renderPostList(c, service.PostFilter{}, gin.H{"title": "全部文章"})
}

// ShowYearArchive lists published posts for a given year, optionally a month.
func (a *API) ShowYearArchive(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year <= 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	filter := service.PostFilter{Year: year}
	data := gin.H{"title": "归档", "currentYear": year}

	if rawMonth := c.Param("month"); rawMonth != "" {
		month, err := strconv.Atoi(rawMonth)
		if err != nil || month < 1 || month > 12 {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		filter.Month = month
		data["currentMonth"] = month
	}

	a.renderPostList(c, filter, data)
}

// ShowCategoryArchive lists published posts within a category.
func (a *API) ShowCategoryArchive(c *gin.Context) {
	slug := c.Param("slug")
	category, err := a.categories.GetBySlug(slug)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	a.renderPostList(c, service.PostFilter{CategorySlug: slug}, gin.H{
		"title":           category.Name,
		"currentCategory": category,
	})
}

// ShowTagArchive lists published posts carrying a tag.
func (a *API) ShowTagArchive(c *gin.Context) {
	slug := c.Param("slug")
	tag, err := a.tags.GetBySlug(slug)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	a.renderPostList(c, service.PostFilter{TagSlug: slug}, gin.H{
		"title":      tag.Name,
		"currentTag": tag,
	})
}

// ShowSeriesArchive lists a series' posts ordered by series position.
func (a *API) ShowSeriesArchive(c *gin.Context) {
	slug := c.Param("slug")
	series, err := a.series.GetBySlug(slug)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	a.renderPostList(c, service.PostFilter{SeriesSlug: slug}, gin.H{
		"title":         series.Name,
		"currentSeries": series,
	})
}

// ShowArchive renders all published posts grouped by year.
func (a *API) ShowArchive(c *gin.Context) {
	groups, err := a.posts.Archive()
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "archive.html", gin.H{
			"title": "归档",
			"error": "获取归档失败",
		})
		return
	}

	allTags, err := a.tags.PublishedUsage(0)
	if err != nil {
		allTags = nil
	}

	allSeries, err := a.series.PublishedUsage(0)
	if err != nil {
		allSeries = nil
	}

	a.renderHTML(c, http.StatusOK, "archive.html", gin.H{
		"title":     "归档",
		"groups":    groups,
		"allTags":   allTags,
		"allSeries": allSeries,
	})
}

// ShowSearch renders substring search results over published posts.
func (a *API) ShowSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		a.renderHTML(c, http.StatusOK, "search.html", gin.H{
			"title": "搜索",
			"query": "",
			"posts": nil,
		})
		return
	}

	a.renderPostListTemplate(c, "search.html", service.PostFilter{Search: query}, gin.H{
		"title": "搜索",
		"query": query,
	})
}

// ShowPostDetail renders a published post with comments and sidebar data.
func (a *API) ShowPostDetail(c *gin.Context) {
	post, err := a.posts.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	comments, err := a.comments.VisibleForPost(post.ID)
	if err != nil {
		comments = nil
	}

	commentCount, err := a.comments.CountVisible(post.ID)
	if err != nil {
		commentCount = 0
	}

	related, err := a.posts.Related(post, 4)
	if err != nil {
		related = nil
	}

	popular, err := a.posts.Popular(5)
	if err != nil {
		popular = nil
	}

	allTags, err := a.tags.PublishedUsage(0)
	if err != nil {
		allTags = nil
	}

	data := gin.H{
		"title":        post.Title,
		"post":         post,
		"content":      template.HTML(post.ContentHTML),
		"comments":     comments,
		"commentCount": commentCount,
		"related":      related,
		"popular":      popular,
		"allTags":      allTags,
	}

	if post.SeriesID != nil {
		seriesPosts, position, err := a.posts.SeriesPosition(post)
		if err == nil {
			data["seriesPosts"] = seriesPosts
			data["seriesPosition"] = position
		}
	}

	a.renderHTML(c, http.StatusOK, "post_detail.html", data)
}

// SubmitComment 处理访客评论提交：校验失败与成功都以闪存消息回跳详情页。
func (a *API) SubmitComment(c *gin.Context) {
	slug := c.Param("slug")
	post, err := a.posts.GetPublishedBySlug(slug)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	input := service.CommentInput{
		AuthorName:  c.PostForm("author_name"),
		AuthorEmail: c.PostForm("author_email"),
		AuthorURL:   c.PostForm("author_url"),
		Content:     c.PostForm("content"),
		IPAddress:   clientIP(c),
	}

	if rawParent := strings.TrimSpace(c.PostForm("parent_id")); rawParent != "" {
		parentID, err := strconv.ParseUint(rawParent, 10, 32)
		if err != nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		id := uint(parentID)
		input.ParentID = &id
	}

	if _, err := a.comments.Submit(post.ID, input); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentInvalid):
			addFlash(c, "请填写所有必填字段。")
		case errors.Is(err, service.ErrCommentNotFound), errors.Is(err, service.ErrCommentParent):
			c.AbortWithStatus(http.StatusNotFound)
			return
		default:
			addFlash(c, "评论提交失败，请稍后再试。")
		}
		c.Redirect(http.StatusFound, "/post/"+slug)
		return
	}

	addFlash(c, "评论已提交，等待审核通过后显示。")
	c.Redirect(http.StatusFound, "/post/"+slug)
}

// ShowAbout renders the about page.
func (a *API) ShowAbout(c *gin.Context) {
	popular, err := a.posts.Popular(5)
	if err != nil {
		popular = nil
	}

	page, err := a.pages.GetBySlug("about")
	if err != nil {
		a.renderHTML(c, http.StatusOK, "about.html", gin.H{
			"title":   "关于",
			"content": template.HTML("<p>暂无简介，稍后再来看看。</p>"),
			"popular": popular,
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "about.html", gin.H{
		"title":   page.Title,
		"page":    page,
		"content": template.HTML(page.ContentHTML),
		"popular": popular,
	})
}

// LikePost 点赞接口：目前只回显浏览量，没有独立的点赞计数。
func (a *API) LikePost(c *gin.Context) {
	rawID := strings.TrimSpace(c.PostForm("post_id"))
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false})
		return
	}

	post, err := a.posts.Get(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "likes": post.Views})
}

func (a *API) renderPostList(c *gin.Context, filter service.PostFilter, data gin.H) {
	a.renderPostListTemplate(c, "post_list.html", filter, data)
}

func (a *API) renderPostListTemplate(c *gin.Context, tmpl string, filter service.PostFilter, data gin.H) {
	filter.Page = parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	filter.PerPage = listPageSize

	posts, err := a.posts.ListPublished(filter)
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, tmpl, gin.H{
			"title": "文章列表",
			"error": "获取文章失败",
		})
		return
	}

	payload := gin.H{
		"posts":      posts.Posts,
		"total":      posts.Total,
		"page":       posts.Page,
		"totalPages": posts.TotalPages,
		"hasMore":    posts.Page < posts.TotalPages,
	}
	for key, value := range data {
		payload[key] = value
	}

	a.renderHTML(c, http.StatusOK, tmpl, payload)
}
