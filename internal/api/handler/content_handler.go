package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidtube/internal/api/middleware"
	"github.com/d60-Lab/vidtube/pkg/response"
)

type publishVideoRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	VideoURL    string  `json:"video_url" binding:"required"`
	Thumbnail   string  `json:"thumbnail" binding:"required"`
	Duration    float64 `json:"duration"`
}

// PublishVideo 发布视频元数据（媒体文件已由上传层处理）
// @Summary 发布视频
// @Tags 内容
// @Accept json
// @Produce json
// @Param request body publishVideoRequest true "视频信息"
// @Success 200 {object} response.Response
// @Router /api/v1/videos [post]
func (h *Handler) PublishVideo(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	var req publishVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	v, err := h.contentService.PublishVideo(c.Request.Context(), identity,
		req.Title, req.Description, req.VideoURL, req.Thumbnail, req.Duration)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, v)
}

// WatchVideo 播放视频：返回元数据、自增播放数、记录观看历史
// @Summary 播放视频
// @Tags 内容
// @Param video_id path string true "视频ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/videos/{video_id} [get]
func (h *Handler) WatchVideo(c *gin.Context) {
	viewerID := ""
	if identity, ok := middleware.Identity(c); ok {
		viewerID = identity.UserID
	}
	v, err := h.contentService.WatchVideo(c.Request.Context(), viewerID, c.Param("video_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, v)
}

type updateVideoRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Thumbnail   string `json:"thumbnail"`
}

// UpdateVideo 编辑视频元数据（仅限作者）
// @Summary 编辑视频
// @Tags 内容
// @Accept json
// @Produce json
// @Param video_id path string true "视频ID"
// @Param request body updateVideoRequest true "新元数据"
// @Success 200 {object} response.Response
// @Router /api/v1/videos/{video_id} [put]
func (h *Handler) UpdateVideo(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	var req updateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	v, err := h.contentService.UpdateVideo(c.Request.Context(), identity,
		c.Param("video_id"), req.Title, req.Description, req.Thumbnail)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, v)
}

// TogglePublish 翻转视频发布状态（仅限作者）
// @Summary 切换发布状态
// @Tags 内容
// @Param video_id path string true "视频ID"
// @Success 200 {object} response.Response
// @Router /api/v1/videos/{video_id}/publish [patch]
func (h *Handler) TogglePublish(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	published, err := h.contentService.TogglePublishStatus(c.Request.Context(), identity, c.Param("video_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"is_published": published})
}

// DeleteVideo 删除视频（仅限作者）
// @Summary 删除视频
// @Tags 内容
// @Param video_id path string true "视频ID"
// @Success 200 {object} response.Response
// @Router /api/v1/videos/{video_id} [delete]
func (h *Handler) DeleteVideo(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	if err := h.contentService.DeleteVideo(c.Request.Context(), identity, c.Param("video_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

type contentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateTweet 发布动态
// @Summary 发布动态
// @Tags 内容
// @Accept json
// @Produce json
// @Param request body contentRequest true "动态内容"
// @Success 200 {object} response.Response
// @Router /api/v1/tweets [post]
func (h *Handler) CreateTweet(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.contentService.CreateTweet(c.Request.Context(), identity, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, t)
}

// UpdateTweet 编辑动态（仅限作者）
// @Summary 编辑动态
// @Tags 内容
// @Param tweet_id path string true "动态ID"
// @Param request body contentRequest true "新内容"
// @Success 200 {object} response.Response
// @Router /api/v1/tweets/{tweet_id} [put]
func (h *Handler) UpdateTweet(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.contentService.UpdateTweet(c.Request.Context(), identity, c.Param("tweet_id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, t)
}

// DeleteTweet 删除动态（仅限作者）
// @Summary 删除动态
// @Tags 内容
// @Param tweet_id path string true "动态ID"
// @Success 200 {object} response.Response
// @Router /api/v1/tweets/{tweet_id} [delete]
func (h *Handler) DeleteTweet(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	if err := h.contentService.DeleteTweet(c.Request.Context(), identity, c.Param("tweet_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// AddComment 评论视频
// @Summary 发布评论
// @Tags 内容
// @Param video_id path string true "视频ID"
// @Param request body contentRequest true "评论内容"
// @Success 200 {object} response.Response
// @Router /api/v1/videos/{video_id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cm, err := h.contentService.AddComment(c.Request.Context(), identity, c.Param("video_id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cm)
}

// UpdateComment 编辑评论（仅限作者）
// @Summary 编辑评论
// @Tags 内容
// @Param comment_id path string true "评论ID"
// @Param request body contentRequest true "新内容"
// @Success 200 {object} response.Response
// @Router /api/v1/comments/{comment_id} [put]
func (h *Handler) UpdateComment(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cm, err := h.contentService.UpdateComment(c.Request.Context(), identity, c.Param("comment_id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cm)
}

// DeleteComment 删除评论（仅限作者）
// @Summary 删除评论
// @Tags 内容
// @Param comment_id path string true "评论ID"
// @Success 200 {object} response.Response
// @Router /api/v1/comments/{comment_id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	if err := h.contentService.DeleteComment(c.Request.Context(), identity, c.Param("comment_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
