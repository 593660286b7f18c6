package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidtube/internal/api/middleware"
	"github.com/d60-Lab/vidtube/pkg/response"
)

const (
	defaultCommentLimit = 10
	defaultTweetLimit   = 30
	defaultVideoLimit   = 10
)

// ChannelProfile 频道主页（匿名可访问，is_subscribed 恒为 false）
// @Summary 频道主页
// @Tags 视图
// @Param username path string true "频道用户名"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/channels/{username} [get]
func (h *Handler) ChannelProfile(c *gin.Context) {
	viewerID := ""
	if identity, ok := middleware.Identity(c); ok {
		viewerID = identity.UserID
	}
	profile, err := h.viewService.GetChannelProfile(c.Request.Context(), viewerID, c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

// LikedVideos 当前用户点赞过的视频，按点赞时间倒序
// @Summary 点赞的视频
// @Tags 视图
// @Success 200 {object} response.Response
// @Router /api/v1/likes/videos [get]
func (h *Handler) LikedVideos(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	list, err := h.viewService.GetLikedVideos(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"list": list})
}

// TweetFeed 某用户的动态流
// @Summary 动态流
// @Tags 视图
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(30)
// @Success 200 {object} response.Response
// @Router /api/v1/users/{user_id}/tweets [get]
func (h *Handler) TweetFeed(c *gin.Context) {
	page, limit, err := pageParams(c, defaultTweetLimit)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	feed, err := h.viewService.GetTweetFeed(c.Request.Context(), c.Param("user_id"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// ChannelVideos 某频道的视频列表；未发布的视频只有频道主自己能看到
// @Summary 频道视频列表
// @Tags 视图
// @Param user_id path string true "频道ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response
// @Router /api/v1/users/{user_id}/videos [get]
func (h *Handler) ChannelVideos(c *gin.Context) {
	viewerID := ""
	if identity, ok := middleware.Identity(c); ok {
		viewerID = identity.UserID
	}
	page, limit, err := pageParams(c, defaultVideoLimit)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	feed, err := h.viewService.GetChannelVideos(c.Request.Context(), viewerID, c.Param("user_id"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// VideoComments 某视频的评论流
// @Summary 评论流
// @Tags 视图
// @Param video_id path string true "视频ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response
// @Router /api/v1/videos/{video_id}/comments [get]
func (h *Handler) VideoComments(c *gin.Context) {
	page, limit, err := pageParams(c, defaultCommentLimit)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	feed, err := h.viewService.GetVideoComments(c.Request.Context(), c.Param("video_id"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// WatchHistory 当前用户观看历史，最近观看在前
// @Summary 观看历史
// @Tags 视图
// @Success 200 {object} response.Response
// @Router /api/v1/history [get]
func (h *Handler) WatchHistory(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	list, err := h.viewService.GetWatchHistory(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"list": list})
}

// pageParams 解析分页参数；缺省走默认值，显式给出的必须是正整数
func pageParams(c *gin.Context, defaultLimit int) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 0, 0, err
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}
