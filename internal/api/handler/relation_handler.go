package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/vidtube/internal/api/middleware"
	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/pkg/response"
)

// ToggleLike 点赞/取消点赞
// @Summary 切换点赞状态
// @Tags 关系链
// @Produce json
// @Param kind path string true "内容类型 video|tweet|comment"
// @Param target_id path string true "内容ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/likes/{kind}/{target_id} [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	kind := model.ContentKind(c.Param("kind"))
	targetID := c.Param("target_id")
	liked, err := h.relationService.ToggleLike(c.Request.Context(), identity.UserID, kind, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"liked": liked})
}

// ToggleSubscription 订阅/取消订阅
// @Summary 切换订阅状态
// @Tags 关系链
// @Produce json
// @Param channel_id path string true "频道ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/subscriptions/{channel_id} [post]
func (h *Handler) ToggleSubscription(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication")
		return
	}
	subscribed, err := h.relationService.ToggleSubscription(c.Request.Context(), identity.UserID, c.Param("channel_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"subscribed": subscribed})
}

// ListSubscribers 查询频道的订阅者
// @Summary 查询订阅者列表
// @Tags 关系链
// @Param channel_id path string true "频道ID"
// @Success 200 {object} response.Response
// @Router /api/v1/subscriptions/{channel_id}/subscribers [get]
func (h *Handler) ListSubscribers(c *gin.Context) {
	list, err := h.viewService.GetChannelSubscribers(c.Request.Context(), c.Param("channel_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"list": list})
}

// ListSubscribedChannels 查询用户订阅的频道
// @Summary 查询订阅的频道列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/users/{user_id}/subscriptions [get]
func (h *Handler) ListSubscribedChannels(c *gin.Context) {
	list, err := h.viewService.GetSubscribedChannels(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"list": list})
}
