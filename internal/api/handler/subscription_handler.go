package handler

import (
	"errors"
	"strconv"

	"streamhub/internal/api/dto"
	"streamhub/internal/api/middleware"
	"streamhub/internal/api/response"
	"streamhub/internal/service"
	"streamhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	subService *service.SubscriptionService
}

func NewSubscriptionHandler(subService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService}
}

// Subscribe POST /api/v1/subscribe
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	if err := h.subService.Subscribe(userID, req.ChannelID); err != nil {
		handleSubscriptionError(c, err)
		return
	}

	response.Created(c, "订阅成功", gin.H{"channel_id": req.ChannelID})
}

// Unsubscribe DELETE /api/v1/subscribe/:channelId
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	channelID, err := parseChannelID(c)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	if err := h.subService.Unsubscribe(userID, channelID); err != nil {
		handleSubscriptionError(c, err)
		return
	}

	response.OK(c, "已取消订阅", gin.H{"channel_id": channelID})
}

// Total GET /api/v1/subscriptions/total/:channelId
func (h *SubscriptionHandler) Total(c *gin.Context) {
	channelID, err := parseChannelID(c)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	data, err := h.subService.Total(channelID)
	if err != nil {
		handleSubscriptionError(c, err)
		return
	}

	response.OK(c, "获取订阅总数成功", data)
}

// Status GET /api/v1/subscriptions/status/:channelId
func (h *SubscriptionHandler) Status(c *gin.Context) {
	channelID, err := parseChannelID(c)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	data, err := h.subService.Status(userID, channelID)
	if err != nil {
		handleSubscriptionError(c, err)
		return
	}

	response.OK(c, "获取订阅状态成功", data)
}

func parseChannelID(c *gin.Context) (int64, error) {
	channelID, err := strconv.ParseInt(c.Param("channelId"), 10, 64)
	if err != nil || channelID <= 0 {
		return 0, errors.New("invalid channel id")
	}
	return channelID, nil
}

func handleSubscriptionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSelfSubscribe):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrAlreadySubscribed):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrChannelNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Subscription operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
