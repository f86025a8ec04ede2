package handler

import (
	"errors"

	"streamhub/internal/api/dto"
	"streamhub/internal/api/middleware"
	"streamhub/internal/api/response"
	"streamhub/internal/service"
	"streamhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// Set PUT /api/v1/like/:videoId（幂等设置点赞状态）
func (h *LikeHandler) Set(c *gin.Context) {
	videoID, err := parseVideoID(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	data, err := h.likeService.SetLike(userID, videoID, *req.Like)
	if err != nil {
		handleLikeError(c, err)
		return
	}

	response.OK(c, "点赞状态已更新", data)
}

// Toggle PATCH /api/v1/like/:videoId
func (h *LikeHandler) Toggle(c *gin.Context) {
	videoID, err := parseVideoID(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	data, err := h.likeService.Toggle(userID, videoID)
	if err != nil {
		handleLikeError(c, err)
		return
	}

	response.OK(c, "点赞状态已切换", data)
}

// Unlike DELETE /api/v1/like/:videoId
func (h *LikeHandler) Unlike(c *gin.Context) {
	videoID, err := parseVideoID(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	data, err := h.likeService.Unlike(userID, videoID)
	if err != nil {
		handleLikeError(c, err)
		return
	}

	response.OK(c, "已取消点赞", data)
}

func handleLikeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVideoNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Like operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
