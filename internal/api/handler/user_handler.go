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

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateAccount PUT /api/v1/users/update-account
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	userInfo, err := h.userService.UpdateAccount(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.Unauthorized(c, err.Error())
		case errors.Is(err, service.ErrUserExists):
			response.Conflict(c, err.Error())
		default:
			logger.Error("Update account failed", zap.Int64("user_id", userID), zap.Error(err))
			response.InternalError(c, "更新账户信息失败")
		}
		return
	}

	response.OK(c, "账户信息更新成功", userInfo)
}

// UpdateAvatar PATCH /api/v1/users/avatar（multipart）
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	avatarHeader, err := c.FormFile("avatar")
	if err != nil {
		response.BadRequest(c, "请上传头像")
		return
	}

	avatar, closeAvatar, err := openImageFile(avatarHeader)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer closeAvatar()

	userInfo, err := h.userService.UpdateAvatar(c.Request.Context(), userID, avatar)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(c, err.Error())
			return
		}
		logger.Error("Update avatar failed", zap.Int64("user_id", userID), zap.Error(err))
		response.InternalError(c, "更新头像失败")
		return
	}

	response.OK(c, "头像更新成功", userInfo)
}

// GetChannelProfile GET /api/v1/users/c/:username
func (h *UserHandler) GetChannelProfile(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		response.BadRequest(c, "无效的用户名")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	profile, err := h.userService.GetChannelProfile(username, currentUserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		logger.Error("Get channel profile failed", zap.String("username", username), zap.Error(err))
		response.InternalError(c, "获取频道信息失败")
		return
	}

	response.OK(c, "获取频道信息成功", profile)
}

// GetWatchHistory GET /api/v1/users/history
func (h *UserHandler) GetWatchHistory(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	page, pageSize := parsePagination(c)

	data, err := h.userService.GetWatchHistory(userID, page, pageSize)
	if err != nil {
		logger.Error("Get watch history failed", zap.Int64("user_id", userID), zap.Error(err))
		response.InternalError(c, "获取观看历史失败")
		return
	}

	response.OK(c, "获取观看历史成功", data)
}
