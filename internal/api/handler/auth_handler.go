package handler

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"streamhub/internal/api/dto"
	"streamhub/internal/api/middleware"
	"streamhub/internal/api/response"
	"streamhub/internal/config"
	"streamhub/internal/service"
	"streamhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register POST /api/v1/users/register（multipart，头像必传）
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
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

	var cover *service.UploadFile
	if coverHeader, err := c.FormFile("coverImg"); err == nil {
		file, closeCover, err := openImageFile(coverHeader)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		defer closeCover()
		cover = file
	}

	userInfo, err := h.authService.Register(c.Request.Context(), &req, avatar, cover)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			response.Conflict(c, err.Error())
			return
		}
		logger.Error("Register failed", zap.Error(err))
		response.InternalError(c, "注册失败，请稍后重试")
		return
	}

	response.Created(c, "注册成功", userInfo)
}

// Login POST /api/v1/users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}
	if req.Email == "" && req.Username == "" {
		response.BadRequest(c, "请提供用户名或邮箱")
		return
	}

	tokenData, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredential) {
			response.Unauthorized(c, err.Error())
			return
		}
		logger.Error("Login failed", zap.Error(err))
		response.InternalError(c, "登录失败，请稍后重试")
		return
	}

	setAuthCookies(c, tokenData)
	response.OK(c, "登录成功", tokenData)
}

// Logout POST /api/v1/users/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		logger.Error("Logout failed", zap.Int64("user_id", userID), zap.Error(err))
		response.InternalError(c, "登出失败，请稍后重试")
		return
	}

	clearAuthCookies(c)
	response.OK(c, "登出成功", nil)
}

// RefreshToken POST /api/v1/users/refresh-token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, _ := c.Cookie(middleware.CookieRefreshToken)
	if refreshToken == "" {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		response.Unauthorized(c, "缺少刷新令牌")
		return
	}

	tokenData, err := h.authService.RefreshTokens(c.Request.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) || errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(c, "无效或过期的刷新令牌")
			return
		}
		logger.Error("Refresh token failed", zap.Error(err))
		response.InternalError(c, "刷新令牌失败，请稍后重试")
		return
	}

	setAuthCookies(c, tokenData)
	response.OK(c, "令牌刷新成功", tokenData)
}

// ChangePassword POST /api/v1/users/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	if err := h.authService.ChangePassword(userID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrOldPasswordWrong):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.Unauthorized(c, err.Error())
		default:
			logger.Error("Change password failed", zap.Int64("user_id", userID), zap.Error(err))
			response.InternalError(c, "修改密码失败，请稍后重试")
		}
		return
	}

	response.OK(c, "密码修改成功", nil)
}

// CurrentUser GET /api/v1/users/current-user
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	userInfo, err := h.authService.GetCurrentUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(c, err.Error())
			return
		}
		logger.Error("Get current user failed", zap.Int64("user_id", userID), zap.Error(err))
		response.InternalError(c, "获取用户信息失败")
		return
	}

	response.OK(c, "获取成功", userInfo)
}

// setAuthCookies 写入 httpOnly + secure 的令牌 Cookie 对
func setAuthCookies(c *gin.Context, tokenData *dto.TokenData) {
	jwtCfg := config.GetJWT()
	c.SetCookie(middleware.CookieAccessToken, tokenData.AccessToken,
		int(jwtCfg.AccessExpireDuration().Seconds()), "/", "", true, true)
	c.SetCookie(middleware.CookieRefreshToken, tokenData.RefreshToken,
		int(jwtCfg.RefreshExpireDuration().Seconds()), "/", "", true, true)
}

func clearAuthCookies(c *gin.Context) {
	c.SetCookie(middleware.CookieAccessToken, "", -1, "/", "", true, true)
	c.SetCookie(middleware.CookieRefreshToken, "", -1, "/", "", true, true)
}

// openImageFile 打开 multipart 图片文件并校验格式和大小
func openImageFile(header *multipart.FileHeader) (*service.UploadFile, func(), error) {
	allowedExts := map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExts[ext] {
		return nil, nil, errors.New("不支持的图片格式，支持: jpg, jpeg, png, webp, gif")
	}

	maxSize := config.GetUpload().MaxImageSize()
	if header.Size == 0 || header.Size > maxSize {
		return nil, nil, errors.New("图片大小无效")
	}

	f, err := header.Open()
	if err != nil {
		return nil, nil, errors.New("打开上传文件失败")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/" + strings.TrimPrefix(ext, ".")
	}

	return &service.UploadFile{
		Reader:      f,
		Size:        header.Size,
		ContentType: contentType,
		Ext:         ext,
	}, func() { f.Close() }, nil
}
