package handler

import (
	"errors"
	"path/filepath"
	"strconv"
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

type VideoHandler struct {
	videoService  *service.VideoService
	searchService *service.SearchService
}

func NewVideoHandler(videoService *service.VideoService, searchService *service.SearchService) *VideoHandler {
	return &VideoHandler{videoService: videoService, searchService: searchService}
}

// List GET /api/v1/videos?page=&limit=&query=（公开，登录用户附带点赞状态）
func (h *VideoHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	query := strings.TrimSpace(c.Query("query"))
	currentUserID, _ := middleware.GetCurrentUserID(c)

	var data *dto.VideoListData
	var err error
	if query != "" {
		data, err = h.searchService.Search(query, page, pageSize, currentUserID)
	} else {
		data, err = h.videoService.List(page, pageSize, currentUserID)
	}
	if err != nil {
		logger.Error("List videos failed", zap.Error(err))
		response.InternalError(c, "获取视频列表失败")
		return
	}

	response.OK(c, "获取视频列表成功", data)
}

// Upload POST /api/v1/videos（multipart，视频和缩略图必传）
func (h *VideoHandler) Upload(c *gin.Context) {
	var req dto.VideoUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	videoHeader, err := c.FormFile("videoFile")
	if err != nil {
		response.BadRequest(c, "请上传视频文件")
		return
	}

	allowedFormats := map[string]bool{
		".mp4": true, ".avi": true, ".mov": true,
		".mkv": true, ".flv": true, ".webm": true,
	}
	ext := strings.ToLower(filepath.Ext(videoHeader.Filename))
	if !allowedFormats[ext] {
		response.BadRequest(c, "不支持的视频格式，支持: mp4, avi, mov, mkv, flv, webm")
		return
	}

	maxSize := config.GetUpload().MaxVideoSize()
	if videoHeader.Size == 0 || videoHeader.Size > maxSize {
		response.BadRequest(c, "视频大小无效")
		return
	}

	thumbHeader, err := c.FormFile("thumbnail")
	if err != nil {
		response.BadRequest(c, "请上传缩略图")
		return
	}

	thumbnail, closeThumb, err := openImageFile(thumbHeader)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer closeThumb()

	vf, err := videoHeader.Open()
	if err != nil {
		response.InternalError(c, "打开上传文件失败")
		return
	}
	defer vf.Close()

	contentType := videoHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/" + strings.TrimPrefix(ext, ".")
	}

	videoFile := &service.UploadFile{
		Reader:      vf,
		Size:        videoHeader.Size,
		ContentType: contentType,
		Ext:         ext,
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	info, err := h.videoService.Upload(c.Request.Context(), currentUserID, &req, videoFile, thumbnail)
	if err != nil {
		if errors.Is(err, service.ErrInvalidVideoFile) {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error("Upload video failed", zap.Int64("user_id", currentUserID), zap.Error(err))
		response.InternalError(c, "上传视频失败，请稍后重试")
		return
	}

	response.Created(c, "视频上传成功", info)
}

// GetDetail GET /api/v1/videos/:videoId
func (h *VideoHandler) GetDetail(c *gin.Context) {
	videoID, err := parseVideoID(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	info, err := h.videoService.GetDetail(videoID, currentUserID)
	if err != nil {
		handleVideoError(c, err)
		return
	}

	response.OK(c, "获取视频详情成功", info)
}

// IncrementView POST /api/v1/videos/:videoId/view
func (h *VideoHandler) IncrementView(c *gin.Context) {
	videoID, err := parseVideoID(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	if err := h.videoService.IncrementView(videoID, currentUserID); err != nil {
		handleVideoError(c, err)
		return
	}

	response.OK(c, "播放计数已更新", gin.H{"video_id": videoID})
}

// Delete DELETE /api/v1/videos/:videoId
func (h *VideoHandler) Delete(c *gin.Context) {
	videoID, err := parseVideoID(c)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	currentUserID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "无法获取用户信息")
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), videoID, currentUserID); err != nil {
		handleVideoError(c, err)
		return
	}

	response.OK(c, "视频删除成功", nil)
}

func parseVideoID(c *gin.Context) (int64, error) {
	videoID, err := strconv.ParseInt(c.Param("videoId"), 10, 64)
	if err != nil || videoID <= 0 {
		return 0, errors.New("invalid video id")
	}
	return videoID, nil
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

func handleVideoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVideoNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrVideoNoPermission):
		response.Forbidden(c, err.Error())
	default:
		logger.Error("Video operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
