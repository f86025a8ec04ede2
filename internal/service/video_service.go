package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"streamhub/internal/api/dto"
	"streamhub/internal/config"
	infraKafka "streamhub/internal/infra/kafka"
	infraMinio "streamhub/internal/infra/minio"
	"streamhub/internal/media"
	"streamhub/internal/model"
	"streamhub/internal/repository"
	"streamhub/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrVideoNotFound     = errors.New("视频不存在")
	ErrVideoNoPermission = errors.New("没有权限操作该视频")
	ErrInvalidVideoFile  = errors.New("无效的视频文件")
)

type VideoService struct {
	videoRepo   *repository.VideoRepository
	subRepo     *repository.SubscriptionRepository
	likeRepo    *repository.LikeRepository
	historyRepo *repository.HistoryRepository
}

func NewVideoService(videoRepo *repository.VideoRepository, subRepo *repository.SubscriptionRepository, likeRepo *repository.LikeRepository, historyRepo *repository.HistoryRepository) *VideoService {
	return &VideoService{videoRepo: videoRepo, subRepo: subRepo, likeRepo: likeRepo, historyRepo: historyRepo}
}

// List 获取已发布视频列表，按 views DESC, created_at DESC 排序
func (s *VideoService) List(page, pageSize int, viewerID int64) (*dto.VideoListData, error) {
	skip := (page - 1) * pageSize
	videos, total, err := s.videoRepo.ListPublished(skip, pageSize, nil, true)
	if err != nil {
		return nil, err
	}
	return s.BuildListData(videos, total, page, pageSize, viewerID)
}

// BuildListData 组装列表响应：作者简要信息 + 按页批量统计的订阅数，
// 登录用户（viewerID > 0）额外批量标注每条视频的点赞状态
func (s *VideoService) BuildListData(videos []model.Video, total int64, page, pageSize int, viewerID int64) (*dto.VideoListData, error) {
	ownerIDs := make([]int64, 0, len(videos))
	videoIDs := make([]int64, 0, len(videos))
	seen := make(map[int64]bool, len(videos))
	for i := range videos {
		videoIDs = append(videoIDs, videos[i].ID)
		if !seen[videos[i].OwnerID] {
			seen[videos[i].OwnerID] = true
			ownerIDs = append(ownerIDs, videos[i].OwnerID)
		}
	}

	// 一次 GROUP BY 查询统计全页作者的订阅数，避免每条视频一次 COUNT
	subCounts, err := s.subRepo.CountByChannels(ownerIDs)
	if err != nil {
		return nil, err
	}

	items := make([]dto.VideoInfo, 0, len(videos))
	for i := range videos {
		info := toVideoInfo(&videos[i], true)
		if info.Owner != nil {
			info.Owner.SubscriberCount = subCounts[videos[i].OwnerID]
		}
		items = append(items, *info)
	}

	if viewerID > 0 && len(videoIDs) > 0 {
		likedSet, err := s.likeRepo.BatchCheckLiked(viewerID, videoIDs)
		if err != nil {
			return nil, err
		}
		applyLikedFlags(items, likedSet)
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)

	return &dto.VideoListData{
		Videos:     items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// applyLikedFlags 按批量查询结果标注每条视频的点赞状态
func applyLikedFlags(items []dto.VideoInfo, liked map[int64]bool) {
	for i := range items {
		isLiked := liked[items[i].ID]
		items[i].IsLiked = &isLiked
	}
}

// Upload 上传视频：临时落盘探测时长，视频和缩略图上传 MinIO，发布时投递 Kafka 事件
func (s *VideoService) Upload(ctx context.Context, ownerID int64, req *dto.VideoUploadRequest, videoFile *UploadFile, thumbnail *UploadFile) (*dto.VideoInfo, error) {
	tempDir := config.GetUpload().TempDir
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建临时目录失败: %w", err)
	}

	// 先注册清理，半途失败的暂存文件同样要删掉
	tempPath := filepath.Join(tempDir, uuid.NewString()+videoFile.Ext)
	defer os.Remove(tempPath)

	if err := stageToFile(tempPath, videoFile.Reader); err != nil {
		return nil, fmt.Errorf("暂存视频文件失败: %w", err)
	}

	probe, err := media.ProbeVideo(tempPath)
	if err != nil {
		logger.Warn("Probe video failed", zap.String("path", tempPath), zap.Error(err))
		return nil, ErrInvalidVideoFile
	}

	uploadCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	videoObject := fmt.Sprintf("%d/%s%s", ownerID, uuid.NewString(), videoFile.Ext)
	videoURL, err := infraMinio.UploadLocalFile(uploadCtx, infraMinio.VideoBucket, videoObject, tempPath, videoFile.ContentType)
	if err != nil {
		return nil, fmt.Errorf("上传视频失败: %w", err)
	}

	thumbObject := fmt.Sprintf("%d/%s%s", ownerID, uuid.NewString(), thumbnail.Ext)
	thumbnailURL, err := infraMinio.UploadFile(uploadCtx, infraMinio.ThumbnailBucket, thumbObject, thumbnail.Reader, thumbnail.Size, thumbnail.ContentType)
	if err != nil {
		return nil, fmt.Errorf("上传缩略图失败: %w", err)
	}

	isPublished := true
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}

	video := &model.Video{
		OwnerID:      ownerID,
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     probe.Duration,
		IsPublished:  isPublished,
	}

	if err := s.videoRepo.Create(video); err != nil {
		return nil, err
	}

	if isPublished {
		s.emitVideoEvent(ctx, infraKafka.EventVideoPublished, video.ID, ownerID)
	}

	return toVideoInfo(video, false), nil
}

// GetDetail 获取视频详情，登录用户附带点赞/订阅状态
func (s *VideoService) GetDetail(videoID, currentUserID int64) (*dto.VideoInfo, error) {
	video, err := s.videoRepo.GetByIDWithOwner(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	// 未发布视频仅作者本人可见
	if !video.IsPublished && video.OwnerID != currentUserID {
		return nil, ErrVideoNotFound
	}

	info := toVideoInfo(video, true)

	if info.Owner != nil {
		subscriberCount, err := s.subRepo.CountByChannel(video.OwnerID)
		if err != nil {
			return nil, err
		}
		info.Owner.SubscriberCount = subscriberCount
	}

	if currentUserID > 0 {
		liked, err := s.likeRepo.Exists(currentUserID, videoID)
		if err != nil {
			return nil, err
		}
		subscribed, err := s.subRepo.Exists(currentUserID, video.OwnerID)
		if err != nil {
			return nil, err
		}
		info.IsLiked = &liked
		info.IsSubscribed = &subscribed
	}

	return info, nil
}

// IncrementView 播放计数 +1（单语句原子更新），登录用户同时记录观看历史
func (s *VideoService) IncrementView(videoID, currentUserID int64) error {
	if err := s.videoRepo.IncrementViews(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	if currentUserID > 0 {
		if err := s.historyRepo.Create(currentUserID, videoID); err != nil {
			logger.Error("Record watch history failed",
				zap.Int64("user_id", currentUserID), zap.Int64("video_id", videoID), zap.Error(err))
		}
	}

	return nil
}

// Delete 删除视频（仅作者本人），清理点赞和历史记录并投递删除事件
func (s *VideoService) Delete(ctx context.Context, videoID, currentUserID int64) error {
	video, err := s.videoRepo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	if video.OwnerID != currentUserID {
		return ErrVideoNoPermission
	}

	if err := s.videoRepo.Delete(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	if err := s.likeRepo.DeleteByVideo(videoID); err != nil {
		logger.Error("Cleanup likes failed", zap.Int64("video_id", videoID), zap.Error(err))
	}
	if err := s.historyRepo.DeleteByVideo(videoID); err != nil {
		logger.Error("Cleanup watch history failed", zap.Int64("video_id", videoID), zap.Error(err))
	}

	removeStoredObject(ctx, infraMinio.VideoBucket, video.VideoURL)
	removeStoredObject(ctx, infraMinio.ThumbnailBucket, video.ThumbnailURL)

	s.emitVideoEvent(ctx, infraKafka.EventVideoDeleted, videoID, video.OwnerID)

	return nil
}

// emitVideoEvent 投递视频生命周期事件，失败只记录日志，索引同步最终一致
func (s *VideoService) emitVideoEvent(ctx context.Context, event string, videoID, ownerID int64) {
	topic := config.GetKafka().Topics["video_events"]

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	e := &infraKafka.VideoEvent{Event: event, VideoID: videoID, OwnerID: ownerID}
	if err := infraKafka.SendVideoEvent(sendCtx, topic, e); err != nil {
		logger.Error("Send video event failed",
			zap.String("event", event), zap.Int64("video_id", videoID), zap.Error(err))
	}
}

func stageToFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, r)
	return err
}

// removeStoredObject 按公开 URL 反推对象名并删除，删除失败只记录日志
func removeStoredObject(ctx context.Context, bucket, rawURL string) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return
	}

	prefix := "/" + bucket + "/"
	idx := len(prefix)
	if len(u.Path) <= idx || u.Path[:idx] != prefix {
		return
	}
	objectName := u.Path[idx:]

	rmCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := infraMinio.RemoveObject(rmCtx, bucket, objectName); err != nil {
		logger.Error("Remove stored object failed",
			zap.String("bucket", bucket), zap.String("object", path.Base(objectName)), zap.Error(err))
	}
}

// toVideoInfo 将 model.Video 转换为 dto.VideoInfo
func toVideoInfo(video *model.Video, includeOwner bool) *dto.VideoInfo {
	info := &dto.VideoInfo{
		ID:           video.ID,
		OwnerID:      video.OwnerID,
		Title:        video.Title,
		Description:  video.Description,
		VideoURL:     video.VideoURL,
		ThumbnailURL: video.ThumbnailURL,
		Duration:     video.Duration,
		IsPublished:  video.IsPublished,
		Views:        video.Views,
		Likes:        video.Likes,
		CreatedAt:    video.CreatedAt,
	}

	if includeOwner && video.Owner.ID != 0 {
		info.Owner = &dto.OwnerBrief{
			ID:              video.Owner.ID,
			Username:        video.Owner.Username,
			FullName:        video.Owner.FullName,
			Avatar:          video.Owner.Avatar,
			SubscriberCount: video.Owner.SubscriberCount,
		}
	}

	return info
}
