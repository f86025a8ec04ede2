package repository

import (
	"streamhub/internal/model"

	"gorm.io/gorm"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create 写入一条观看记录
func (r *HistoryRepository) Create(userID, videoID int64) error {
	return r.db.Create(&model.WatchHistory{UserID: userID, VideoID: videoID}).Error
}

// ListByUser 获取用户的观看历史（最近优先，含视频及其所有者）
func (r *HistoryRepository) ListByUser(userID int64, skip, limit int) ([]model.WatchHistory, int64, error) {
	query := r.db.Model(&model.WatchHistory{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.WatchHistory
	err := query.Preload("Video").Preload("Video.Owner").
		Order("watched_at DESC").
		Offset(skip).Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// DeleteByVideo 删除视频的全部观看记录（删视频时级联清理）
func (r *HistoryRepository) DeleteByVideo(videoID int64) error {
	return r.db.Where("video_id = ?", videoID).Delete(&model.WatchHistory{}).Error
}
