package repository

import (
	"streamhub/internal/model"

	"gorm.io/gorm"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create 创建点赞记录
// 重复点赞会命中 (user_id, video_id) 唯一索引，返回 gorm.ErrDuplicatedKey
func (r *LikeRepository) Create(userID, videoID int64) (*model.Like, error) {
	like := &model.Like{UserID: userID, VideoID: videoID}
	if err := r.db.Create(like).Error; err != nil {
		return nil, err
	}
	return like, nil
}

// Delete 删除点赞记录，返回是否真的删除了
func (r *LikeRepository) Delete(userID, videoID int64) (bool, error) {
	result := r.db.Where("user_id = ? AND video_id = ?", userID, videoID).Delete(&model.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查点赞记录是否存在
func (r *LikeRepository) Exists(userID, videoID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).Count(&count).Error
	return count > 0, err
}

// DeleteByVideo 删除视频的全部点赞记录（删视频时级联清理）
func (r *LikeRepository) DeleteByVideo(videoID int64) error {
	return r.db.Where("video_id = ?", videoID).Delete(&model.Like{}).Error
}

// BatchCheckLiked 批量查询点赞状态
func (r *LikeRepository) BatchCheckLiked(userID int64, videoIDs []int64) (map[int64]bool, error) {
	if len(videoIDs) == 0 {
		return map[int64]bool{}, nil
	}

	var likedIDs []int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND video_id IN ?", userID, videoIDs).
		Pluck("video_id", &likedIDs).Error
	if err != nil {
		return nil, err
	}

	likedSet := make(map[int64]bool, len(likedIDs))
	for _, id := range likedIDs {
		likedSet[id] = true
	}

	result := make(map[int64]bool, len(videoIDs))
	for _, id := range videoIDs {
		result[id] = likedSet[id]
	}
	return result, nil
}
