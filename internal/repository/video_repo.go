package repository

import (
	"streamhub/internal/model"

	"gorm.io/gorm"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create 创建视频记录
func (r *VideoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

// GetByID 根据 ID 获取视频
func (r *VideoRepository) GetByID(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDWithOwner 根据 ID 获取视频（含所有者信息）
func (r *VideoRepository) GetByIDWithOwner(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Preload("Owner").First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDsWithOwner 批量查询视频（含所有者信息，搜索结果回表用）
func (r *VideoRepository) GetByIDsWithOwner(ids []int64) ([]model.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var videos []model.Video
	err := r.db.Preload("Owner").Where("id IN ?", ids).Find(&videos).Error
	return videos, err
}

// Delete 删除视频记录
func (r *VideoRepository) Delete(id int64) error {
	result := r.db.Delete(&model.Video{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListPublished 已发布视频列表（分页、可选模糊搜索）
// 无搜索词时按 播放量 DESC, 创建时间 DESC 排序；有搜索词时同样排序（相关度排序走 ES）
func (r *VideoRepository) ListPublished(skip, limit int, search *string, withOwner bool) ([]model.Video, int64, error) {
	query := r.db.Model(&model.Video{}).Where("is_published = ?", true)

	if search != nil && *search != "" {
		query = query.Where("title ILIKE ? OR description ILIKE ?", "%"+*search+"%", "%"+*search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	findQuery := query.Order("views DESC, created_at DESC").Offset(skip).Limit(limit)
	if withOwner {
		findQuery = findQuery.Preload("Owner")
	}

	var videos []model.Video
	if err := findQuery.Find(&videos).Error; err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

// IncrementViews 播放量 +1（单语句原子更新，并发安全）
func (r *VideoRepository) IncrementViews(id int64) error {
	result := r.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementLikes 点赞数 +1
func (r *VideoRepository) IncrementLikes(id int64) error {
	return r.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
}

// DecrementLikes 点赞数 -1（不低于 0）
func (r *VideoRepository) DecrementLikes(id int64) error {
	return r.db.Model(&model.Video{}).Where("id = ? AND likes > 0", id).
		UpdateColumn("likes", gorm.Expr("likes - 1")).Error
}
