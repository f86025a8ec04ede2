package repository

import (
	"streamhub/internal/model"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create 创建订阅关系
// 重复订阅会命中 (subscriber_id, channel_id) 唯一索引，返回 gorm.ErrDuplicatedKey
func (r *SubscriptionRepository) Create(subscriberID, channelID int64) (*model.Subscription, error) {
	sub := &model.Subscription{
		SubscriberID: subscriberID,
		ChannelID:    channelID,
	}
	if err := r.db.Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// Delete 删除订阅关系，返回是否真的删除了
func (r *SubscriptionRepository) Delete(subscriberID, channelID int64) (bool, error) {
	result := r.db.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&model.Subscription{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查订阅关系是否存在
func (r *SubscriptionRepository) Exists(subscriberID, channelID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	return count > 0, err
}

// CountByChannel 统计频道的订阅者数（实时计数）
func (r *SubscriptionRepository) CountByChannel(channelID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).Where("channel_id = ?", channelID).Count(&count).Error
	return count, err
}

// CountSubscribedTo 统计某用户订阅了多少个频道
func (r *SubscriptionRepository) CountSubscribedTo(subscriberID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).Where("subscriber_id = ?", subscriberID).Count(&count).Error
	return count, err
}

// channelCount GROUP BY 查询的扫描结构
type channelCount struct {
	ChannelID int64
	Total     int64
}

// CountByChannels 批量统计多个频道的订阅者数（单次 GROUP BY，避免逐视频查询）
func (r *SubscriptionRepository) CountByChannels(channelIDs []int64) (map[int64]int64, error) {
	if len(channelIDs) == 0 {
		return map[int64]int64{}, nil
	}

	var rows []channelCount
	err := r.db.Model(&model.Subscription{}).
		Select("channel_id, COUNT(*) AS total").
		Where("channel_id IN ?", channelIDs).
		Group("channel_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[int64]int64, len(channelIDs))
	for _, id := range channelIDs {
		result[id] = 0
	}
	for _, row := range rows {
		result[row.ChannelID] = row.Total
	}
	return result, nil
}
