package service

import (
	"errors"

	"streamhub/internal/api/dto"
	"streamhub/internal/model"

	"gorm.io/gorm"
)

var (
	ErrChannelNotFound   = errors.New("频道不存在")
	ErrSelfSubscribe     = errors.New("不能订阅自己")
	ErrAlreadySubscribed = errors.New("已订阅该频道")
)

// SubscriptionStore 订阅关系存储，重复创建时需返回 gorm.ErrDuplicatedKey
type SubscriptionStore interface {
	Create(subscriberID, channelID int64) (*model.Subscription, error)
	Delete(subscriberID, channelID int64) (bool, error)
	Exists(subscriberID, channelID int64) (bool, error)
	CountByChannel(channelID int64) (int64, error)
}

// ChannelStore 订阅服务依赖的用户读取与订阅数维护能力
type ChannelStore interface {
	GetByID(id int64) (*model.User, error)
	IncrementSubscriberCount(id int64) error
	DecrementSubscriberCount(id int64) error
}

type SubscriptionService struct {
	subRepo  SubscriptionStore
	userRepo ChannelStore
}

func NewSubscriptionService(subRepo SubscriptionStore, userRepo ChannelStore) *SubscriptionService {
	return &SubscriptionService{subRepo: subRepo, userRepo: userRepo}
}

// Subscribe 订阅频道，唯一约束拦截重复订阅，成功后原子递增订阅数
func (s *SubscriptionService) Subscribe(subscriberID, channelID int64) error {
	if subscriberID == channelID {
		return ErrSelfSubscribe
	}

	if _, err := s.userRepo.GetByID(channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChannelNotFound
		}
		return err
	}

	if _, err := s.subRepo.Create(subscriberID, channelID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadySubscribed
		}
		return err
	}

	if err := s.userRepo.IncrementSubscriberCount(channelID); err != nil {
		return err
	}

	return nil
}

// Unsubscribe 取消订阅，未订阅时为幂等空操作
func (s *SubscriptionService) Unsubscribe(subscriberID, channelID int64) error {
	deleted, err := s.subRepo.Delete(subscriberID, channelID)
	if err != nil {
		return err
	}

	if deleted {
		if err := s.userRepo.DecrementSubscriberCount(channelID); err != nil {
			return err
		}
	}

	return nil
}

// Total 频道订阅总数，实时统计关联表
func (s *SubscriptionService) Total(channelID int64) (*dto.SubscriptionTotalData, error) {
	if _, err := s.userRepo.GetByID(channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}

	count, err := s.subRepo.CountByChannel(channelID)
	if err != nil {
		return nil, err
	}

	return &dto.SubscriptionTotalData{
		ChannelID:       channelID,
		SubscriberCount: count,
	}, nil
}

// Status 当前用户对频道的订阅状态
func (s *SubscriptionService) Status(subscriberID, channelID int64) (*dto.SubscriptionStatusData, error) {
	exists, err := s.subRepo.Exists(subscriberID, channelID)
	if err != nil {
		return nil, err
	}

	return &dto.SubscriptionStatusData{
		ChannelID:    channelID,
		IsSubscribed: exists,
	}, nil
}
