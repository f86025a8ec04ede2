package service

import (
	"context"
	"errors"
	"fmt"

	"streamhub/internal/api/dto"
	"streamhub/internal/repository"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo    *repository.UserRepository
	subRepo     *repository.SubscriptionRepository
	historyRepo *repository.HistoryRepository
}

func NewUserService(userRepo *repository.UserRepository, subRepo *repository.SubscriptionRepository, historyRepo *repository.HistoryRepository) *UserService {
	return &UserService{userRepo: userRepo, subRepo: subRepo, historyRepo: historyRepo}
}

// UpdateAccount 更新账户信息（全名/邮箱）
func (s *UserService) UpdateAccount(userID int64, req *dto.UpdateAccountRequest) (*dto.UserInfo, error) {
	updates := make(map[string]interface{})
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}

	if len(updates) == 0 {
		user, err := s.userRepo.GetByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		return ToUserInfo(user), nil
	}

	user, err := s.userRepo.Update(userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return ToUserInfo(user), nil
}

// UpdateAvatar 更换头像
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, avatar *UploadFile) (*dto.UserInfo, error) {
	avatarURL, err := uploadImage(ctx, avatar)
	if err != nil {
		return nil, fmt.Errorf("上传头像失败: %w", err)
	}

	user, err := s.userRepo.Update(userID, map[string]interface{}{"avatar": avatarURL})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return ToUserInfo(user), nil
}

// GetChannelProfile 获取频道主页，订阅数实时统计，附带当前用户的订阅状态
func (s *UserService) GetChannelProfile(username string, currentUserID int64) (*dto.ChannelProfile, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	subscriberCount, err := s.subRepo.CountByChannel(user.ID)
	if err != nil {
		return nil, err
	}

	subscribedTo, err := s.subRepo.CountSubscribedTo(user.ID)
	if err != nil {
		return nil, err
	}

	isSubscribed := false
	if currentUserID > 0 && currentUserID != user.ID {
		isSubscribed, err = s.subRepo.Exists(currentUserID, user.ID)
		if err != nil {
			return nil, err
		}
	}

	return &dto.ChannelProfile{
		ID:              user.ID,
		Username:        user.Username,
		FullName:        user.FullName,
		Avatar:          user.Avatar,
		CoverImage:      user.CoverImage,
		SubscriberCount: subscriberCount,
		SubscribedTo:    subscribedTo,
		IsSubscribed:    isSubscribed,
	}, nil
}

// GetWatchHistory 获取观看历史，按观看时间倒序，条目附带视频及作者简要信息
func (s *UserService) GetWatchHistory(userID int64, page, pageSize int) (*dto.WatchHistoryData, error) {
	skip := (page - 1) * pageSize
	records, _, err := s.historyRepo.ListByUser(userID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.WatchHistoryEntry, 0, len(records))
	for i := range records {
		r := &records[i]
		info := toVideoInfo(&r.Video, true)
		entries = append(entries, dto.WatchHistoryEntry{
			ID:        r.ID,
			WatchedAt: r.WatchedAt,
			Video:     *info,
		})
	}

	return &dto.WatchHistoryData{
		Entries:  entries,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
