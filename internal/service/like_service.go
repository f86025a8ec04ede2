package service

import (
	"errors"

	"streamhub/internal/api/dto"
	"streamhub/internal/model"

	"gorm.io/gorm"
)

// LikeStore 点赞关系存储，重复创建时需返回 gorm.ErrDuplicatedKey
type LikeStore interface {
	Create(userID, videoID int64) (*model.Like, error)
	Delete(userID, videoID int64) (bool, error)
	Exists(userID, videoID int64) (bool, error)
}

// LikeVideoStore 点赞服务依赖的视频读取与计数能力
type LikeVideoStore interface {
	GetByID(id int64) (*model.Video, error)
	IncrementLikes(id int64) error
	DecrementLikes(id int64) error
}

type LikeService struct {
	likeRepo  LikeStore
	videoRepo LikeVideoStore
}

func NewLikeService(likeRepo LikeStore, videoRepo LikeVideoStore) *LikeService {
	return &LikeService{likeRepo: likeRepo, videoRepo: videoRepo}
}

// SetLike 幂等设置点赞状态，仅在状态实际变化时调整计数
func (s *LikeService) SetLike(userID, videoID int64, like bool) (*dto.LikeData, error) {
	if _, err := s.videoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if like {
		if _, err := s.likeRepo.Create(userID, videoID); err != nil {
			// 已点赞时唯一约束拦截重复插入，计数不变
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, err
			}
		} else if err := s.videoRepo.IncrementLikes(videoID); err != nil {
			return nil, err
		}
	} else {
		deleted, err := s.likeRepo.Delete(userID, videoID)
		if err != nil {
			return nil, err
		}
		if deleted {
			if err := s.videoRepo.DecrementLikes(videoID); err != nil {
				return nil, err
			}
		}
	}

	return s.likeData(videoID, like)
}

// Toggle 切换点赞状态
func (s *LikeService) Toggle(userID, videoID int64) (*dto.LikeData, error) {
	liked, err := s.likeRepo.Exists(userID, videoID)
	if err != nil {
		return nil, err
	}
	return s.SetLike(userID, videoID, !liked)
}

// Unlike 取消点赞，未点赞时为幂等空操作
func (s *LikeService) Unlike(userID, videoID int64) (*dto.LikeData, error) {
	return s.SetLike(userID, videoID, false)
}

func (s *LikeService) likeData(videoID int64, liked bool) (*dto.LikeData, error) {
	video, err := s.videoRepo.GetByID(videoID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeData{
		VideoID: videoID,
		Liked:   liked,
		Likes:   video.Likes,
	}, nil
}
