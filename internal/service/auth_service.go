package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"streamhub/internal/api/dto"
	"streamhub/internal/config"
	infraMinio "streamhub/internal/infra/minio"
	infraRedis "streamhub/internal/infra/redis"
	"streamhub/internal/model"
	"streamhub/internal/repository"
	"streamhub/pkg/logger"
	"streamhub/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrUserExists          = errors.New("用户名或邮箱已存在")
	ErrInvalidCredential   = errors.New("用户名或密码错误")
	ErrInvalidRefreshToken = errors.New("无效或过期的刷新令牌")
	ErrOldPasswordWrong    = errors.New("旧密码错误")
)

// UploadFile 来自 multipart 请求的待上传文件
type UploadFile struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Ext         string
}

type AuthService struct {
	userRepo *repository.UserRepository
}

func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register 用户注册，头像必传、封面可选，图片先上传到 MinIO 再落库
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, avatar *UploadFile, cover *UploadFile) (*dto.UserInfo, error) {
	exists, err := s.userRepo.ExistsByUsernameOrEmail(req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	avatarURL, err := uploadImage(ctx, avatar)
	if err != nil {
		return nil, fmt.Errorf("上传头像失败: %w", err)
	}

	var coverURL *string
	if cover != nil {
		url, err := uploadImage(ctx, cover)
		if err != nil {
			return nil, fmt.Errorf("上传封面失败: %w", err)
		}
		coverURL = &url
	}

	user := &model.User{
		Username:   req.Username,
		Email:      req.Email,
		FullName:   req.FullName,
		Password:   hashedPassword,
		Avatar:     avatarURL,
		CoverImage: coverURL,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return ToUserInfo(user), nil
}

// Login 用户登录，签发访问/刷新令牌对，刷新令牌写入 Redis 会话
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenData, error) {
	user, err := s.userRepo.GetByUsernameOrEmail(req.Username, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredential
	}

	return s.issueTokenPair(ctx, user)
}

// Logout 登出，删除 Redis 会话
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return infraRedis.DeleteRefreshToken(ctx, userID)
}

// RefreshTokens 校验刷新令牌并轮换令牌对
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*dto.TokenData, error) {
	claims, err := utils.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	stored, err := infraRedis.GetRefreshToken(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, infraRedis.ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if stored != refreshToken {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.issueTokenPair(ctx, user)
}

// ChangePassword 修改密码，需验证旧密码
func (s *AuthService) ChangePassword(userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !utils.VerifyPassword(req.OldPassword, user.Password) {
		return ErrOldPasswordWrong
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	_, err = s.userRepo.Update(userID, map[string]interface{}{"password": hashedPassword})
	return err
}

// GetCurrentUser 根据用户 ID 获取用户信息
func (s *AuthService) GetCurrentUser(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return ToUserInfo(user), nil
}

func (s *AuthService) issueTokenPair(ctx context.Context, user *model.User) (*dto.TokenData, error) {
	accessToken, err := utils.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	ttl := config.GetJWT().RefreshExpireDuration()
	if err := infraRedis.SaveRefreshToken(ctx, user.ID, refreshToken, ttl); err != nil {
		logger.Error("Save refresh token failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	return &dto.TokenData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *ToUserInfo(user),
	}, nil
}

// uploadImage 上传图片到头像桶，返回公开访问 URL
func uploadImage(ctx context.Context, file *UploadFile) (string, error) {
	objectName := uuid.NewString() + file.Ext

	ctx, cancel := context.WithTimeout(ctx, 1*time.Minute)
	defer cancel()

	return infraMinio.UploadFile(ctx, infraMinio.AvatarBucket, objectName, file.Reader, file.Size, file.ContentType)
}

// ToUserInfo 将 model.User 转换为 dto.UserInfo
func ToUserInfo(user *model.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		FullName:        user.FullName,
		Avatar:          user.Avatar,
		CoverImage:      user.CoverImage,
		SubscriberCount: user.SubscriberCount,
	}
}
