package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"streamhub/internal/config"
	"streamhub/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var Client *redis.Client

// ErrSessionNotFound 会话不存在（已登出或已过期）
var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "session:refresh:"

// Init 初始化Redis客户端
func Init(cfg *config.RedisConfig) error {
	Client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
	)

	return nil
}

// Close 关闭Redis连接
func Close() error {
	if Client == nil {
		return nil
	}
	logger.Info("Redis connection closed")
	return Client.Close()
}

// Get 获取Redis客户端实例
func Get() *redis.Client {
	return Client
}

// SaveRefreshToken 保存用户的 Refresh Token，TTL 与 Token 过期时间一致
// 每个用户只保留一个会话，重复登录会覆盖旧会话
func SaveRefreshToken(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	key := fmt.Sprintf("%s%d", sessionKeyPrefix, userID)
	if err := Client.Set(ctx, key, token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken 读取用户当前的 Refresh Token
func GetRefreshToken(ctx context.Context, userID int64) (string, error) {
	key := fmt.Sprintf("%s%d", sessionKeyPrefix, userID)
	token, err := Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	return token, nil
}

// DeleteRefreshToken 删除用户会话（登出）
func DeleteRefreshToken(ctx context.Context, userID int64) error {
	key := fmt.Sprintf("%s%d", sessionKeyPrefix, userID)
	if err := Client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}
