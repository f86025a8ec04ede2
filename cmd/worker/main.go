package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"streamhub/internal/config"
	"streamhub/internal/infra/database"
	infraES "streamhub/internal/infra/elasticsearch"
	infraKafka "streamhub/internal/infra/kafka"
	"streamhub/internal/repository"
	"streamhub/internal/service"
	"streamhub/pkg/logger"

	"go.uber.org/zap"
)

// 搜索索引同步 worker：消费视频生命周期事件，保持 ES 与 DB 一致
func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Fatal("Failed to init elasticsearch", zap.Error(err))
	}
	if err := infraES.InitIndexes(); err != nil {
		logger.Fatal("Failed to init elasticsearch indexes", zap.Error(err))
	}

	videoRepo := repository.NewVideoRepository(database.Get())
	likeRepo := repository.NewLikeRepository(database.Get())
	subRepo := repository.NewSubscriptionRepository(database.Get())
	historyRepo := repository.NewHistoryRepository(database.Get())
	videoService := service.NewVideoService(videoRepo, subRepo, likeRepo, historyRepo)
	searchService := service.NewSearchService(videoRepo, videoService)

	// 启动时全量重建，补齐 worker 停机期间丢失的事件
	if success, failed, err := searchService.SyncAllToES(); err != nil {
		logger.Warn("Full index sync failed", zap.Error(err))
	} else {
		logger.Info("Full index sync completed", zap.Int("success", success), zap.Int("failed", failed))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	eventTopic := cfg.Kafka.Topics["video_events"]
	groupID := "streamhub-index-sync"

	logger.Info("Index sync worker started",
		zap.String("topic", eventTopic),
		zap.String("group", groupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	handler := func(event *infraKafka.VideoEvent) error {
		switch event.Event {
		case infraKafka.EventVideoPublished:
			return searchService.SyncVideoToES(event.VideoID)
		case infraKafka.EventVideoDeleted:
			return searchService.DeleteVideoFromES(event.VideoID)
		default:
			logger.Warn("Unknown video event", zap.String("event", event.Event), zap.Int64("video_id", event.VideoID))
			return nil
		}
	}

	infraKafka.StartVideoEventConsumer(ctx, cfg.Kafka.Brokers, eventTopic, groupID, handler)

	logger.Info("Index sync worker stopped")
}
