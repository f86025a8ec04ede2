package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"streamhub/internal/api/dto"
	infraES "streamhub/internal/infra/elasticsearch"
	"streamhub/internal/model"
	"streamhub/internal/repository"
	"streamhub/pkg/logger"

	"go.uber.org/zap"
)

type SearchService struct {
	videoRepo *repository.VideoRepository
	videoSvc  *VideoService
}

func NewSearchService(videoRepo *repository.VideoRepository, videoSvc *VideoService) *SearchService {
	return &SearchService{videoRepo: videoRepo, videoSvc: videoSvc}
}

// Search 全文搜索已发布视频（ES 优先，失败则降级到 DB 模糊匹配）
func (s *SearchService) Search(query string, page, pageSize int, viewerID int64) (*dto.VideoListData, error) {
	data, err := s.searchFromES(query, page, pageSize, viewerID)
	if err != nil {
		logger.Warn("ES search failed, fallback to DB", zap.Error(err))
		return s.searchFromDB(query, page, pageSize, viewerID)
	}
	return data, nil
}

func (s *SearchService) searchFromES(query string, page, pageSize int, viewerID int64) (*dto.VideoListData, error) {
	body, err := json.Marshal(BuildSearchQuery(query, page, pageSize))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := infraES.Search(ctx, infraES.VideosIndexName(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("ES search error: %s", resp.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	total := esResp.Hits.Total.Value
	videoIDs := make([]int64, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		videoIDs = append(videoIDs, h.Source.ID)
	}

	if len(videoIDs) == 0 {
		return s.videoSvc.BuildListData(nil, total, page, pageSize, viewerID)
	}

	videos, err := s.videoRepo.GetByIDsWithOwner(videoIDs)
	if err != nil {
		return nil, err
	}

	// 按 ES 相关度顺序重排 DB 结果
	videoMap := make(map[int64]*model.Video, len(videos))
	for i := range videos {
		videoMap[videos[i].ID] = &videos[i]
	}
	ordered := make([]model.Video, 0, len(videoIDs))
	for _, id := range videoIDs {
		if v, ok := videoMap[id]; ok && v.IsPublished {
			ordered = append(ordered, *v)
		}
	}

	return s.videoSvc.BuildListData(ordered, total, page, pageSize, viewerID)
}

// BuildSearchQuery 构造 ES 查询：标题权重高于简介，相关度优先、播放量次之
func BuildSearchQuery(query string, page, pageSize int) map[string]interface{} {
	boolQ := map[string]interface{}{
		"filter": []interface{}{
			map[string]interface{}{"term": map[string]interface{}{"is_published": true}},
		},
		"must": []interface{}{
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":    strings.TrimSpace(query),
					"fields":   []string{"title^3", "description^1"},
					"type":     "best_fields",
					"operator": "or",
				},
			},
		},
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQ,
		},
		"_source": []string{"id"},
		"from":    (page - 1) * pageSize,
		"size":    pageSize,
		"sort": []interface{}{
			map[string]interface{}{"_score": map[string]string{"order": "desc"}},
			map[string]interface{}{"views": map[string]string{"order": "desc"}},
		},
	}
}

func (s *SearchService) searchFromDB(query string, page, pageSize int, viewerID int64) (*dto.VideoListData, error) {
	skip := (page - 1) * pageSize

	var search *string
	if q := strings.TrimSpace(query); q != "" {
		search = &q
	}

	videos, total, err := s.videoRepo.ListPublished(skip, pageSize, search, true)
	if err != nil {
		return nil, err
	}

	return s.videoSvc.BuildListData(videos, total, page, pageSize, viewerID)
}

// SyncVideoToES 同步单个视频到 ES（worker 消费发布事件后调用）
func (s *SearchService) SyncVideoToES(videoID int64) error {
	video, err := s.videoRepo.GetByIDWithOwner(videoID)
	if err != nil {
		return err
	}

	ownerName := ""
	if video.Owner.ID != 0 {
		ownerName = video.Owner.Username
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return infraES.SyncVideo(ctx, video, ownerName)
}

// DeleteVideoFromES 从 ES 删除视频文档
func (s *SearchService) DeleteVideoFromES(videoID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return infraES.DeleteVideo(ctx, videoID)
}

// SyncAllToES 全量同步已发布视频到 ES（worker 启动时重建索引）
func (s *SearchService) SyncAllToES() (success, failed int, err error) {
	videos, _, err := s.videoRepo.ListPublished(0, 10000, nil, true)
	if err != nil {
		return 0, 0, err
	}

	if len(videos) == 0 {
		return 0, 0, nil
	}

	ownerNames := make(map[int64]string, len(videos))
	for i := range videos {
		if videos[i].Owner.ID != 0 {
			ownerNames[videos[i].OwnerID] = videos[i].Owner.Username
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	return infraES.BulkSyncVideos(ctx, videos, ownerNames)
}
