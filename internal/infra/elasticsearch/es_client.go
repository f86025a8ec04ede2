package elasticsearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"streamhub/internal/config"
	"streamhub/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

var client *elasticsearch.Client

// ErrNotInitialized ES 客户端未初始化（Init 失败或未调用）
var ErrNotInitialized = errors.New("elasticsearch client not initialized")

// Init 初始化 Elasticsearch 客户端并探活
func Init(cfg *config.ElasticsearchConfig) error {
	hosts := normalizeHosts(cfg.Hosts)
	if len(hosts) == 0 {
		return fmt.Errorf("elasticsearch hosts is empty")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     hosts,
		RetryOnStatus: []int{502, 503, 504},
		MaxRetries:    3,
		RetryBackoff:  func(i int) time.Duration { return time.Duration(i) * time.Second },
	})
	if err != nil {
		return fmt.Errorf("create elasticsearch client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := es.Ping(es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to ping elasticsearch: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("elasticsearch ping failed: %s", resp.String())
	}

	client = es
	logger.Info("Elasticsearch connected", zap.Strings("hosts", hosts))
	return nil
}

// normalizeHosts 去掉空白并补全协议前缀
func normalizeHosts(raw []string) []string {
	hosts := make([]string, 0, len(raw))
	for _, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !strings.HasPrefix(h, "http") {
			h = "http://" + h
		}
		hosts = append(hosts, h)
	}
	return hosts
}

func active() (*elasticsearch.Client, error) {
	if client == nil {
		return nil, ErrNotInitialized
	}
	return client, nil
}

// Search 执行搜索
func Search(ctx context.Context, index string, body io.Reader) (*esapi.Response, error) {
	es, err := active()
	if err != nil {
		return nil, err
	}
	return es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(body),
	)
}

// Index 写入文档（已有同 ID 文档时覆盖）
func Index(ctx context.Context, index, id string, body io.Reader) (*esapi.Response, error) {
	es, err := active()
	if err != nil {
		return nil, err
	}
	return es.Index(
		index,
		body,
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(id),
	)
}

// Delete 删除文档
func Delete(ctx context.Context, index, id string) (*esapi.Response, error) {
	es, err := active()
	if err != nil {
		return nil, err
	}
	return es.Delete(index, id, es.Delete.WithContext(ctx))
}

// IndicesCreate 创建索引
func IndicesCreate(ctx context.Context, index string, body io.Reader) (*esapi.Response, error) {
	es, err := active()
	if err != nil {
		return nil, err
	}
	return es.Indices.Create(
		index,
		es.Indices.Create.WithContext(ctx),
		es.Indices.Create.WithBody(body),
	)
}

// IndicesExists 检查索引是否存在
func IndicesExists(ctx context.Context, index string) (bool, error) {
	es, err := active()
	if err != nil {
		return false, err
	}
	resp, err := es.Indices.Exists(
		[]string{index},
		es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, err
	}
	return !resp.IsError() && resp.StatusCode == 200, nil
}

// Bulk 批量操作
func Bulk(ctx context.Context, body io.Reader) (*esapi.Response, error) {
	es, err := active()
	if err != nil {
		return nil, err
	}
	return es.Bulk(body, es.Bulk.WithContext(ctx))
}
