package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"streamhub/internal/api/dto"
	"streamhub/internal/config"
	"streamhub/internal/model"
)

func TestToVideoInfo(t *testing.T) {
	now := time.Now()
	video := &model.Video{
		ID:           10,
		OwnerID:      3,
		Title:        "title",
		Description:  "desc",
		VideoURL:     "http://minio/videos/a.mp4",
		ThumbnailURL: "http://minio/thumbnails/a.jpg",
		Duration:     120,
		IsPublished:  true,
		Views:        7,
		Likes:        2,
		CreatedAt:    now,
		Owner: model.User{
			ID:              3,
			Username:        "alice",
			FullName:        "Alice Liddell",
			Avatar:          "http://minio/avatars/alice.png",
			SubscriberCount: 5,
		},
	}

	info := toVideoInfo(video, true)

	if info.ID != 10 || info.OwnerID != 3 {
		t.Fatalf("unexpected ids: %+v", info)
	}
	if info.Views != 7 || info.Likes != 2 || info.Duration != 120 {
		t.Fatalf("unexpected counters: %+v", info)
	}
	if info.Owner == nil {
		t.Fatal("expected owner brief")
	}
	if info.Owner.Username != "alice" || info.Owner.FullName != "Alice Liddell" {
		t.Fatalf("unexpected owner brief: %+v", info.Owner)
	}
	if info.Owner.SubscriberCount != 5 {
		t.Fatalf("expected subscriber count 5 got %d", info.Owner.SubscriberCount)
	}
	if info.IsLiked != nil || info.IsSubscribed != nil {
		t.Fatal("like/subscribe state should be absent by default")
	}
}

func TestToVideoInfoWithoutOwner(t *testing.T) {
	video := &model.Video{ID: 1, OwnerID: 2, Title: "t"}

	if info := toVideoInfo(video, true); info.Owner != nil {
		t.Fatal("zero owner should not produce a brief")
	}
	video.Owner = model.User{ID: 2, Username: "bob"}
	if info := toVideoInfo(video, false); info.Owner != nil {
		t.Fatal("owner brief should be skipped when not requested")
	}
}

// setupUploadConfig 加载指向临时目录的上传配置，返回暂存目录路径
func setupUploadConfig(t *testing.T) string {
	t.Helper()

	tempDir := filepath.Join(t.TempDir(), "uploads")
	yaml := fmt.Sprintf(`
app:
  name: streamhub-test
upload:
  max_video_size_mb: 10
  max_image_size_mb: 2
  temp_dir: %s
`, tempDir)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Fatalf("load config: %v", err)
	}
	return tempDir
}

func TestUploadCleansTempFileOnStagingFailure(t *testing.T) {
	tempDir := setupUploadConfig(t)
	svc := NewVideoService(nil, nil, nil, nil)

	// 客户端断连：读到一半出错
	videoFile := &UploadFile{
		Reader: io.MultiReader(
			strings.NewReader("partial upload bytes"),
			iotest.ErrReader(io.ErrUnexpectedEOF),
		),
		Size:        1 << 20,
		ContentType: "video/mp4",
		Ext:         ".mp4",
	}

	req := &dto.VideoUploadRequest{Title: "broken upload", Description: "d"}
	_, err := svc.Upload(context.Background(), 1, req, videoFile, &UploadFile{})
	if err == nil {
		t.Fatal("expected staging failure")
	}

	entries, readErr := os.ReadDir(tempDir)
	if readErr != nil {
		t.Fatalf("read temp dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty temp dir after failed staging, found %d entries", len(entries))
	}
}

func TestApplyLikedFlags(t *testing.T) {
	items := []dto.VideoInfo{{ID: 1}, {ID: 2}, {ID: 3}}

	applyLikedFlags(items, map[int64]bool{1: true, 3: false})

	for i, want := range []bool{true, false, false} {
		if items[i].IsLiked == nil {
			t.Fatalf("item %d missing liked flag", i)
		}
		if *items[i].IsLiked != want {
			t.Fatalf("item %d: expected liked=%v got %v", i, want, *items[i].IsLiked)
		}
	}
}
