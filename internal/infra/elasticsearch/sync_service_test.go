package elasticsearch

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"streamhub/internal/model"
)

func TestVideoToESDoc(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	video := &model.Video{
		ID:          11,
		OwnerID:     4,
		Title:       "hello",
		Description: "world",
		IsPublished: true,
		Views:       100,
		Likes:       9,
		Duration:    61,
		CreatedAt:   created,
	}

	doc := videoToESDoc(video, "carol")

	if doc.ID != 11 || doc.OwnerID != 4 {
		t.Fatalf("unexpected ids: %+v", doc)
	}
	if doc.OwnerName != "carol" {
		t.Fatalf("expected owner name carol got %s", doc.OwnerName)
	}
	if doc.CreatedAt != created.Format(time.RFC3339) {
		t.Fatalf("unexpected created_at: %s", doc.CreatedAt)
	}
}

func TestVideosIndexMappingIsValidJSON(t *testing.T) {
	var mapping map[string]interface{}
	if err := json.Unmarshal([]byte(GetVideosIndexMapping()), &mapping); err != nil {
		t.Fatalf("mapping is not valid JSON: %v", err)
	}

	mappings, ok := mapping["mappings"].(map[string]interface{})
	if !ok {
		t.Fatal("missing mappings section")
	}
	props := mappings["properties"].(map[string]interface{})
	for _, field := range []string{"id", "owner_id", "owner_name", "title", "description", "is_published", "views", "likes", "duration", "created_at"} {
		if _, ok := props[field]; !ok {
			t.Fatalf("missing field %s in mapping", field)
		}
	}
}

func TestParseBulkResponseCountsStatuses(t *testing.T) {
	body := `{"errors":true,"items":[
		{"index":{"status":201}},
		{"index":{"status":200}},
		{"index":{"status":429}}
	]}`

	success, failed, err := parseBulkResponse(strings.NewReader(body), 3)
	if err != nil {
		t.Fatalf("parse bulk response: %v", err)
	}
	if success != 2 || failed != 1 {
		t.Fatalf("expected 2 success / 1 failed, got %d / %d", success, failed)
	}
}

func TestParseBulkResponseUnreadableBody(t *testing.T) {
	success, failed, err := parseBulkResponse(strings.NewReader("not json"), 5)
	if err == nil {
		t.Fatal("expected error for unreadable bulk response")
	}
	if success != 0 {
		t.Fatalf("unreadable response must not count as success, got %d", success)
	}
	if failed != 5 {
		t.Fatalf("expected all %d reported failed, got %d", 5, failed)
	}
}
