package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testYAML = `
app:
  name: streamhub-test
  version: 0.0.1
  mode: test
  port: 8000
database:
  host: db.local
  port: 5432
  user: stream
  password: secret
  dbname: streamhub
  sslmode: disable
redis:
  host: cache.local
  port: 6380
jwt:
  secret: test-secret
  access_expire_hours: 2
  refresh_expire_hours: 48
upload:
  max_video_size_mb: 100
  max_image_size_mb: 5
  temp_dir: /tmp/streamhub
kafka:
  brokers:
    - kafka.local:9092
  topics:
    video_events: test.video.events
`

func loadTestConfig(t *testing.T) *Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestLoad(t *testing.T) {
	cfg := loadTestConfig(t)

	if cfg.App.Name != "streamhub-test" {
		t.Fatalf("expected app name streamhub-test got %s", cfg.App.Name)
	}
	if cfg.App.Port != 8000 {
		t.Fatalf("expected port 8000 got %d", cfg.App.Port)
	}
	if cfg.Kafka.Topics["video_events"] != "test.video.events" {
		t.Fatalf("unexpected kafka topic map: %v", cfg.Kafka.Topics)
	}

	if Get() != cfg {
		t.Fatal("Get should return the loaded config")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := loadTestConfig(t)

	want := "host=db.local port=5432 user=stream password=secret dbname=streamhub sslmode=disable"
	if got := cfg.Database.DSN(); got != want {
		t.Fatalf("unexpected DSN: %s", got)
	}
}

func TestRedisAddr(t *testing.T) {
	cfg := loadTestConfig(t)

	if got := cfg.Redis.Addr(); got != "cache.local:6380" {
		t.Fatalf("unexpected redis addr: %s", got)
	}
}

func TestJWTDurations(t *testing.T) {
	cfg := loadTestConfig(t)

	if got := cfg.JWT.AccessExpireDuration(); got != 2*time.Hour {
		t.Fatalf("unexpected access expire: %v", got)
	}
	if got := cfg.JWT.RefreshExpireDuration(); got != 48*time.Hour {
		t.Fatalf("unexpected refresh expire: %v", got)
	}
}

func TestUploadSizes(t *testing.T) {
	cfg := loadTestConfig(t)

	if got := cfg.Upload.MaxVideoSize(); got != 100*1024*1024 {
		t.Fatalf("unexpected max video size: %d", got)
	}
	if got := cfg.Upload.MaxImageSize(); got != 5*1024*1024 {
		t.Fatalf("unexpected max image size: %d", got)
	}
}
