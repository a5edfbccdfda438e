package services

import (
	"testing"

	"github.com/taskhub-dev/taskhub/internal/config"
)

func TestSyncQueue(t *testing.T) {
	queue := NewSyncQueue(NewEmailService(&config.SMTPConfig{Enabled: false}))

	if queue.IsAsync() {
		t.Error("SyncQueue should report IsAsync() == false")
	}
	if err := queue.Enqueue(&EmailJob{To: "a@example.com", Subject: "s", Body: "b"}); err != nil {
		t.Errorf("Enqueue() error = %v", err)
	}
	if err := queue.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestInitDispatchQueue_RedisDisabled(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{Enabled: false}}
	queue := InitDispatchQueue(cfg, NewEmailService(&cfg.SMTP))

	if _, ok := queue.(*SyncQueue); !ok {
		t.Errorf("expected *SyncQueue with Redis disabled, got %T", queue)
	}
}
