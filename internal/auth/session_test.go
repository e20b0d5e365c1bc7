package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"hackshare/internal/config"
	redisdb "hackshare/internal/redis"
)

// Runs only against a real Redis; set TEST_REDIS_ADDR to enable.
func TestRedisSessions_SetGetDelete(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis session test")
	}
	cfg := &config.Config{}
	cfg.Redis.Addr = addr
	cfg.Redis.DB = 15
	sessions := NewRedisSessions(redisdb.NewClient(cfg))
	ctx := context.Background()

	userId := "session-test-user"
	token := "session_test_token"

	if err := sessions.Set(ctx, userId, token, 2*time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	gotToken, err := sessions.Get(ctx, userId)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if gotToken != token {
		t.Errorf("expected token %q, got %q", token, gotToken)
	}
	count, err := sessions.OnlineCount(ctx)
	if err != nil || count < 1 {
		t.Errorf("expected at least one online user, got %d, %v", count, err)
	}
	if err := sessions.Delete(ctx, userId); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := sessions.Get(ctx, userId); err == nil {
		t.Errorf("expected error for deleted session, got nil")
	}
}
