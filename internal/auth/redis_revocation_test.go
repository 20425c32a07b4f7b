package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/VladKovDev/tguser-api/internal/config"
	"github.com/google/uuid"
)

func TestRedisRevocationList(t *testing.T) {
	addr := os.Getenv("TGUSERS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TGUSERS_TEST_REDIS_ADDR not set")
	}

	l := NewRedisRevocationList(NewRedisClient(config.RedisConfig{Addr: addr}))
	defer l.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	jti := uuid.NewString()
	if ok, err := l.IsRevoked(ctx, jti); err != nil || ok {
		t.Fatalf("IsRevoked before revoke = %v, %v", ok, err)
	}
	if err := l.Revoke(ctx, jti, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if ok, err := l.IsRevoked(ctx, jti); err != nil || !ok {
		t.Fatalf("IsRevoked after revoke = %v, %v", ok, err)
	}

	past := uuid.NewString()
	if err := l.Revoke(ctx, past, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke expired: %v", err)
	}
	if ok, _ := l.IsRevoked(ctx, past); ok {
		t.Error("already expired token stored as revoked")
	}
}
