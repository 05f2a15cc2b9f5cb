// AngelaMos | 2026
// redis_test.go

package core

import (
	"context"
	"testing"

	"github.com/sayan1112/v0-adult-video-website/internal/config"
)

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), config.RedisConfig{URL: "not a url"})
	if err == nil {
		t.Fatal("expected error for malformed url")
	}
}

func TestNilRedisMeansInProcessLimiting(t *testing.T) {
	var r *Redis
	if r.Client() != nil {
		t.Fatal("expected nil client")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
