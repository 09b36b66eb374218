//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"
)

// Run with: go test -tags integration ./pkg/store
// GRAPHPAD_TEST_REDIS_URL and GRAPHPAD_TEST_MONGO_URL select the servers.

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := "graphpad:test:" + t.Name()
	t.Cleanup(func() { _ = s.Delete(ctx, key) })

	if err := s.Set(ctx, key, []byte("snapshot"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := s.Get(ctx, key)
	if err != nil || !hit || string(data) != "snapshot" {
		t.Fatalf("Get = (%q, %v, %v)", data, hit, err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := s.Get(ctx, key); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("GRAPHPAD_TEST_REDIS_URL")
	if url == "" {
		t.Skip("GRAPHPAD_TEST_REDIS_URL not set")
	}
	s, err := NewRedisStore(context.Background(), url)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestMongoStore(t *testing.T) {
	url := os.Getenv("GRAPHPAD_TEST_MONGO_URL")
	if url == "" {
		t.Skip("GRAPHPAD_TEST_MONGO_URL not set")
	}
	s, err := NewMongoStore(context.Background(), url, "graphpad_test", "recovery")
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}
