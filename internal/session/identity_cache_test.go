package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stemsi/campus-portal/internal/model"
)

func TestTokenDigestHidesToken(t *testing.T) {
	d := tokenDigest("secret-token")
	if len(d) != 64 {
		t.Fatalf("digest length = %d", len(d))
	}
	if d == tokenDigest("secret-token2") {
		t.Fatal("different tokens share a digest")
	}
}

// Runs only when TEST_REDIS_URL points at a disposable Redis.
func TestRedisIdentityCache(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		t.Fatal(err)
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	ctx := context.Background()
	cache := NewRedisIdentityCache(rdb, time.Minute)
	token := "test-token-" + time.Now().Format(time.RFC3339Nano)

	if u, err := cache.Get(ctx, token); err != nil || u != nil {
		t.Fatalf("miss = %+v, %v", u, err)
	}
	want := &model.User{ID: 4, Name: "Ada", Email: "ada@college.edu", Role: model.RoleAdmin}
	if err := cache.Set(ctx, token, want); err != nil {
		t.Fatal(err)
	}
	got, err := cache.Get(ctx, token)
	if err != nil || got == nil || *got != *want {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	if err := cache.Delete(ctx, token); err != nil {
		t.Fatal(err)
	}
	if u, _ := cache.Get(ctx, token); u != nil {
		t.Fatal("entry survived Delete")
	}
}
