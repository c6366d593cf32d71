package redis

import (
	"testing"
	"time"

	"github.com/pattarapol-dev/srisawat-pos-backend/pkg/config"
)

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address are set")
	}
}

func TestOptionsFromConfigURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:         "redis://:secret@localhost:6380/2",
		PoolSize:    15,
		DialTimeout: 3 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" {
		t.Fatalf("addr = %s", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("db = %d", opts.DB)
	}
	if opts.Password != "secret" {
		t.Fatalf("password not parsed")
	}
	if opts.PoolSize != 15 {
		t.Fatalf("pool size fallback not applied: %d", opts.PoolSize)
	}
}

func TestOptionsFromConfigAddress(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{Address: "127.0.0.1:6379", DB: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "127.0.0.1:6379" || opts.DB != 1 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestKeyBuilders(t *testing.T) {
	c := &Client{}
	if got := c.CacheKey("products", "list"); got != "spos:cache:products:list" {
		t.Fatalf("cache key = %s", got)
	}
	if got := c.AccessSessionKey("abc"); got != "spos:session:access:abc" {
		t.Fatalf("session key = %s", got)
	}
	if got := c.CacheKey("products", " ", "p1"); got != "spos:cache:products:p1" {
		t.Fatalf("blank parts not skipped: %s", got)
	}
}
