package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRedis_BypassWhenUnavailable(t *testing.T) {
	ctx := context.Background()
	for name, r := range map[string]*Redis{
		"nil":      nil,
		"degraded": NewRedisWithClient(nil, 0, zerolog.Nop()),
	} {
		t.Run(name, func(t *testing.T) {
			var out map[string]int
			ok, err := r.GetJSON(ctx, "k", &out)
			if err != nil || ok {
				t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
			}
			if err := r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute); err != nil {
				t.Fatalf("expected nil set error, got %v", err)
			}
			if err := r.Delete(ctx, "k"); err != nil {
				t.Fatalf("expected nil delete error, got %v", err)
			}
			acquired, err := r.SetIfNotExists(ctx, "lock", "v", time.Second)
			if err != nil || !acquired {
				t.Fatalf("expected lock granted in bypass mode, got %v %v", acquired, err)
			}
			if err := r.Ping(ctx); !errors.Is(err, ErrUnavailable) {
				t.Fatalf("expected ErrUnavailable, got %v", err)
			}
			if err := r.Close(); err != nil {
				t.Fatalf("expected nil close error, got %v", err)
			}
		})
	}
}
