//go:build !integration

package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClient implements just enough of RedisClient for the limiter.
type fakeClient struct {
	mu      sync.Mutex
	counts  map[string]int64
	expires map[string]time.Duration
	incrErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{counts: make(map[string]int64), expires: make(map[string]time.Duration)}
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }
func (f *fakeClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (f *fakeClient) Get(ctx context.Context, key string) (string, error) { return "", Nil }

func (f *fakeClient) Incr(ctx context.Context, key string) (int64, error) {
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expires[key] = expiration
	return nil
}

func (f *fakeClient) Del(ctx context.Context, keys ...string) error { return nil }
func (f *fakeClient) Close() error                                  { return nil }

func TestRateLimiterAllow(t *testing.T) {
	ctx := context.Background()

	t.Run("allows up to the limit then denies", func(t *testing.T) {
		client := newFakeClient()
		rl := NewRateLimiter(client)
		key := InitiateKey("user-1")

		for i := 0; i < 3; i++ {
			ok, err := rl.Allow(ctx, key, 3, time.Minute)
			if err != nil {
				t.Fatalf("allow %d: %v", i, err)
			}
			if !ok {
				t.Fatalf("request %d should be allowed", i)
			}
		}
		ok, err := rl.Allow(ctx, key, 3, time.Minute)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if ok {
			t.Fatal("fourth request should be denied")
		}
	})

	t.Run("sets the window expiry on first hit only", func(t *testing.T) {
		client := newFakeClient()
		rl := NewRateLimiter(client)
		key := InitiateKey("user-2")

		rl.Allow(ctx, key, 3, time.Minute)
		if client.expires[key] != time.Minute {
			t.Errorf("expected 1m expiry, got %v", client.expires[key])
		}
	})

	t.Run("propagates backend errors", func(t *testing.T) {
		client := newFakeClient()
		client.incrErr = errors.New("redis down")
		rl := NewRateLimiter(client)

		if _, err := rl.Allow(ctx, InitiateKey("user-3"), 3, time.Minute); err == nil {
			t.Fatal("expected an error")
		}
	})
}
