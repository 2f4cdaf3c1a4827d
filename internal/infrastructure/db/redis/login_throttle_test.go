package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newTestServer(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewLoginThrottle_Defaults(t *testing.T) {
	th := NewLoginThrottle(nil, 0, 0)
	if th.maxAttempts != defaultMaxAttempts {
		t.Fatalf("maxAttempts = %d, want %d", th.maxAttempts, defaultMaxAttempts)
	}
	if th.window != defaultWindow {
		t.Fatalf("window = %s, want %s", th.window, defaultWindow)
	}
}

func TestLoginThrottle_Key(t *testing.T) {
	th := NewLoginThrottle(nil, 3, time.Minute)
	if got := th.key("alex@email.com"); got != "login:fail:alex@email.com" {
		t.Fatalf("key = %q", got)
	}
}

func TestLoginThrottle_BlocksAfterMaxAttempts(t *testing.T) {
	_, client := newTestServer(t)
	th := NewLoginThrottle(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		blocked, err := th.Blocked(ctx, "alex@email.com")
		if err != nil || blocked {
			t.Fatalf("attempt %d: blocked=%v err=%v", i, blocked, err)
		}
		if err := th.RecordFailure(ctx, "alex@email.com"); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	blocked, err := th.Blocked(ctx, "alex@email.com")
	if err != nil || !blocked {
		t.Fatalf("expected blocked, got blocked=%v err=%v", blocked, err)
	}
	if blocked, _ := th.Blocked(ctx, "other@email.com"); blocked {
		t.Fatal("other emails must not be affected")
	}
}

func TestLoginThrottle_WindowExpires(t *testing.T) {
	mr, client := newTestServer(t)
	th := NewLoginThrottle(client, 2, time.Minute)
	ctx := context.Background()

	_ = th.RecordFailure(ctx, "alex@email.com")
	mr.FastForward(30 * time.Second)
	_ = th.RecordFailure(ctx, "alex@email.com")

	// The second failure must not extend the window started by the first.
	if ttl := mr.TTL(th.key("alex@email.com")); ttl <= 0 || ttl > 30*time.Second {
		t.Fatalf("ttl = %s, want the remainder of the first window", ttl)
	}

	mr.FastForward(31 * time.Second)
	if blocked, err := th.Blocked(ctx, "alex@email.com"); err != nil || blocked {
		t.Fatalf("expected the lock to lapse, got blocked=%v err=%v", blocked, err)
	}
}

func TestLoginThrottle_CounterWithoutTTLGetsOne(t *testing.T) {
	mr, client := newTestServer(t)
	th := NewLoginThrottle(client, 2, time.Minute)
	ctx := context.Background()

	// A counter left without expiry must not lock the email forever.
	if err := mr.Set(th.key("alex@email.com"), "7"); err != nil {
		t.Fatal(err)
	}
	if err := th.RecordFailure(ctx, "alex@email.com"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if ttl := mr.TTL(th.key("alex@email.com")); ttl <= 0 {
		t.Fatalf("expected a ttl, got %s", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	if blocked, _ := th.Blocked(ctx, "alex@email.com"); blocked {
		t.Fatal("expected the lock to lapse")
	}
}

func TestLoginThrottle_Reset(t *testing.T) {
	mr, client := newTestServer(t)
	th := NewLoginThrottle(client, 1, time.Minute)
	ctx := context.Background()

	_ = th.RecordFailure(ctx, "alex@email.com")
	if err := th.Reset(ctx, "alex@email.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if mr.Exists(th.key("alex@email.com")) {
		t.Fatal("counter should be gone")
	}
}

func TestLoginThrottle_ReportsConnectionErrors(t *testing.T) {
	th := NewLoginThrottle(unreachableClient(t), 3, time.Minute)
	ctx := context.Background()

	blocked, err := th.Blocked(ctx, "alex@email.com")
	if err == nil {
		t.Fatal("expected an error from an unreachable server")
	}
	if blocked {
		t.Fatal("a failed check must not report blocked")
	}
	if err := th.RecordFailure(ctx, "alex@email.com"); err == nil {
		t.Fatal("expected an error from an unreachable server")
	}
}
