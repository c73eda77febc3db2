package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestTryWithLockRunsCallback(t *testing.T) {
	l := Locker{R: newClient(t)}
	ran := false
	err := l.TryWithLock(context.Background(), "job", time.Second, func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Fatal("callback did not run")
	}
}

func TestTryWithLockRefusesHeldKey(t *testing.T) {
	client := newClient(t)
	l := Locker{R: client}
	if err := client.Set(context.Background(), "job", "other-holder", time.Minute).Err(); err != nil {
		t.Fatal(err)
	}
	err := l.TryWithLock(context.Background(), "job", time.Second, func(context.Context) error {
		t.Fatal("callback must not run while the lock is held")
		return nil
	})
	if !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected ErrNotAcquired, got %v", err)
	}
}

func TestTryWithLockReleasesAfterCallback(t *testing.T) {
	l := Locker{R: newClient(t)}
	if err := l.TryWithLock(context.Background(), "job", time.Minute, func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
	// The key is free again, so a second acquisition succeeds.
	if err := l.TryWithLock(context.Background(), "job", time.Minute, func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
}

func TestTryWithLockPropagatesCallbackError(t *testing.T) {
	l := Locker{R: newClient(t)}
	want := errors.New("boom")
	err := l.TryWithLock(context.Background(), "job", time.Second, func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("expected callback error, got %v", err)
	}
}
