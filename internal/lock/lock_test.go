package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestKeyedSerializesSameKey(t *testing.T) {
	k := NewKeyed()
	var (
		wg      sync.WaitGroup
		active  int
		maxSeen int
		mu      sync.Mutex
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := k.Lock(context.Background(), "u1:42")
			if err != nil {
				t.Errorf("Lock() unexpected error: %v", err)
				return
			}
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Errorf("max concurrent holders = %d, want 1", maxSeen)
	}
	if n := k.size(); n != 0 {
		t.Errorf("tracked keys after release = %d, want 0", n)
	}
}

func TestKeyedIndependentKeys(t *testing.T) {
	k := NewKeyed()

	unlockA, err := k.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("Lock(a) unexpected error: %v", err)
	}
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := k.Lock(ctx, "b")
	if err != nil {
		t.Fatalf("Lock(b) should not wait on a: %v", err)
	}
	unlockB()
}

func TestKeyedContextCancel(t *testing.T) {
	k := NewKeyed()

	unlock, err := k.Lock(context.Background(), "a")
	if err != nil {
		t.Fatalf("Lock() unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := k.Lock(ctx, "a"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Lock() error = %v, want DeadlineExceeded", err)
	}

	unlock()
	unlock() // second call is a no-op

	if n := k.size(); n != 0 {
		t.Errorf("tracked keys = %d, want 0", n)
	}
}

func TestRedisLockKey(t *testing.T) {
	if got := redisLockKey("u1:42"); got != "cinelist:lock:u1:42" {
		t.Errorf("redisLockKey() = %q", got)
	}
}
