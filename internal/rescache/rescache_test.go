package rescache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type payload struct {
	Title string `json:"title"`
	N     int    `json:"n"`
}

func TestGetCachesWithinTTL(t *testing.T) {
	c := New[payload](Options{TTL: time.Minute, MaxEntries: 8})
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	var calls atomic.Int32
	load := func(context.Context) (payload, bool, error) {
		n := int(calls.Add(1))
		return payload{Title: "t", N: n}, true, nil
	}

	ctx := context.Background()
	a, _ := c.Get(ctx, "h/p", load)
	b, _ := c.Get(ctx, "h/p", load)
	if a.N != 1 || b.N != 1 {
		t.Fatalf("second Get reloaded: %d, %d", a.N, b.N)
	}

	now = now.Add(2 * time.Minute)
	d, _ := c.Get(ctx, "h/p", load)
	if d.N != 2 {
		t.Fatalf("expired entry served: %+v", d)
	}
}

func TestGetSkipsUncacheable(t *testing.T) {
	c := New[payload](Options{TTL: time.Minute})
	var calls atomic.Int32
	load := func(context.Context) (payload, bool, error) {
		calls.Add(1)
		return payload{}, false, nil
	}
	for i := 0; i < 3; i++ {
		_, _ = c.Get(context.Background(), "k", load)
	}
	if calls.Load() != 3 {
		t.Fatalf("loader ran %d times, want 3", calls.Load())
	}
}

func TestGetCoalescesConcurrentMisses(t *testing.T) {
	c := New[payload](Options{TTL: time.Minute})
	gate := make(chan struct{})
	var calls atomic.Int32
	load := func(context.Context) (payload, bool, error) {
		calls.Add(1)
		<-gate
		return payload{Title: "once"}, true, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background(), "burst", load)
			if err != nil || v.Title != "once" {
				t.Errorf("Get = %+v, %v", v, err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("loader ran %d times, want 1", calls.Load())
	}
}

func TestGetReturnsWhenCallerCancels(t *testing.T) {
	c := New[payload](Options{TTL: time.Minute})
	gate := make(chan struct{})
	defer close(gate)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "slow", func(lctx context.Context) (payload, bool, error) {
			<-gate
			return payload{}, true, lctx.Err()
		})
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Get did not return after cancel")
	}
}

func TestLoadAbandonedWhenLastCallerLeaves(t *testing.T) {
	c := New[payload](Options{TTL: time.Minute})
	started := make(chan struct{})
	abandoned := make(chan error, 1)

	ctx, cancel := context.WithCancel(context.Background())
	go c.Get(ctx, "slow", func(lctx context.Context) (payload, bool, error) {
		close(started)
		<-lctx.Done()
		abandoned <- lctx.Err()
		return payload{}, false, lctx.Err()
	})
	<-started
	cancel()

	select {
	case err := <-abandoned:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("load ctx err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("load still running after its only caller left")
	}

	// The key is free again: a new caller runs a fresh load.
	v, err := c.Get(context.Background(), "slow", func(context.Context) (payload, bool, error) {
		return payload{Title: "fresh"}, true, nil
	})
	if err != nil || v.Title != "fresh" {
		t.Fatalf("Get after abandon = %+v, %v", v, err)
	}
}

func TestLoadSurvivesWhileOtherCallersWait(t *testing.T) {
	c := New[payload](Options{TTL: time.Minute})
	started := make(chan struct{})
	gate := make(chan struct{})
	var once sync.Once
	load := func(lctx context.Context) (payload, bool, error) {
		once.Do(func() { close(started) })
		select {
		case <-gate:
			return payload{Title: "kept"}, true, nil
		case <-lctx.Done():
			return payload{}, false, lctx.Err()
		}
	}

	leaver, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := c.Get(leaver, "shared", load)
		first <- err
	}()
	<-started

	second := make(chan payload, 1)
	go func() {
		v, _ := c.Get(context.Background(), "shared", load)
		second <- v
	}()
	waitFor(t, func() bool { return c.waiting("shared") == 2 })

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller err = %v", err)
	}
	close(gate)

	select {
	case v := <-second:
		if v.Title != "kept" {
			t.Fatalf("remaining caller got %+v", v)
		}
	case <-time.After(time.Second):
		t.Fatal("remaining caller never answered")
	}
}

// waiting reports how many callers wait on key's load.
func (c *Cache[V]) waiting(key string) int {
	c.fmu.Lock()
	defer c.fmu.Unlock()
	if f, ok := c.flights[key]; ok {
		return f.waiters
	}
	return 0
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDisabledCachePassesThrough(t *testing.T) {
	var c *Cache[payload]
	v, err := c.Get(context.Background(), "k", func(context.Context) (payload, bool, error) {
		return payload{Title: "direct"}, true, nil
	})
	if err != nil || v.Title != "direct" {
		t.Fatalf("Get = %+v, %v", v, err)
	}
}

type fakeRemote struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func (f *fakeRemote) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return b, nil
}

func (f *fakeRemote) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = val
	f.sets++
	return nil
}

func TestRemoteTier(t *testing.T) {
	remote := &fakeRemote{data: map[string][]byte{}}
	seeded, _ := json.Marshal(payload{Title: "from-redis", N: 7})
	remote.data["warm"] = seeded

	c := New[payload](Options{TTL: time.Minute, Remote: remote})
	v, err := c.Get(context.Background(), "warm", func(context.Context) (payload, bool, error) {
		t.Error("loader ran despite remote hit")
		return payload{}, false, nil
	})
	if err != nil || v.Title != "from-redis" || v.N != 7 {
		t.Fatalf("Get = %+v, %v", v, err)
	}

	_, _ = c.Get(context.Background(), "cold", func(context.Context) (payload, bool, error) {
		return payload{Title: "fresh"}, true, nil
	})
	if remote.sets != 1 {
		t.Fatalf("remote sets = %d, want 1", remote.sets)
	}
	var stored payload
	if err := json.Unmarshal(remote.data["cold"], &stored); err != nil || stored.Title != "fresh" {
		t.Fatalf("remote holds %q", remote.data["cold"])
	}
}

func TestLRUEvictsOldest(t *testing.T) {
	l := newLRU[int](2)
	now := time.Now()
	exp := now.Add(time.Hour)
	l.add("a", 1, exp)
	l.add("b", 2, exp)
	l.get("a", now) // a becomes MRU
	l.add("c", 3, exp)

	if _, ok := l.get("b", now); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := l.get("a", now); !ok || v != 1 {
		t.Error("a missing")
	}
	if l.len() != 2 {
		t.Errorf("len = %d", l.len())
	}
}
