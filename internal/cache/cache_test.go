package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestTxDetails_HitAndError(t *testing.T) {
	c := New(200 * time.Millisecond)
	ctx := context.Background()
	calls := 0
	fetch := func(context.Context) (Detail, error) {
		calls++
		return Detail{FeeLamports: 5000, FetchedAt: time.Now()}, nil
	}
	v, err := c.GetOrFetch(ctx, "sig1", fetch)
	if err != nil || v.FeeLamports != 5000 { t.Fatalf("first: v=%v err=%v", v, err) }
	v2, err := c.GetOrFetch(ctx, "sig1", fetch)
	if err != nil || v2.FeeLamports != 5000 { t.Fatalf("second: v=%v err=%v", v2, err) }
	if calls != 1 { t.Fatalf("fetch calls=%d", calls) }

	badFetch := func(context.Context) (Detail, error) { return Detail{}, errors.New("fetch-fail") }
	if _, err := c.GetOrFetch(ctx, "sig2", badFetch); err == nil {
		t.Fatalf("expected error")
	}
	if c.Len() != 1 { t.Fatalf("len=%d", c.Len()) }
}

func TestTxDetails_ExpiryRefetches(t *testing.T) {
	c := New(30 * time.Millisecond)
	ctx := context.Background()
	calls := 0
	fetch := func(context.Context) (Detail, error) {
		calls++
		return Detail{FeeLamports: 1}, nil
	}
	if _, err := c.GetOrFetch(ctx, "sig", fetch); err != nil { t.Fatalf("err=%v", err) }
	time.Sleep(60 * time.Millisecond)
	if _, err := c.GetOrFetch(ctx, "sig", fetch); err != nil { t.Fatalf("err=%v", err) }
	if calls != 2 { t.Fatalf("fetch calls=%d", calls) }
}

func TestTxDetails_CoalescesConcurrentMisses(t *testing.T) {
	c := New(time.Second)
	ctx := context.Background()
	var mu sync.Mutex
	calls := 0
	fetch := func(context.Context) (Detail, error) {
		mu.Lock(); calls++; mu.Unlock()
		time.Sleep(30 * time.Millisecond)
		return Detail{FeeLamports: 7}, nil
	}
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := c.GetOrFetch(ctx, "sig", fetch); err != nil || v.FeeLamports != 7 {
				t.Errorf("v=%v err=%v", v, err)
			}
		}()
	}
	wg.Wait()
	mu.Lock(); got := calls; mu.Unlock()
	if got != 1 { t.Fatalf("fetch calls=%d (want 1)", got) }
}
