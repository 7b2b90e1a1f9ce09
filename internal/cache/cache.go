package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Detail stores the cached per-signature transaction detail. Signatures are
// immutable once confirmed, so a short TTL exists only to bound memory.
type Detail struct {
	FeeLamports uint64
	FetchedAt   time.Time
}

type item struct {
	val       Detail
	expiresAt time.Time
}

// TxDetails is a TTL cache with singleflight coalescing per signature. It
// keeps repeated history queries from re-paying one ledger round trip per
// transaction signature.
type TxDetails struct {
	mu    sync.RWMutex
	items map[string]item
	ttl   time.Duration
	group singleflight.Group
}

func New(ttl time.Duration) *TxDetails {
	return &TxDetails{items: make(map[string]item), ttl: ttl}
}

// GetOrFetch returns a cached detail if still valid; otherwise it coalesces
// concurrent fetches for the same signature and stores the result.
func (c *TxDetails) GetOrFetch(ctx context.Context, signature string, fetch func(context.Context) (Detail, error)) (Detail, error) {
	c.mu.RLock()
	it, ok := c.items[signature]
	if ok && time.Now().Before(it.expiresAt) {
		v := it.val
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	res, err, _ := c.group.Do(signature, func() (interface{}, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.items[signature] = item{val: v, expiresAt: time.Now().Add(c.ttl)}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return Detail{}, err
	}
	return res.(Detail), nil
}

// Len returns the number of items in the cache (for tests).
func (c *TxDetails) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
