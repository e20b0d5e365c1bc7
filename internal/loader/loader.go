// Package loader batches and caches id lookups for the lifetime of one
// request.
package loader

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// BatchFunc fetches values for keys. Keys missing from the result are
// cached as absent.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) (map[K]V, error)

type entry[V any] struct {
	value V
	found bool
}

// Loader caches results per key. Concurrent loads of the same key share one
// fetch through a singleflight group keyed by the key's string form.
type Loader[K comparable, V any] struct {
	batch BatchFunc[K, V]
	group singleflight.Group

	mu    sync.Mutex
	cache map[K]entry[V]
}

func New[K comparable, V any](batch BatchFunc[K, V]) *Loader[K, V] {
	return &Loader[K, V]{
		batch: batch,
		cache: make(map[K]entry[V]),
	}
}

func (l *Loader[K, V]) cached(key K) (entry[V], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.cache[key]
	return e, ok
}

func (l *Loader[K, V]) store(keys []K, values map[K]V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range keys {
		v, ok := values[k]
		l.cache[k] = entry[V]{value: v, found: ok}
	}
}

type sharedFetch[K comparable, V any] struct {
	once   sync.Once
	values map[K]V
	err    error
}

func (f *sharedFetch[K, V]) run(ctx context.Context, l *Loader[K, V], keys []K) (map[K]V, error) {
	f.once.Do(func() {
		f.values, f.err = l.batch(ctx, keys)
		if f.err == nil {
			l.store(keys, f.values)
		}
	})
	return f.values, f.err
}

// LoadMany resolves keys with at most one batch call for the uncached ones.
// A key already being fetched by another caller is waited on, not fetched
// again. Absent keys are left out of the result.
func (l *Loader[K, V]) LoadMany(ctx context.Context, keys []K) (map[K]V, error) {
	out := make(map[K]V, len(keys))
	var missing []K
	seen := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if e, ok := l.cached(k); ok {
			if e.found {
				out[k] = e.value
			}
			continue
		}
		missing = append(missing, k)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetch := &sharedFetch[K, V]{}
	results := make([]<-chan singleflight.Result, len(missing))
	for i, k := range missing {
		results[i] = l.group.DoChan(fmt.Sprint(k), func() (any, error) {
			if e, ok := l.cached(k); ok {
				return e, nil
			}
			values, err := fetch.run(ctx, l, missing)
			if err != nil {
				return nil, err
			}
			v, ok := values[k]
			return entry[V]{value: v, found: ok}, nil
		})
	}
	for i, ch := range results {
		select {
		case res := <-ch:
			if res.Err != nil {
				return nil, res.Err
			}
			if e := res.Val.(entry[V]); e.found {
				out[missing[i]] = e.value
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, nil
}
