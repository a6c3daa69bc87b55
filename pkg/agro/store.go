package agro

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ppmalta/AgroIPA/internal/constants"
)

// Family identifies a cached resource family. Every cache key starts with its
// family, and mutations invalidate whole families.
type Family string

const (
	FamilyDeliveryPoints Family = "delivery-points"
	FamilyDeliveryRoutes Family = "delivery-routes"
	FamilyAgents         Family = "agents"
	FamilySeedRequests   Family = "seed-requests"
	FamilySeedTypes      Family = "seed-types"
)

// Policy controls caching behavior for one resource family.
type Policy struct {
	// Staleness is the window during which a cached value is served without
	// revalidation. Past it the value is still served, but a background
	// refetch runs (stale-while-revalidate).
	Staleness time.Duration
	// RefreshInterval drives periodic background refresh for subscribed
	// keys. Zero means manual refresh only.
	RefreshInterval time.Duration
	// HardTTL is the point past which the entry is dropped entirely.
	HardTTL time.Duration
}

// DefaultPolicies returns the per-family cache policies.
func DefaultPolicies() map[Family]Policy {
	return map[Family]Policy{
		FamilyDeliveryPoints: {
			Staleness:       constants.DeliveryPointStaleness,
			RefreshInterval: constants.DeliveryPointRefreshInterval,
			HardTTL:         10 * time.Minute,
		},
		FamilyDeliveryRoutes: {
			Staleness:       constants.DeliveryRouteStaleness,
			RefreshInterval: constants.DeliveryRouteRefreshInterval,
			HardTTL:         5 * time.Minute,
		},
		FamilyAgents: {
			Staleness:       constants.AgentStaleness,
			RefreshInterval: constants.AgentRefreshInterval,
			HardTTL:         time.Minute,
		},
		FamilySeedRequests: {
			Staleness: constants.SeedRequestStaleness,
			HardTTL:   10 * time.Minute,
		},
		FamilySeedTypes: {
			Staleness: constants.SeedTypeStaleness,
			HardTTL:   time.Hour,
		},
	}
}

// QueryStore is the read-side cache for resource queries. It serves fresh
// entries directly, serves stale entries while revalidating in the background,
// de-duplicates concurrent fetches for the same key, and discards responses
// that lost the race against a newer fetch for that key.
//
// The store is an explicit dependency rather than package state; tests build a
// fresh store per case. Consumers read through Query; only the store's own
// refetch logic and the Mutator write to it.
type QueryStore struct {
	cache    Cache
	logger   Logger
	policies map[Family]Policy
	group    singleflight.Group

	mu         sync.Mutex
	keys       map[Family]map[string]struct{}
	nextSeq    map[string]uint64
	appliedSeq map[string]uint64
	refreshers map[string]*refresher
	closed     bool

	statsMu sync.Mutex
	stats   CacheStats
}

// StoreOption configures a QueryStore.
type StoreOption func(*QueryStore)

// WithStoreLogger sets the logger used for background refresh failures.
func WithStoreLogger(logger Logger) StoreOption {
	return func(s *QueryStore) { s.logger = logger }
}

// WithPolicies replaces the default per-family policies.
func WithPolicies(policies map[Family]Policy) StoreOption {
	return func(s *QueryStore) { s.policies = policies }
}

// WithPolicy overrides the policy for a single family.
func WithPolicy(family Family, policy Policy) StoreOption {
	return func(s *QueryStore) { s.policies[family] = policy }
}

// NewQueryStore creates a query store on the given cache backend.
func NewQueryStore(cache Cache, opts ...StoreOption) *QueryStore {
	store := &QueryStore{
		cache:      cache,
		policies:   DefaultPolicies(),
		keys:       make(map[Family]map[string]struct{}),
		nextSeq:    make(map[string]uint64),
		appliedSeq: make(map[string]uint64),
		refreshers: make(map[string]*refresher),
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// DetailKeyPart builds the key part for a single-resource query.
func DetailKeyPart(id int) string {
	return "id=" + strconv.Itoa(id)
}

// key builds the full cache key: "family" or "family:part".
func (s *QueryStore) key(family Family, keyPart string) string {
	if keyPart == "" {
		return string(family)
	}

	return string(family) + ":" + keyPart
}

// PolicyFor returns the policy for a family, or a zero-staleness policy for
// unknown families.
func (s *QueryStore) PolicyFor(family Family) Policy {
	if policy, ok := s.policies[family]; ok {
		return policy
	}

	return Policy{HardTTL: constants.DefaultCacheTTL}
}

// Stats returns a snapshot of cache effectiveness counters.
func (s *QueryStore) Stats() CacheStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	return s.stats
}

// Invalidate drops every cached key of the family. Coarse by design: a
// mutation on any resource of the family invalidates all filtered views so no
// consumer reads stale data, at the cost of extra refetches.
func (s *QueryStore) Invalidate(ctx context.Context, family Family) {
	s.mu.Lock()
	keys := make([]string, 0, len(s.keys[family]))
	for key := range s.keys[family] {
		keys = append(keys, key)
	}
	s.mu.Unlock()

	for _, key := range keys {
		_ = s.cache.Delete(ctx, key)

		s.statsMu.Lock()
		s.stats.Deletes++
		s.statsMu.Unlock()
	}
}

// Close stops all background refreshers. Queries against a closed store fail.
func (s *QueryStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true

	for _, r := range s.refreshers {
		r.stop()
	}

	s.refreshers = make(map[string]*refresher)
}

// FetchFunc loads the authoritative value for a key from the API.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Query reads a value through the store. A fresh entry is returned directly.
// A stale entry is returned immediately while a background revalidation runs.
// A missing entry blocks until the first fetch resolves, and concurrent
// callers for the same key share that single fetch.
func Query[T any](ctx context.Context, s *QueryStore, family Family, keyPart string, fetch FetchFunc[T]) (T, error) {
	var zero T

	key := s.key(family, keyPart)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return zero, ErrStoreClosed
	}

	if s.keys[family] == nil {
		s.keys[family] = make(map[string]struct{})
	}

	s.keys[family][key] = struct{}{}
	s.mu.Unlock()

	entry, err := s.cache.Get(ctx, key)
	if err == nil {
		var value T
		if decodeErr := json.Unmarshal(entry.Data, &value); decodeErr != nil {
			return zero, fmt.Errorf("%w: %v", ErrDecode, decodeErr)
		}

		s.statsMu.Lock()
		if entry.Stale() {
			s.stats.StaleHits++
		} else {
			s.stats.Hits++
		}
		s.statsMu.Unlock()

		if entry.Stale() {
			go revalidate(context.Background(), s, family, key, fetch)
		}

		return value, nil
	}

	s.statsMu.Lock()
	s.stats.Misses++
	s.statsMu.Unlock()

	result, fetchErr, _ := s.group.Do(key, func() (interface{}, error) {
		seq := s.issueSeq(key)

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		if err := s.apply(ctx, family, key, seq, value); err != nil {
			return nil, err
		}

		return value, nil
	})
	if fetchErr != nil {
		return zero, fetchErr
	}

	value, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%w: unexpected cached type", ErrDecode)
	}

	return value, nil
}

// revalidate refetches a key in the background. Errors keep the stale entry in
// place; the next read retries.
func revalidate[T any](ctx context.Context, s *QueryStore, family Family, key string, fetch FetchFunc[T]) {
	_, err, _ := s.group.Do(key, func() (interface{}, error) {
		seq := s.issueSeq(key)

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		if err := s.apply(ctx, family, key, seq, value); err != nil {
			return nil, err
		}

		return value, nil
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("background revalidation failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// issueSeq hands out the next fetch sequence number for a key.
func (s *QueryStore) issueSeq(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq[key]++

	return s.nextSeq[key]
}

// apply writes a fetched value to the cache unless a later-issued fetch for
// the same key already landed. Without the guard a slow response could
// overwrite a fresher one (last-write-wins regression).
func (s *QueryStore) apply(ctx context.Context, family Family, key string, seq uint64, value interface{}) error {
	s.mu.Lock()
	if seq <= s.appliedSeq[key] {
		s.mu.Unlock()

		return nil
	}

	s.appliedSeq[key] = seq
	s.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cached value: %w", err)
	}

	policy := s.PolicyFor(family)
	now := time.Now()

	entry := &CacheEntry{
		Data:      data,
		StoredAt:  now,
		StaleAt:   now.Add(policy.Staleness),
		ExpiresAt: now.Add(policy.HardTTL),
	}

	if err := s.cache.Set(ctx, key, entry); err != nil {
		return fmt.Errorf("storing cached value: %w", err)
	}

	s.statsMu.Lock()
	s.stats.Sets++
	s.statsMu.Unlock()

	return nil
}

// refresher drives periodic background refresh for one subscribed key.
type refresher struct {
	ticker   *time.Ticker
	done     chan struct{}
	refcount int
}

func (r *refresher) stop() {
	r.ticker.Stop()
	close(r.done)
}

// Subscribe registers interest in a key and starts periodic background
// refresh per the family's policy. The returned cancel function releases the
// subscription; the ticker stops when the last subscriber cancels. Families
// with no refresh interval return a no-op cancel.
func Subscribe[T any](s *QueryStore, family Family, keyPart string, fetch FetchFunc[T]) func() {
	policy := s.PolicyFor(family)
	if policy.RefreshInterval == 0 {
		return func() {}
	}

	key := s.key(family, keyPart)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}

	if r, ok := s.refreshers[key]; ok {
		r.refcount++

		return s.unsubscribeFunc(key)
	}

	r := &refresher{
		ticker:   time.NewTicker(policy.RefreshInterval),
		done:     make(chan struct{}),
		refcount: 1,
	}
	s.refreshers[key] = r

	go func() {
		for {
			select {
			case <-r.ticker.C:
				revalidate(context.Background(), s, family, key, fetch)
			case <-r.done:
				return
			}
		}
	}()

	return s.unsubscribeFunc(key)
}

// unsubscribeFunc builds a once-only cancel for a subscribed key.
func (s *QueryStore) unsubscribeFunc(key string) func() {
	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			r, ok := s.refreshers[key]
			if !ok {
				return
			}

			r.refcount--
			if r.refcount <= 0 {
				r.stop()
				delete(s.refreshers, key)
			}
		})
	}
}
