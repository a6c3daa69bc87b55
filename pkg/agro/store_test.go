package agro_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppmalta/AgroIPA/pkg/agro"
)

var errFetchFailed = errors.New("fetch failed")

func freshPolicy() agro.Policy {
	return agro.Policy{Staleness: time.Minute, HardTTL: time.Hour}
}

func TestQuery_ConcurrentCallersShareOneFetch(t *testing.T) {
	t.Parallel()

	store := agro.NewQueryStore(agro.NewMemoryCache(10),
		agro.WithPolicy(agro.FamilySeedTypes, freshPolicy()))
	defer store.Close()

	var calls atomic.Int64

	gate := make(chan struct{})
	fetch := func(ctx context.Context) ([]agro.SeedType, error) {
		calls.Add(1)
		<-gate

		return []agro.SeedType{{ID: 1, Name: "Milho"}}, nil
	}

	const callers = 10

	var waitGroup sync.WaitGroup

	results := make([][]agro.SeedType, callers)
	errs := make([]error, callers)

	for i := range callers {
		waitGroup.Add(1)

		go func() {
			defer waitGroup.Done()

			results[i], errs[i] = agro.Query(context.Background(), store, agro.FamilySeedTypes, "", fetch)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(gate)
	waitGroup.Wait()

	assert.EqualValues(t, 1, calls.Load())

	for i := range callers {
		require.NoError(t, errs[i])
		require.Len(t, results[i], 1)
		assert.Equal(t, "Milho", results[i][0].Name)
	}
}

func TestQuery_FreshHitSkipsFetch(t *testing.T) {
	t.Parallel()

	store := agro.NewQueryStore(agro.NewMemoryCache(10),
		agro.WithPolicy(agro.FamilySeedTypes, freshPolicy()))
	defer store.Close()

	var calls atomic.Int64

	fetch := func(ctx context.Context) ([]agro.SeedType, error) {
		calls.Add(1)

		return []agro.SeedType{{ID: 1}}, nil
	}

	ctx := context.Background()

	_, err := agro.Query(ctx, store, agro.FamilySeedTypes, "", fetch)
	require.NoError(t, err)

	types, err := agro.Query(ctx, store, agro.FamilySeedTypes, "", fetch)
	require.NoError(t, err)
	require.Len(t, types, 1)

	assert.EqualValues(t, 1, calls.Load())

	stats := store.Stats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
	assert.EqualValues(t, 1, stats.Sets)
}

func TestQuery_StaleServedWhileRevalidating(t *testing.T) {
	t.Parallel()

	cache := agro.NewMemoryCache(10)
	store := agro.NewQueryStore(cache,
		agro.WithPolicy(agro.FamilySeedTypes, agro.Policy{Staleness: time.Millisecond, HardTTL: time.Hour}))
	defer store.Close()

	var calls atomic.Int64

	fetch := func(ctx context.Context) ([]agro.SeedType, error) {
		return []agro.SeedType{{ID: int(calls.Add(1))}}, nil
	}

	ctx := context.Background()

	first, err := agro.Query(ctx, store, agro.FamilySeedTypes, "", fetch)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, first[0].ID)

	time.Sleep(10 * time.Millisecond)

	// The stale entry is served immediately; revalidation runs behind it.
	second, err := agro.Query(ctx, store, agro.FamilySeedTypes, "", fetch)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, second[0].ID)

	require.Eventually(t, func() bool {
		entry, getErr := cache.Get(ctx, "seed-types")
		if getErr != nil {
			return false
		}

		var types []agro.SeedType
		if json.Unmarshal(entry.Data, &types) != nil {
			return false
		}

		return len(types) == 1 && types[0].ID == 2
	}, time.Second, 10*time.Millisecond)

	assert.GreaterOrEqual(t, store.Stats().StaleHits, int64(1))
}

func TestQuery_FetchErrorPropagates(t *testing.T) {
	t.Parallel()

	cache := agro.NewMemoryCache(10)
	store := agro.NewQueryStore(cache,
		agro.WithPolicy(agro.FamilyAgents, freshPolicy()))
	defer store.Close()

	fetch := func(ctx context.Context) ([]agro.Agent, error) {
		return nil, errFetchFailed
	}

	_, err := agro.Query(context.Background(), store, agro.FamilyAgents, "", fetch)
	require.ErrorIs(t, err, errFetchFailed)
	assert.False(t, cache.Has(context.Background(), "agents"))
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	store := agro.NewQueryStore(agro.NewMemoryCache(10),
		agro.WithPolicy(agro.FamilySeedTypes, freshPolicy()),
		agro.WithPolicy(agro.FamilyAgents, freshPolicy()))
	defer store.Close()

	var typeCalls, agentCalls atomic.Int64

	fetchTypes := func(ctx context.Context) ([]agro.SeedType, error) {
		typeCalls.Add(1)

		return []agro.SeedType{}, nil
	}
	fetchAgents := func(ctx context.Context) ([]agro.Agent, error) {
		agentCalls.Add(1)

		return []agro.Agent{}, nil
	}

	ctx := context.Background()

	_, err := agro.Query(ctx, store, agro.FamilySeedTypes, "", fetchTypes)
	require.NoError(t, err)
	_, err = agro.Query(ctx, store, agro.FamilySeedTypes, "id=1", fetchTypes)
	require.NoError(t, err)
	_, err = agro.Query(ctx, store, agro.FamilyAgents, "", fetchAgents)
	require.NoError(t, err)

	store.Invalidate(ctx, agro.FamilySeedTypes)

	// Every key of the invalidated family refetches; other families keep
	// their cached entries.
	_, err = agro.Query(ctx, store, agro.FamilySeedTypes, "", fetchTypes)
	require.NoError(t, err)
	_, err = agro.Query(ctx, store, agro.FamilySeedTypes, "id=1", fetchTypes)
	require.NoError(t, err)
	_, err = agro.Query(ctx, store, agro.FamilyAgents, "", fetchAgents)
	require.NoError(t, err)

	assert.EqualValues(t, 4, typeCalls.Load())
	assert.EqualValues(t, 1, agentCalls.Load())
}

func TestQuery_ClosedStore(t *testing.T) {
	t.Parallel()

	store := agro.NewQueryStore(agro.NewMemoryCache(10))
	store.Close()

	_, err := agro.Query(context.Background(), store, agro.FamilySeedTypes, "", func(ctx context.Context) ([]agro.SeedType, error) {
		return nil, nil
	})
	require.ErrorIs(t, err, agro.ErrStoreClosed)
}

func TestSubscribe_PeriodicRefresh(t *testing.T) {
	t.Parallel()

	store := agro.NewQueryStore(agro.NewMemoryCache(10),
		agro.WithPolicy(agro.FamilyAgents, agro.Policy{
			Staleness:       time.Millisecond,
			RefreshInterval: 20 * time.Millisecond,
			HardTTL:         time.Hour,
		}))
	defer store.Close()

	var calls atomic.Int64

	fetch := func(ctx context.Context) ([]agro.Agent, error) {
		calls.Add(1)

		return []agro.Agent{{ID: 1}}, nil
	}

	cancel := agro.Subscribe(store, agro.FamilyAgents, "", fetch)

	require.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	cancel() // second cancel is a no-op

	settled := calls.Load()
	time.Sleep(60 * time.Millisecond)

	// One refresh may already be in flight when the ticker stops.
	assert.LessOrEqual(t, calls.Load(), settled+1)
}

func TestSubscribe_NoRefreshInterval(t *testing.T) {
	t.Parallel()

	store := agro.NewQueryStore(agro.NewMemoryCache(10),
		agro.WithPolicy(agro.FamilySeedTypes, freshPolicy()))
	defer store.Close()

	var calls atomic.Int64

	cancel := agro.Subscribe(store, agro.FamilySeedTypes, "", func(ctx context.Context) ([]agro.SeedType, error) {
		calls.Add(1)

		return nil, nil
	})
	defer cancel()

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestSubscribe_RefcountedCancel(t *testing.T) {
	t.Parallel()

	store := agro.NewQueryStore(agro.NewMemoryCache(10),
		agro.WithPolicy(agro.FamilyAgents, agro.Policy{
			Staleness:       time.Millisecond,
			RefreshInterval: 15 * time.Millisecond,
			HardTTL:         time.Hour,
		}))
	defer store.Close()

	var calls atomic.Int64

	fetch := func(ctx context.Context) ([]agro.Agent, error) {
		calls.Add(1)

		return []agro.Agent{}, nil
	}

	cancelFirst := agro.Subscribe(store, agro.FamilyAgents, "", fetch)
	cancelSecond := agro.Subscribe(store, agro.FamilyAgents, "", fetch)

	cancelFirst()

	// The remaining subscriber keeps the refresh ticking.
	before := calls.Load()
	require.Eventually(t, func() bool {
		return calls.Load() > before
	}, time.Second, 10*time.Millisecond)

	cancelSecond()

	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), settled+1)
}
