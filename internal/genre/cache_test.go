package genre

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_ConcurrentCallersResolveOnce(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.add("Abbey Road (Beatles album)", "rock", "pop")
	fetcher.delay = 50 * time.Millisecond

	cache := NewCache(NewResolver(fetcher, nil).Resolve, nil)

	const callers = 32
	results := make([][]string, callers)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			genres, err := cache.Resolve(context.Background(), "Beatles", "Abbey Road")
			assert.NoError(t, err)
			results[i] = genres
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, []string{"Abbey Road (Beatles album)"}, fetcher.queries())
	for i, got := range results {
		assert.Equal(t, []string{"rock", "pop"}, got, "caller %d", i)
	}

	stats := cache.Stats()
	assert.Equal(t, int64(callers), stats.Requests)
	assert.Equal(t, 1, stats.Keys)
}

func TestCache_EmptyResultIsCached(t *testing.T) {
	var calls atomic.Int32
	cache := NewCache(func(ctx context.Context, artist, album string) []string {
		calls.Add(1)
		return nil
	}, nil)

	for range 3 {
		genres, err := cache.Resolve(context.Background(), "Unknown", "Nothing")
		require.NoError(t, err)
		assert.Empty(t, genres)
	}

	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_KeysAreExactValues(t *testing.T) {
	var calls atomic.Int32
	cache := NewCache(func(ctx context.Context, artist, album string) []string {
		calls.Add(1)
		return []string{artist + "/" + album}
	}, nil)

	ctx := context.Background()
	a, _ := cache.Resolve(ctx, "Beatles", "Abbey Road")
	b, _ := cache.Resolve(ctx, "beatles", "Abbey Road")
	c, _ := cache.Resolve(ctx, "", "Abbey Road")

	assert.Equal(t, []string{"Beatles/Abbey Road"}, a)
	assert.Equal(t, []string{"beatles/Abbey Road"}, b)
	assert.Equal(t, []string{"/Abbey Road"}, c)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCache_PanicCompletesEntry(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	cache := NewCache(func(ctx context.Context, artist, album string) []string {
		calls.Add(1)
		<-release
		panic("boom")
	}, nil)

	var wg sync.WaitGroup
	waiterDone := make(chan []string, 1)

	// Owner
	wg.Add(1)
	go func() {
		defer wg.Done()
		genres, err := cache.Resolve(context.Background(), "Beatles", "Abbey Road")
		assert.NoError(t, err)
		assert.Empty(t, genres)
	}()

	// Wait for the owner to register the entry before starting the waiter.
	require.Eventually(t, func() bool { return cache.Stats().Keys == 1 }, time.Second, time.Millisecond)

	wg.Add(1)
	go func() {
		defer wg.Done()
		genres, err := cache.Resolve(context.Background(), "Beatles", "Abbey Road")
		assert.NoError(t, err)
		waiterDone <- genres
	}()

	close(release)

	select {
	case genres := <-waiterDone:
		assert.Empty(t, genres)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter blocked after owner panicked")
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_WaiterContextCancelled(t *testing.T) {
	release := make(chan struct{})
	cache := NewCache(func(ctx context.Context, artist, album string) []string {
		<-release
		return []string{"rock"}
	}, nil)

	ownerDone := make(chan []string, 1)
	go func() {
		genres, _ := cache.Resolve(context.Background(), "Beatles", "Abbey Road")
		ownerDone <- genres
	}()
	require.Eventually(t, func() bool { return cache.Stats().Keys == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cache.Resolve(ctx, "Beatles", "Abbey Road")
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	assert.Equal(t, []string{"rock"}, <-ownerDone)

	// The entry is still served to later callers.
	genres, err := cache.Resolve(context.Background(), "Beatles", "Abbey Road")
	require.NoError(t, err)
	assert.Equal(t, []string{"rock"}, genres)
}

func TestCache_OwnerCancelledDoesNotPoisonEntry(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.add("Drones (Muse album)", "alternative rock")
	fetcher.delay = 50 * time.Millisecond

	cache := NewCache(NewResolver(fetcher, nil).Resolve, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	genres, err := cache.Resolve(ctx, "Muse", "Drones")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, genres)

	genres, err = cache.Resolve(context.Background(), "Muse", "Drones")
	require.NoError(t, err)
	assert.Equal(t, []string{"alternative rock"}, genres)
	assert.Equal(t, []string{"Drones (Muse album)"}, fetcher.queries(), "resolved once")
}
