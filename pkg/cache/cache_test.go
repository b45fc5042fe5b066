package cache_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/inbucket/mailview/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLoader returns key with a suffix, and counts calls per key.
type countingLoader struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
}

func newCountingLoader() *countingLoader {
	return &countingLoader{calls: make(map[string]int), fail: make(map[string]error)}
}

func (l *countingLoader) load(key string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[key]++
	if err := l.fail[key]; err != nil {
		return "", err
	}
	return key + "-value", nil
}

func (l *countingLoader) count(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[key]
}

func TestNewRejectsBadArgs(t *testing.T) {
	_, err := cache.New(0, newCountingLoader().load)
	assert.Error(t, err)
	_, err = cache.New[string](1, nil)
	assert.Error(t, err)
}

func TestGetOrLoadMemoizes(t *testing.T) {
	l := newCountingLoader()
	c, err := cache.New(cache.DefaultSize, l.load)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("a")
		require.NoError(t, err)
		assert.Equal(t, "a-value", v)
	}
	assert.Equal(t, 1, l.count("a"))
	assert.Equal(t, 1, c.Len())
}

func TestGetOrLoadEvictsLeastRecentlyUsed(t *testing.T) {
	l := newCountingLoader()
	c, err := cache.New(3, l.load)
	require.NoError(t, err)

	for _, k := range []string{"a", "b", "c"} {
		_, err := c.GetOrLoad(k)
		require.NoError(t, err)
	}
	// Touch a so b becomes least recently used.
	_, err = c.GetOrLoad("a")
	require.NoError(t, err)
	_, err = c.GetOrLoad("d")
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.False(t, c.Contains("b"))
	assert.True(t, c.Contains("a"))

	_, err = c.GetOrLoad("b")
	require.NoError(t, err)
	assert.Equal(t, 2, l.count("b"), "evicted key should reload")
	assert.Equal(t, 1, l.count("a"))
}

func TestGetOrLoadCapacityPlusOne(t *testing.T) {
	l := newCountingLoader()
	c, err := cache.New(cache.DefaultSize, l.load)
	require.NoError(t, err)

	for i := 0; i <= cache.DefaultSize; i++ {
		_, err := c.GetOrLoad(fmt.Sprintf("k%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, cache.DefaultSize, c.Len())
	assert.False(t, c.Contains("k0"))

	_, err = c.GetOrLoad("k0")
	require.NoError(t, err)
	assert.Equal(t, 2, l.count("k0"))
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	l := newCountingLoader()
	boom := errors.New("boom")
	l.fail["x"] = boom
	c, err := cache.New(2, l.load)
	require.NoError(t, err)

	_, err = c.GetOrLoad("x")
	assert.ErrorIs(t, err, boom)
	_, err = c.GetOrLoad("x")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, l.count("x"))
	assert.Equal(t, 0, c.Len())

	// Recovers once the loader succeeds.
	l.mu.Lock()
	delete(l.fail, "x")
	l.mu.Unlock()
	v, err := c.GetOrLoad("x")
	require.NoError(t, err)
	assert.Equal(t, "x-value", v)
}

func TestRemoveAndPurge(t *testing.T) {
	l := newCountingLoader()
	c, err := cache.New(4, l.load)
	require.NoError(t, err)

	_, _ = c.GetOrLoad("a")
	_, _ = c.GetOrLoad("b")
	c.Remove("a")
	assert.False(t, c.Contains("a"))
	assert.True(t, c.Contains("b"))

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestGetOrLoadConcurrentSameKey(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	loader := func(key string) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}
	c, err := cache.New(cache.DefaultSize, loader)
	require.NoError(t, err)

	const workers = 16
	var started, done sync.WaitGroup
	started.Add(workers)
	done.Add(workers)
	results := make([]int, workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			v, err := c.GetOrLoad("same")
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	started.Wait()
	close(release)
	done.Wait()

	for _, v := range results {
		assert.Equal(t, 42, v)
	}
	// Workers that arrive after the first load finished are hits; none load twice.
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetOrLoadConcurrentManyKeys(t *testing.T) {
	l := newCountingLoader()
	c, err := cache.New(8, l.load)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%20)
			v, err := c.GetOrLoad(key)
			assert.NoError(t, err)
			assert.Equal(t, key+"-value", v)
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 8)
}
