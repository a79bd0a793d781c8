package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicOperations(t *testing.T) {
	c := New(time.Minute, time.Minute)

	c.Set(KeyView, 1)
	v, ok := c.Get(KeyView)
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, c.ItemCount())

	c.Delete(KeyView)
	_, ok = c.Get(KeyView)
	assert.False(t, ok)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	assert.Equal(t, Stats{ItemCount: 0}, c.GetStats())
}

func TestExpiration(t *testing.T) {
	c := New(20*time.Millisecond, time.Hour)
	c.Set(KeyView, "x")
	assert.Eventually(t, func() bool {
		_, ok := c.Get(KeyView)
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestGetOrLoad(t *testing.T) {
	c := New(time.Minute, time.Minute)
	calls := 0
	load := func() (any, error) {
		calls++
		return "loaded", nil
	}

	v, hit, err := c.GetOrLoad(KeyView, load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "loaded", v)

	v, hit, err = c.GetOrLoad(KeyView, load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "loaded", v)
	assert.Equal(t, 1, calls)
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	c := New(time.Minute, time.Minute)
	boom := errors.New("boom")

	_, _, err := c.GetOrLoad(KeyView, func() (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.ItemCount())

	v, _, err := c.GetOrLoad(KeyView, func() (any, error) { return 2, nil })
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestGetOrLoadSharesConcurrentMisses(t *testing.T) {
	c := New(time.Minute, time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := c.GetOrLoad("other", func() (any, error) {
				calls.Add(1)
				<-release
				return "dup", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "dup", v)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(2))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}
