package flight

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetCachesValue(t *testing.T) {
	var calls atomic.Int32
	c := NewCache(func(k string) (string, error) {
		calls.Add(1)
		return "value:" + k, nil
	})

	v, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "value:a", v)

	v, err = c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "value:a", v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int32
	c := NewCache(func(k string) (int, error) {
		if calls.Add(1) == 1 {
			return 0, errors.New("boom")
		}
		return 7, nil
	})

	_, err := c.Get("k")
	require.Error(t, err)

	v, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCache_CoalescesConcurrentLoads(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := NewCache(func(k string) (string, error) {
		calls.Add(1)
		<-release
		return k, nil
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			v, err := c.Get("same")
			assert.NoError(t, err)
			assert.Equal(t, "same", v)
		})
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_Forget(t *testing.T) {
	var calls atomic.Int32
	c := NewCache(func(k string) (int32, error) {
		return calls.Add(1), nil
	})
	c.Expiry(0)

	first, _ := c.Get("k")
	c.Forget("k")
	second, _ := c.Get("k")

	assert.Equal(t, int32(1), first)
	assert.Equal(t, int32(2), second)
}

func TestCache_Expiry(t *testing.T) {
	var calls atomic.Int32
	c := NewCache(func(string) (int32, error) {
		return calls.Add(1), nil
	})
	c.Expiry(10 * time.Millisecond)

	first, err := c.Get("k")
	require.NoError(t, err)
	again, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	time.Sleep(20 * time.Millisecond)
	reloaded, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, int32(2), reloaded)
}
