package codec

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistryCachesAdapters tests that one adapter is kept per type
func TestRegistryCachesAdapters(t *testing.T) {
	reg := NewRegistry(0)
	assert.Equal(t, 0, reg.Len())

	_, _, err := Encode(reg, JSON([]int{1}))
	require.NoError(t, err)
	_, err = DecodeJSON[[]int](reg, []byte("[2]"))
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	_, _, err = Encode(reg, JSON(point{}))
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	assert.Same(t, reg.adapter(reflect.TypeFor[point]()), reg.adapter(reflect.TypeFor[point]()))
}

// TestRegistryBounded tests the LRU bound
func TestRegistryBounded(t *testing.T) {
	reg := NewRegistry(2)

	_, _, _ = Encode(reg, JSON(1))
	_, _, _ = Encode(reg, JSON("a"))
	_, _, _ = Encode(reg, JSON(point{}))
	assert.Equal(t, 2, reg.Len())
}

// TestNilRegistry tests that a nil registry works without caching
func TestNilRegistry(t *testing.T) {
	var reg *Registry
	data, contentType, err := Encode(reg, JSON(point{X: 1}))
	require.NoError(t, err)
	got, err := Decode(reg, data, contentType, point{}, false)
	require.NoError(t, err)
	assert.Equal(t, point{X: 1}, got)
	assert.Equal(t, 0, reg.Len())
}

// TestRegistryConcurrent tests concurrent population of the registry
func TestRegistryConcurrent(t *testing.T) {
	reg := NewRegistry(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, contentType, err := Encode(reg, JSON(point{X: i}))
			assert.NoError(t, err)
			got, err := Decode(reg, data, contentType, point{}, false)
			assert.NoError(t, err)
			assert.Equal(t, i, got.X)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, reg.Len())
}
