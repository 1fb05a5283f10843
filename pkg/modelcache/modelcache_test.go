package modelcache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	modelcache "github.com/mutablelogic/go-gemini/pkg/modelcache"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

func models(names ...string) []schema.Model {
	result := make([]schema.Model, 0, len(names))
	for _, name := range names {
		result = append(result, schema.Model{Name: name, Methods: []string{"generateContent"}})
	}
	return result
}

func counter(calls *int) modelcache.GetModelFunc {
	return func(_ context.Context, name string) (*schema.Model, error) {
		*calls++
		return &schema.Model{Name: name, DisplayName: "Model " + name}, nil
	}
}

// Fetch once, then serve from the cache
func Test_modelcache_001(t *testing.T) {
	assert := assert.New(t)
	cache := modelcache.NewModelCache(time.Hour, 4)

	var calls int
	model, err := cache.GetModel(context.TODO(), "gemini-2.5-flash", counter(&calls))
	assert.NoError(err)
	assert.Equal("Model gemini-2.5-flash", model.DisplayName)

	// The resource prefix is ignored
	model, err = cache.GetModel(context.TODO(), "models/gemini-2.5-flash", counter(&calls))
	assert.NoError(err)
	assert.Equal("gemini-2.5-flash", model.Name)
	assert.Equal(1, calls)
}

// Expired entries are fetched again
func Test_modelcache_002(t *testing.T) {
	assert := assert.New(t)
	cache := modelcache.NewModelCache(10*time.Millisecond, 4)

	var calls int
	_, err := cache.GetModel(context.TODO(), "a", counter(&calls))
	assert.NoError(err)
	time.Sleep(20 * time.Millisecond)
	_, err = cache.GetModel(context.TODO(), "a", counter(&calls))
	assert.NoError(err)
	assert.Equal(2, calls)
}

// A model which disappears is dropped from the cache
func Test_modelcache_003(t *testing.T) {
	assert := assert.New(t)
	cache := modelcache.NewModelCache(10*time.Millisecond, 4)

	var calls int
	_, err := cache.GetModel(context.TODO(), "a", counter(&calls))
	assert.NoError(err)
	time.Sleep(20 * time.Millisecond)

	_, err = cache.GetModel(context.TODO(), "a", func(context.Context, string) (*schema.Model, error) {
		return nil, gemini.ErrNotFound.With("a")
	})
	assert.ErrorIs(err, gemini.ErrNotFound)

	_, err = cache.GetModel(context.TODO(), "a", counter(&calls))
	assert.NoError(err)
	assert.Equal(2, calls)
}

// List results are sorted and seed the per-model cache
func Test_modelcache_004(t *testing.T) {
	assert := assert.New(t)
	cache := modelcache.NewModelCache(time.Hour, 4)

	var listCalls int
	list := func(context.Context, ...opt.Opt) ([]schema.Model, error) {
		listCalls++
		return models("gemini-2.5-pro", "embedding-001", "gemini-2.0-flash"), nil
	}
	result, err := cache.ListModels(context.TODO(), nil, list)
	assert.NoError(err)
	if assert.Len(result, 3) {
		assert.Equal("embedding-001", result[0].Name)
		assert.Equal("gemini-2.5-pro", result[2].Name)
	}

	_, err = cache.ListModels(context.TODO(), nil, list)
	assert.NoError(err)
	assert.Equal(1, listCalls)

	var getCalls int
	model, err := cache.GetModel(context.TODO(), "gemini-2.0-flash", counter(&getCalls))
	assert.NoError(err)
	assert.True(model.Supports("generateContent"))
	assert.Zero(getCalls)
}

// Errors pass through and nothing is cached
func Test_modelcache_005(t *testing.T) {
	assert := assert.New(t)
	cache := modelcache.NewModelCache(time.Hour, 4)
	cause := errors.New("unavailable")

	result, err := cache.ListModels(context.TODO(), nil, func(context.Context, ...opt.Opt) ([]schema.Model, error) {
		return nil, cause
	})
	assert.ErrorIs(err, cause)
	assert.Nil(result)

	var calls int
	_, err = cache.GetModel(context.TODO(), "a", counter(&calls))
	assert.NoError(err)
	assert.Equal(1, calls)
}

// A zero TTL disables caching and Flush empties the cache
func Test_modelcache_006(t *testing.T) {
	assert := assert.New(t)

	var calls int
	list := func(context.Context, ...opt.Opt) ([]schema.Model, error) {
		calls++
		return models("a"), nil
	}

	uncached := modelcache.NewModelCache(0, 1)
	uncached.ListModels(context.TODO(), nil, list)
	uncached.ListModels(context.TODO(), nil, list)
	assert.Equal(2, calls)

	cached := modelcache.NewModelCache(time.Hour, 1)
	cached.ListModels(context.TODO(), nil, list)
	cached.Flush()
	cached.ListModels(context.TODO(), nil, list)
	assert.Equal(4, calls)
}

// Concurrent readers share the cache
func Test_modelcache_007(t *testing.T) {
	assert := assert.New(t)
	cache := modelcache.NewModelCache(time.Hour, 1)

	var calls atomic.Int32
	fn := func(_ context.Context, name string) (*schema.Model, error) {
		calls.Add(1)
		return &schema.Model{Name: name}, nil
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			model, err := cache.GetModel(context.TODO(), "a", fn)
			assert.NoError(err)
			assert.Equal("a", model.Name)
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(calls.Load(), int32(1))
}

// Concurrent lookups of an uncached model share one fetch
func Test_modelcache_008(t *testing.T) {
	assert := assert.New(t)
	cache := modelcache.NewModelCache(time.Hour, 1)

	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(_ context.Context, name string) (*schema.Model, error) {
		calls.Add(1)
		<-release
		return &schema.Model{Name: name}, nil
	}

	var wg sync.WaitGroup
	var started sync.WaitGroup
	for range 8 {
		wg.Add(1)
		started.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			model, err := cache.GetModel(context.TODO(), "models/b", fn)
			assert.NoError(err)
			assert.Equal("b", model.Name)
		}()
	}
	started.Wait()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	// Late arrivals may miss the shared fetch but then hit the cache
	assert.Equal(int32(1), calls.Load())
}
