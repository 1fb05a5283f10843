/*
modelcache keeps model descriptors returned by the models endpoint, so
that repeated lookups do not call the API. Concurrent lookups for the same
model, or concurrent listings, share a single fetch.
*/
package modelcache

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	singleflight "golang.org/x/sync/singleflight"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// ModelCache holds model descriptors until they expire
type ModelCache struct {
	ttl    time.Duration
	mu     sync.RWMutex
	models map[string]entry
	fetch  singleflight.Group
}

type entry struct {
	expires time.Time
	model   schema.Model
}

type GetModelFunc func(context.Context, string) (*schema.Model, error)
type ListModelsFunc func(context.Context, ...opt.Opt) ([]schema.Model, error)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Key for listing in the singleflight group, which cannot be a model name
	listKey = "/"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewModelCache returns a cache which keeps models for ttl. A zero ttl
// disables caching.
func NewModelCache(ttl time.Duration, size int) *ModelCache {
	return &ModelCache{
		ttl:    max(ttl, 0),
		models: make(map[string]entry, size),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetModel returns a cached model, or calls fn to fetch it. The "models/"
// prefix is ignored when matching names.
func (mc *ModelCache) GetModel(ctx context.Context, name string, fn GetModelFunc) (*schema.Model, error) {
	name = strings.TrimPrefix(name, "models/")
	if model, ok := mc.get(name); ok {
		return &model, nil
	}

	result, err, _ := mc.fetch.Do(name, func() (any, error) {
		model, err := fn(ctx, name)
		if errors.Is(err, gemini.ErrNotFound) {
			mc.remove(name)
		}
		if err != nil {
			return nil, err
		}
		mc.put(*model)
		return *model, nil
	})
	if err != nil {
		return nil, err
	}
	model := result.(schema.Model)
	return &model, nil
}

// ListModels returns the cached models, or calls fn to fetch them when
// none are current. Models are sorted by name.
func (mc *ModelCache) ListModels(ctx context.Context, opts []opt.Opt, fn ListModelsFunc) ([]schema.Model, error) {
	if models := mc.list(); len(models) > 0 {
		return models, nil
	}

	result, err, _ := mc.fetch.Do(listKey, func() (any, error) {
		models, err := fn(ctx, opts...)
		if err != nil {
			return nil, err
		}
		mc.put(models...)
		return sorted(slices.Clone(models)), nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(result.([]schema.Model)), nil
}

// Flush removes all cached models
func (mc *ModelCache) Flush() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	clear(mc.models)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (mc *ModelCache) get(name string) (schema.Model, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	if e, ok := mc.models[name]; ok && time.Now().Before(e.expires) {
		return e.model, true
	}
	return schema.Model{}, false
}

// list returns current models and prunes expired ones
func (mc *ModelCache) list() []schema.Model {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	now := time.Now()
	result := make([]schema.Model, 0, len(mc.models))
	for name, e := range mc.models {
		if now.Before(e.expires) {
			result = append(result, e.model)
		} else {
			delete(mc.models, name)
		}
	}
	return sorted(result)
}

func (mc *ModelCache) put(models ...schema.Model) {
	if mc.ttl == 0 {
		return
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()
	expires := time.Now().Add(mc.ttl)
	for _, model := range models {
		mc.models[model.Name] = entry{expires: expires, model: model}
	}
}

func (mc *ModelCache) remove(name string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	delete(mc.models, name)
}

func sorted(models []schema.Model) []schema.Model {
	slices.SortFunc(models, func(a, b schema.Model) int {
		return strings.Compare(a.Name, b.Name)
	})
	return models
}
