package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// SHARED THREAD STORE TESTS

type threadStoreTest struct {
	Name string
	Fn   func(*testing.T, schema.ThreadStore)
}

var threadStoreTests = []threadStoreTest{
	// Create
	{"CreateDefaults", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		thread, err := s.CreateThread(context.TODO(), schema.ThreadMeta{})
		assert.NoError(err)
		assert.NotEmpty(thread.ID)
		assert.Equal(schema.ObjectThread, thread.Object)
		assert.Equal(gemini.DefaultThreadModel, thread.Model)
		assert.NotNil(thread.Metadata)
		assert.Empty(thread.Metadata)
		assert.NotZero(thread.CreatedAt)
	}},
	{"CreateWithMeta", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		thread, err := s.CreateThread(context.TODO(), schema.ThreadMeta{
			Model:    "gemini-2.0-flash",
			Metadata: map[string]any{"user": "alice"},
		})
		assert.NoError(err)
		assert.Equal("gemini-2.0-flash", thread.Model)
		assert.Equal(map[string]any{"user": "alice"}, thread.Metadata)
	}},
	{"CreateUniqueIDs", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		t1, err := s.CreateThread(context.TODO(), schema.ThreadMeta{})
		assert.NoError(err)
		t2, err := s.CreateThread(context.TODO(), schema.ThreadMeta{})
		assert.NoError(err)
		assert.NotEqual(t1.ID, t2.ID)
	}},
	{"CreateCopiesMetadata", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		meta := map[string]any{"k": "v"}
		thread, err := s.CreateThread(context.TODO(), schema.ThreadMeta{Metadata: meta})
		assert.NoError(err)
		meta["k"] = "changed"
		thread.Metadata["k"] = "also changed"
		got, err := s.GetThread(context.TODO(), thread.ID)
		assert.NoError(err)
		assert.Equal("v", got.Metadata["k"])
	}},

	// Get
	{"GetNotFound", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		_, err := s.GetThread(context.TODO(), "missing")
		assert.ErrorIs(err, gemini.ErrNotFound)
		assert.Contains(err.Error(), "missing")
	}},

	// Update
	{"UpdateModelOnly", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		thread, _ := s.CreateThread(context.TODO(), schema.ThreadMeta{Metadata: map[string]any{"a": 1}})
		got, err := s.UpdateThread(context.TODO(), thread.ID, schema.ThreadMeta{Model: "other"})
		assert.NoError(err)
		assert.Equal("other", got.Model)
		assert.Equal(map[string]any{"a": 1}, got.Metadata)
		assert.Equal(thread.CreatedAt, got.CreatedAt)
	}},
	{"UpdateMetadataReplaces", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		thread, _ := s.CreateThread(context.TODO(), schema.ThreadMeta{Model: "m", Metadata: map[string]any{"a": 1}})
		got, err := s.UpdateThread(context.TODO(), thread.ID, schema.ThreadMeta{Metadata: map[string]any{"b": 2}})
		assert.NoError(err)
		assert.Equal("m", got.Model)
		assert.Equal(map[string]any{"b": 2}, got.Metadata)
	}},
	{"UpdateNotFound", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		_, err := s.UpdateThread(context.TODO(), "missing", schema.ThreadMeta{Model: "m"})
		assert.ErrorIs(err, gemini.ErrNotFound)
	}},

	// Delete
	{"DeleteSuccess", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		thread, _ := s.CreateThread(context.TODO(), schema.ThreadMeta{})
		deleted, err := s.DeleteThread(context.TODO(), thread.ID)
		assert.NoError(err)
		assert.Equal(thread.ID, deleted.ID)
		assert.Equal(schema.ObjectThreadDeleted, deleted.Object)
		assert.True(deleted.Deleted)

		_, err = s.GetThread(context.TODO(), thread.ID)
		assert.ErrorIs(err, gemini.ErrNotFound)
		_, err = s.ListMessages(context.TODO(), thread.ID)
		assert.ErrorIs(err, gemini.ErrNotFound)
		_, err = s.DeleteThread(context.TODO(), thread.ID)
		assert.ErrorIs(err, gemini.ErrNotFound)
	}},

	// Model
	{"GetModel", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		thread, _ := s.CreateThread(context.TODO(), schema.ThreadMeta{Model: "m1"})
		model, err := s.GetModel(context.TODO(), thread.ID)
		assert.NoError(err)
		assert.Equal("m1", model)
		_, err = s.GetModel(context.TODO(), "missing")
		assert.ErrorIs(err, gemini.ErrNotFound)
	}},

	// List
	{"ListInCreationOrder", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		var ids []string
		for range 5 {
			thread, err := s.CreateThread(context.TODO(), schema.ThreadMeta{})
			assert.NoError(err)
			ids = append(ids, thread.ID)
		}
		_, err := s.DeleteThread(context.TODO(), ids[2])
		assert.NoError(err)
		threads, err := s.ListThreads(context.TODO())
		assert.NoError(err)
		var got []string
		for _, thread := range threads {
			got = append(got, thread.ID)
		}
		assert.Equal([]string{ids[0], ids[1], ids[3], ids[4]}, got)
	}},

	// Messages
	{"AppendAndList", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		thread, _ := s.CreateThread(context.TODO(), schema.ThreadMeta{})
		m1, err := s.AppendMessage(context.TODO(), thread.ID, schema.RoleUser, "Hello")
		assert.NoError(err)
		assert.Equal(schema.ObjectMessage, m1.Object)
		assert.Equal(thread.ID, m1.ThreadID)
		_, err = s.AppendMessage(context.TODO(), thread.ID, "assistant", "Hi")
		assert.NoError(err)

		messages, err := s.ListMessages(context.TODO(), thread.ID)
		assert.NoError(err)
		assert.Len(messages, 2)
		assert.Equal(schema.Turn{Role: schema.RoleUser, Text: "Hello"}, messages[0].Turn())
		assert.Equal(schema.Turn{Role: schema.RoleModel, Text: "Hi"}, messages[1].Turn())
	}},
	{"AppendInvalidRole", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		thread, _ := s.CreateThread(context.TODO(), schema.ThreadMeta{})
		_, err := s.AppendMessage(context.TODO(), thread.ID, "system", "nope")
		assert.ErrorIs(err, gemini.ErrBadParameter)
	}},
	{"AppendNotFound", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		_, err := s.AppendMessage(context.TODO(), "missing", schema.RoleUser, "x")
		assert.ErrorIs(err, gemini.ErrNotFound)
	}},
	{"ListMessagesIsCopy", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		thread, _ := s.CreateThread(context.TODO(), schema.ThreadMeta{})
		s.AppendMessage(context.TODO(), thread.ID, schema.RoleUser, "original")
		messages, _ := s.ListMessages(context.TODO(), thread.ID)
		messages[0].Content = "changed"
		messages, _ = s.ListMessages(context.TODO(), thread.ID)
		assert.Equal("original", messages[0].Content)
	}},
	{"ConcurrentAppend", func(t *testing.T, s schema.ThreadStore) {
		assert := assert.New(t)
		thread, _ := s.CreateThread(context.TODO(), schema.ThreadMeta{})
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.AppendMessage(context.TODO(), thread.ID, schema.RoleUser, fmt.Sprint(i))
				assert.NoError(err)
			}()
		}
		wg.Wait()
		messages, err := s.ListMessages(context.TODO(), thread.ID)
		assert.NoError(err)
		assert.Len(messages, 50)
	}},
}

func runThreadStoreTests(t *testing.T, factory func() schema.ThreadStore) {
	for _, test := range threadStoreTests {
		t.Run(test.Name, func(t *testing.T) {
			test.Fn(t, factory())
		})
	}
}
