package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aura-academy/portal/services/learn-service/internal/content"
	"github.com/aura-academy/portal/services/learn-service/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRedis is an in-memory redisStore
type fakeRedis struct {
	values  map[string]string
	ttls    map[string]time.Duration
	err     error
	deleted []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	for _, k := range keys {
		delete(f.values, k)
	}
	f.deleted = append(f.deleted, keys...)
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestContentCache_SetGet(t *testing.T) {
	store := newFakeRedis()
	c := NewContentCache(store, 5*time.Minute, zap.NewNop())
	ctx := context.Background()

	_, ok := c.Get(ctx, 2)
	assert.False(t, ok)

	resp := &models.DayContentResponse{
		DayNumber: 2,
		Title:     "Breathwork",
		Content:   content.Normalize([]byte(`"Inhale slowly"`), "Breathwork"),
		Source:    models.ContentSourceCourseContent,
		Status:    models.ContentStatusOK,
	}
	c.Set(ctx, 2, resp)

	assert.Equal(t, 5*time.Minute, store.ttls["learn:day:2"])

	got, ok := c.Get(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, "Breathwork", got.Title)
	assert.Equal(t, models.ContentStatusOK, got.Status)
	require.Len(t, got.Content.Sections, 1)
	assert.Equal(t, "Inhale slowly", got.Content.Sections[0].Blocks[0].Content)

	c.Invalidate(ctx, 2)
	_, ok = c.Get(ctx, 2)
	assert.False(t, ok)
	assert.Equal(t, []string{"learn:day:2"}, store.deleted)
}

func TestContentCache_UndecodableEntry(t *testing.T) {
	store := newFakeRedis()
	store.values["learn:day:3"] = "{not json"
	c := NewContentCache(store, time.Minute, zap.NewNop())

	_, ok := c.Get(context.Background(), 3)

	assert.False(t, ok)
	assert.NotContains(t, store.values, "learn:day:3")
}

func TestContentCache_StoreErrors(t *testing.T) {
	store := newFakeRedis()
	store.err = errors.New("connection refused")
	c := NewContentCache(store, time.Minute, zap.NewNop())
	ctx := context.Background()

	assert.NotPanics(t, func() {
		c.Set(ctx, 1, &models.DayContentResponse{DayNumber: 1})
		c.Invalidate(ctx, 1)
	})
	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)
}
