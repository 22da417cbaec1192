package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentmarket/internal/models"
)

func newTestCache(t *testing.T) *Cache {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheWithClient(client, 5*time.Minute)
}

func TestCache_GetSetJSON(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	t.Run("Промах кэша на пустом ключе", func(t *testing.T) {
		var out []models.Commodity
		found, err := cache.GetJSON(ctx, "missing", &out)

		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Записанное значение читается обратно", func(t *testing.T) {
		in := []models.Commodity{
			{CommodityID: "c-1", Title: "Ruko Kediri", Price: 1000000, TotalPages: 3},
			{CommodityID: "c-2", Title: "Kios Malang", Price: 500000, TotalPages: 3},
		}
		require.NoError(t, cache.SetJSON(ctx, "key", in))

		var out []models.Commodity
		found, err := cache.GetJSON(ctx, "key", &out)

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, in, out)
	})

	t.Run("Нечитаемое значение не считается попаданием", func(t *testing.T) {
		require.NoError(t, cache.SetJSON(ctx, "scalar", 42))

		var out []models.Commodity
		found, err := cache.GetJSON(ctx, "scalar", &out)

		assert.Error(t, err)
		assert.False(t, found)
	})
}

func TestCache_NilClientIsNoop(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheWithClient(nil, time.Minute)

	require.NoError(t, cache.SetJSON(ctx, "key", "value"))

	var out string
	found, err := cache.GetJSON(ctx, "key", &out)

	assert.NoError(t, err)
	assert.False(t, found)

	// и инвалидация тоже безопасна
	cache.Invalidate(ctx, "key")
	cache.InvalidateFamily(ctx, FamilyAll)
}

func TestCache_ListKey(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	t.Run("Ключ детерминирован для одинаковых параметров", func(t *testing.T) {
		k1 := cache.ListKey(ctx, FamilyAll, "kediri", "", "newest", 1, 12)
		k2 := cache.ListKey(ctx, FamilyAll, "kediri", "", "newest", 1, 12)
		assert.Equal(t, k1, k2)
	})

	t.Run("Разные параметры дают разные ключи", func(t *testing.T) {
		k1 := cache.ListKey(ctx, FamilyAll, "kediri", "", "newest", 1, 12)
		k2 := cache.ListKey(ctx, FamilyAll, "kediri", "", "newest", 2, 12)
		k3 := cache.ListKey(ctx, FamilyAll, "", "kediri", "newest", 1, 12)
		assert.NotEqual(t, k1, k2)
		assert.NotEqual(t, k1, k3)
	})

	t.Run("Семейства владельцев не пересекаются между собой и с общим", func(t *testing.T) {
		all := cache.ListKey(ctx, FamilyAll, "", "", "newest", 1, 12)
		owner1 := cache.ListKey(ctx, OwnerFamily("owner-1"), "", "", "newest", 1, 12)
		owner2 := cache.ListKey(ctx, OwnerFamily("owner-2"), "", "", "newest", 1, 12)
		assert.NotEqual(t, all, owner1)
		assert.NotEqual(t, owner1, owner2)
	})
}

func TestCache_InvalidateFamily(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	key := cache.ListKey(ctx, FamilyAll, "", "", "newest", 1, 12)
	require.NoError(t, cache.SetJSON(ctx, key, []string{"page-1"}))

	var out []string
	found, err := cache.GetJSON(ctx, key, &out)
	require.NoError(t, err)
	require.True(t, found)

	cache.InvalidateFamily(ctx, FamilyAll)

	// новая версия семейства - новый ключ, старое значение больше не видно
	fresh := cache.ListKey(ctx, FamilyAll, "", "", "newest", 1, 12)
	assert.NotEqual(t, key, fresh)

	found, err = cache.GetJSON(ctx, fresh, &out)
	assert.NoError(t, err)
	assert.False(t, found)

	// инвалидация одного семейства не трогает другие
	ownerKey := cache.ListKey(ctx, OwnerFamily("owner-1"), "", "", "newest", 1, 12)
	require.NoError(t, cache.SetJSON(ctx, ownerKey, []string{"owner-page"}))
	cache.InvalidateFamily(ctx, FamilyAll)
	assert.Equal(t, ownerKey, cache.ListKey(ctx, OwnerFamily("owner-1"), "", "", "newest", 1, 12))
}

func TestCache_InvalidateSingleKey(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	key := CommodityKey("c-1")
	require.NoError(t, cache.SetJSON(ctx, key, models.Commodity{CommodityID: "c-1"}))

	cache.Invalidate(ctx, key)

	var out models.Commodity
	found, err := cache.GetJSON(ctx, key, &out)
	assert.NoError(t, err)
	assert.False(t, found)
}
