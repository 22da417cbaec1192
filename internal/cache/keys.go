package cache

import (
	"context"
	"fmt"
)

// Ключи списочных выборок включают номер версии семейства. Инвалидация
// всего семейства (все страницы, все комбинации фильтров) - это INCR
// счетчика версии: старые ключи перестают читаться и доживают до TTL.
const (
	FamilyAll         = "commodities:all"
	ownerFamilyPrefix = "commodities:owner:%s"
)

func OwnerFamily(ownerID string) string {
	return fmt.Sprintf(ownerFamilyPrefix, ownerID)
}

func (c *Cache) familyVersion(ctx context.Context, family string) int64 {
	if c == nil || c.client == nil {
		return 0
	}

	v, err := c.client.Get(ctx, family+":ver").Int64()
	if err != nil {
		return 0
	}
	return v
}

// ListKey - ключ кэша для конкретной комбинации параметров выборки.
func (c *Cache) ListKey(ctx context.Context, family, query, location, sort string, page, pageSize int) string {
	return fmt.Sprintf("%s:v%d:q=%s:loc=%s:sort=%s:page=%d:size=%d",
		family, c.familyVersion(ctx, family), query, location, sort, page, pageSize)
}

// CommodityKey - ключ кэша одиночного объявления.
func CommodityKey(commodityID string) string {
	return "commodity:" + commodityID
}

// InvalidateFamily обесценивает все закэшированные страницы семейства.
func (c *Cache) InvalidateFamily(ctx context.Context, family string) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Incr(ctx, family+":ver").Err(); err != nil {
		// кэш вспомогательный: при сбое инвалидации ключи доживут до TTL
		return
	}
}

// Invalidate удаляет одиночный ключ.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, key)
}
