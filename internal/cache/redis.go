package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"rentmarket/internal/config"
)

// Cache - кэш результатов выборок поверх Redis. Кэш необязателен:
// при недоступном Redis все методы молча превращаются в no-op,
// чтение всегда уходит в БД.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(cfg *config.Config) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis недоступен: %v (продолжаем без кэша)", err)
		return &Cache{client: nil, ttl: cfg.Redis.ListTTL}
	}

	log.Println("Успешное подключение к Redis")
	return &Cache{client: client, ttl: cfg.Redis.ListTTL}
}

// NewCacheWithClient используется в тестах (miniredis) и там, где клиент
// создается снаружи.
func NewCacheWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Close() {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			log.Printf("Ошибка закрытия Redis: %v", err)
		}
	}
}

// GetJSON читает ключ и десериализует его в dest.
// (false, nil) - промах кэша.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}

	s, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}

	return true, nil
}

// SetJSON пишет значение с TTL кэша. Ошибки записи не фатальны для вызывающего.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil {
		return nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, b, c.ttl).Err()
}
