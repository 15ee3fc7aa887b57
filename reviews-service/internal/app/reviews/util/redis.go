package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"placepulse/pkg/metrics"
	"placepulse/reviews-service/internal/app/reviews/entity"

	"github.com/redis/go-redis/v9"
)

const businessKeyPrefix = "business:"

// RedisClient - кеш справочника бизнесов
// Снимает нагрузку с PostgreSQL на горячем пути создания отзыва
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientFromExisting оборачивает готовый клиент (для тестов с miniredis)
func NewRedisClientFromExisting(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

// GetBusiness возвращает бизнес из кеша
// Промах - это (nil, nil), не ошибка
func (r *RedisClient) GetBusiness(ctx context.Context, id string) (*entity.Business, error) {
	data, err := r.client.Get(ctx, businessKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss("reviews-service", "business")
			return nil, nil
		}
		metrics.RecordRedisError("reviews-service", metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get business from cache: %w", err)
	}

	var business entity.Business
	if err := json.Unmarshal(data, &business); err != nil {
		return nil, fmt.Errorf("failed to unmarshal business: %w", err)
	}

	metrics.RecordCacheHit("reviews-service", "business")
	return &business, nil
}

// SetBusiness кладет бизнес в кеш с TTL
func (r *RedisClient) SetBusiness(ctx context.Context, business *entity.Business, ttl time.Duration) error {
	data, err := json.Marshal(business)
	if err != nil {
		return fmt.Errorf("failed to marshal business: %w", err)
	}

	if err := r.client.Set(ctx, businessKeyPrefix+business.ID.String(), data, ttl).Err(); err != nil {
		metrics.RecordRedisError("reviews-service", metrics.RedisOpSet)
		return fmt.Errorf("failed to set business in cache: %w", err)
	}

	return nil
}

// DeleteBusiness инвалидирует запись кеша (например после смены видимости)
func (r *RedisClient) DeleteBusiness(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, businessKeyPrefix+id).Err(); err != nil {
		metrics.RecordRedisError("reviews-service", metrics.RedisOpDel)
		return fmt.Errorf("failed to delete business from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
