// Package cache кэш рассчитанной доступности поверх Redis.
//
// Инвалидация через версию бизнеса: все ключи доступности включают номер
// версии, инкремент версии при изменении расписания или создании записи
// мгновенно делает старые ключи недостижимыми. Устаревшие ключи вычищает TTL,
// паттерн-сканы по ключам не нужны.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	versionKeyPrefix      = "availability:version:"
	availabilityKeyPrefix = "availability:day:"
)

// AvailabilityCache кэш результатов расчёта доступности по дням
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilityCache создает кэш доступности с заданным TTL записей
func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

// DayKey параметры, однозначно определяющие закэшированный день
type DayKey struct {
	BusinessID int64
	ServiceID  int64
	EmployeeID *int64
	Date       string // YYYY-MM-DD
}

// Get читает закэшированный результат дня в dest.
// Возвращает ErrCacheMiss, если значения нет или версия бизнеса сменилась.
func (c *AvailabilityCache) Get(ctx context.Context, key DayKey, dest interface{}) error {
	redisKey, err := c.buildKey(ctx, key)
	if err != nil {
		return err
	}

	payload, err := c.client.Get(ctx, redisKey).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("%w: get %s: %v", ErrCacheUnavailable, redisKey, err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		// Битое значение равносильно промаху
		return ErrCacheMiss
	}

	return nil
}

// Set сохраняет результат дня с настроенным TTL
func (c *AvailabilityCache) Set(ctx context.Context, key DayKey, value interface{}) error {
	redisKey, err := c.buildKey(ctx, key)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal value: %w", err)
	}

	if err := c.client.Set(ctx, redisKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrCacheUnavailable, redisKey, err)
	}

	return nil
}

// InvalidateBusiness инкрементирует версию бизнеса, делая все его
// закэшированные дни недостижимыми. Вызывается при создании/отмене записи
// и при любом изменении расписания.
func (c *AvailabilityCache) InvalidateBusiness(ctx context.Context, businessID int64) error {
	key := fmt.Sprintf("%s%d", versionKeyPrefix, businessID)

	if err := c.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: incr %s: %v", ErrCacheUnavailable, key, err)
	}

	return nil
}

// buildKey собирает ключ дня с текущей версией бизнеса
func (c *AvailabilityCache) buildKey(ctx context.Context, key DayKey) (string, error) {
	versionKey := fmt.Sprintf("%s%d", versionKeyPrefix, key.BusinessID)

	version, err := c.client.Get(ctx, versionKey).Int64()
	if err == redis.Nil {
		version = 0
	} else if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", ErrCacheUnavailable, versionKey, err)
	}

	employeePart := "any"
	if key.EmployeeID != nil {
		employeePart = fmt.Sprintf("%d", *key.EmployeeID)
	}

	return fmt.Sprintf("%sv%d:b%d:s%d:e%s:%s",
		availabilityKeyPrefix, version, key.BusinessID, key.ServiceID, employeePart, key.Date), nil
}
