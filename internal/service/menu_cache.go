package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"restaurant_hub_202601/pkg/logger"
)

// MenuCache 菜单缓存，缓存失败只记录日志，不影响主流程
type MenuCache interface {
	Get(ctx context.Context, restaurantID int64) (*Menu, bool)
	Set(ctx context.Context, restaurantID int64, menu *Menu)
	Invalidate(ctx context.Context, restaurantID int64)
}

// ==================== Redis 实现 ====================

type RedisMenuCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisMenuCache(client *redis.Client, ttl time.Duration) *RedisMenuCache {
	return &RedisMenuCache{Client: client, TTL: ttl}
}

func (c *RedisMenuCache) key(restaurantID int64) string {
	return "menu:" + strconv.FormatInt(restaurantID, 10)
}

func (c *RedisMenuCache) Get(ctx context.Context, restaurantID int64) (*Menu, bool) {
	raw, err := c.Client.Get(ctx, c.key(restaurantID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L().Warnw("[Cache] 读取菜单失败", "restaurant_id", restaurantID, "error", err)
		}
		return nil, false
	}
	var menu Menu
	if err := json.Unmarshal(raw, &menu); err != nil {
		logger.L().Warnw("[Cache] 菜单反序列化失败", "restaurant_id", restaurantID, "error", err)
		return nil, false
	}
	return &menu, true
}

func (c *RedisMenuCache) Set(ctx context.Context, restaurantID int64, menu *Menu) {
	raw, err := json.Marshal(menu)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, c.key(restaurantID), raw, c.TTL).Err(); err != nil {
		logger.L().Warnw("[Cache] 写入菜单失败", "restaurant_id", restaurantID, "error", err)
	}
}

func (c *RedisMenuCache) Invalidate(ctx context.Context, restaurantID int64) {
	if err := c.Client.Del(context.WithoutCancel(ctx), c.key(restaurantID)).Err(); err != nil {
		logger.L().Warnw("[Cache] 删除菜单缓存失败", "restaurant_id", restaurantID, "error", err)
	}
}

// ==================== 空实现 ====================

type noopMenuCache struct{}

// NewNoopMenuCache 未配置 Redis 时使用
func NewNoopMenuCache() MenuCache {
	return noopMenuCache{}
}

func (noopMenuCache) Get(context.Context, int64) (*Menu, bool) { return nil, false }
func (noopMenuCache) Set(context.Context, int64, *Menu)        {}
func (noopMenuCache) Invalidate(context.Context, int64)        {}
