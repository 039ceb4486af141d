/*
 * @Description: Redis 缓存服务封装
 * @Author: 李志伟
 * @Date: 2025-11-07 15:28:50
 * @LastEditTime: 2026-04-30 11:19:22
 * @LastEditors: 李志伟
 */
package utility

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 表示键不存在。
var ErrCacheMiss = errors.New("缓存未命中")

// CacheService 定义了业务层需要的缓存操作。
type CacheService interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Increment 自增并在键首次创建时设置过期时间，返回自增后的值
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// IncrBy 按 delta 自增，键不存在时从 0 开始
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)

	// GetDel 原子地读取并删除键，键不存在时返回 ErrCacheMiss
	GetDel(ctx context.Context, key string) (string, error)

	// ScanKeys 遍历匹配 pattern 的全部键
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService 创建基于 Redis 的缓存服务。
func NewRedisCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func (s *redisCacheService) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (s *redisCacheService) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisCacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *redisCacheService) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	val, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// 仅在键首次创建时设置过期时间，避免刷新窗口
	if val == 1 && ttl > 0 {
		if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
			return val, err
		}
	}
	return val, nil
}

func (s *redisCacheService) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	return s.client.IncrBy(ctx, key, delta).Result()
}

func (s *redisCacheService) GetDel(ctx context.Context, key string) (string, error) {
	val, err := s.client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (s *redisCacheService) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
