/*
 * @Description:
 * @Author: 李志伟
 * @Date: 2025-11-03 00:12:31
 * @LastEditTime: 2026-01-14 19:58:06
 * @LastEditors: 李志伟
 */
package database

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/lizhiwei-dev/echoes-app/internal/infra/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient 接收配置并返回 Redis 客户端或错误
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	redisAddr := cfg.GetString(config.KeyRedisAddr)
	redisPassword := cfg.GetString(config.KeyRedisPassword)

	redisDBStr := "0"
	if cfg.GetString(config.KeyRedisDB) != "" {
		redisDBStr = cfg.GetString(config.KeyRedisDB)
	}

	if redisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR 未在配置中设置")
	}

	redisDB, err := strconv.Atoi(redisDBStr)
	if err != nil {
		return nil, fmt.Errorf("无效的 REDIS_DB 值 '%s': %w", redisDBStr, err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	// 检查连接，返回 error 交由上层决定如何处理
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接 Redis (%s, DB %d) 失败: %w", redisAddr, redisDB, err)
	}

	log.Printf("成功连接到 Redis (%s, DB %d)", redisAddr, redisDB)
	return rdb, nil
}
