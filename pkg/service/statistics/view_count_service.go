/*
 * @Description: 文章浏览量统计服务
 * @Author: 李志伟
 * @Date: 2025-12-03 16:44:20
 * @LastEditTime: 2026-05-19 11:27:31
 * @LastEditors: 李志伟
 */
package statistics

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/repository"
	"github.com/lizhiwei-dev/echoes-app/pkg/service/utility"
)

// ViewCountService 负责文章浏览量的累积与落库。
// 增量先写入 Redis，由定时任务批量刷入数据库；Redis 不可用时直接原子更新数据库。
type ViewCountService interface {
	// Increment 为指定 slug 的已发布文章记录一次浏览
	Increment(ctx context.Context, slug string) error

	// Flush 将 Redis 中累积的增量批量写入数据库
	Flush(ctx context.Context) error
}

type viewCountService struct {
	postRepo repository.PostRepository
	cacheSvc utility.CacheService
}

// NewViewCountService 创建浏览量统计服务，cacheSvc 可以为 nil。
func NewViewCountService(postRepo repository.PostRepository, cacheSvc utility.CacheService) ViewCountService {
	return &viewCountService{
		postRepo: postRepo,
		cacheSvc: cacheSvc,
	}
}

func (s *viewCountService) Increment(ctx context.Context, slug string) error {
	post, err := s.postRepo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return err
	}

	if s.cacheSvc != nil {
		key := constant.ViewCountDeltaKeyPrefix + strconv.FormatUint(uint64(post.ID), 10)
		if _, err := s.cacheSvc.IncrBy(ctx, key, 1); err == nil {
			return nil
		} else {
			log.Printf("[警告] 浏览量写入 Redis 失败，降级为直接更新数据库: %v", err)
		}
	}

	// 数据库侧为原子的 view_count = view_count + 1
	return s.postRepo.IncrementViewCount(ctx, post.ID, 1)
}

func (s *viewCountService) Flush(ctx context.Context) error {
	if s.cacheSvc == nil {
		return nil
	}

	keys, err := s.cacheSvc.ScanKeys(ctx, constant.ViewCountDeltaKeyPrefix+"*")
	if err != nil {
		return fmt.Errorf("扫描浏览量增量键失败: %w", err)
	}

	var flushed int
	for _, key := range keys {
		// GetDel 保证每份增量只被消费一次
		val, err := s.cacheSvc.GetDel(ctx, key)
		if err != nil {
			if err == utility.ErrCacheMiss {
				continue
			}
			log.Printf("[错误] 读取浏览量增量键 '%s' 失败: %v", key, err)
			continue
		}

		delta, err := strconv.ParseInt(val, 10, 64)
		if err != nil || delta <= 0 {
			log.Printf("[警告] 浏览量增量键 '%s' 的值 '%s' 无效，已跳过", key, val)
			continue
		}

		idStr := strings.TrimPrefix(key, constant.ViewCountDeltaKeyPrefix)
		postID, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			log.Printf("[警告] 无法从键 '%s' 解析文章 ID: %v", key, err)
			continue
		}

		if err := s.postRepo.IncrementViewCount(ctx, uint(postID), delta); err != nil {
			// 落库失败时把增量写回，等待下一轮刷新
			if _, backErr := s.cacheSvc.IncrBy(ctx, key, delta); backErr != nil {
				log.Printf("[错误] 浏览量增量回写失败 (文章 %d, 增量 %d): %v", postID, delta, backErr)
			}
			log.Printf("[错误] 浏览量落库失败 (文章 %d): %v", postID, err)
			continue
		}
		flushed++
	}

	if flushed > 0 {
		log.Printf("[信息] 浏览量增量已落库，共 %d 篇文章。", flushed)
	}
	return nil
}
