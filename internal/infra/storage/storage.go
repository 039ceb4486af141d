/*
 * @Description: 对象存储抽象
 * @Author: 李志伟
 * @Date: 2025-11-21 10:15:02
 * @LastEditTime: 2026-05-06 18:12:47
 * @LastEditors: 李志伟
 */
package storage

import (
	"context"
	"fmt"

	"github.com/lizhiwei-dev/echoes-app/internal/infra/config"
)

// UploadResult 描述一次成功上传的产物。
type UploadResult struct {
	// Key 对象在存储中的键
	Key string
	// URL 对外可访问的完整地址
	URL string
	// Size 写入的字节数
	Size int64
}

// IStorageProvider 定义了与对象存储交互的统一接口。
type IStorageProvider interface {
	// Upload 上传一个对象并返回其访问信息
	Upload(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error)

	// Delete 删除一个对象，对象不存在时不报错
	Delete(ctx context.Context, key string) error
}

// NewProvider 根据配置创建存储提供者，未配置时默认使用本地磁盘。
func NewProvider(cfg *config.Config) (IStorageProvider, error) {
	provider := cfg.GetString(config.KeyStorageProvider)
	switch provider {
	case "", "local":
		return NewLocalProvider(cfg)
	case "oss":
		return NewAliOSSProvider(cfg)
	case "s3":
		return NewS3Provider(cfg)
	default:
		return nil, fmt.Errorf("不支持的存储提供者: %s (支持: local, oss, s3)", provider)
	}
}
