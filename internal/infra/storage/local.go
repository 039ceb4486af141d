/*
 * @Description: 本地磁盘存储提供者实现
 * @Author: 李志伟
 * @Date: 2025-11-21 10:48:36
 * @LastEditTime: 2026-03-09 19:25:14
 * @LastEditors: 李志伟
 */
package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lizhiwei-dev/echoes-app/internal/infra/config"
)

// DefaultLocalDir 未配置 Storage.LocalDir 时的默认上传目录。
const DefaultLocalDir = "data/storage/uploads"

// LocalProvider 实现了 IStorageProvider 接口，将对象写入本地磁盘。
type LocalProvider struct {
	baseDir   string
	publicURL string
}

// NewLocalProvider 是 LocalProvider 的构造函数。
func NewLocalProvider(cfg *config.Config) (IStorageProvider, error) {
	baseDir := cfg.GetString(config.KeyStorageLocalDir)
	if baseDir == "" {
		baseDir = DefaultLocalDir
	}
	if err := os.MkdirAll(baseDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("无法创建本地存储目录 '%s': %w", baseDir, err)
	}

	publicURL := strings.TrimSuffix(cfg.GetString(config.KeyStoragePublicURL), "/")
	if publicURL == "" {
		// 未单独配置时由站点地址拼出上传资源前缀
		publicURL = strings.TrimSuffix(cfg.GetString(config.KeySiteURL), "/") + "/uploads"
	}

	log.Printf("[本地存储] 初始化完成，目录: %s", baseDir)
	return &LocalProvider{
		baseDir:   baseDir,
		publicURL: publicURL,
	}, nil
}

// BaseDir 返回静态文件根目录，供路由层挂载。
func (p *LocalProvider) BaseDir() string {
	return p.baseDir
}

// Upload 将对象写入本地磁盘。
func (p *LocalProvider) Upload(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	cleanKey := strings.TrimPrefix(filepath.Clean("/"+key), "/")
	fullPath := filepath.Join(p.baseDir, cleanKey)

	if err := os.MkdirAll(filepath.Dir(fullPath), os.ModePerm); err != nil {
		return nil, fmt.Errorf("创建上传子目录失败: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("写入文件 '%s' 失败: %w", fullPath, err)
	}

	log.Printf("[本地存储] 上传完成: %s (%d 字节)", cleanKey, len(data))
	return &UploadResult{
		Key:  cleanKey,
		URL:  p.publicURL + "/" + cleanKey,
		Size: int64(len(data)),
	}, nil
}

// Delete 删除本地对象，对象不存在时静默成功。
func (p *LocalProvider) Delete(ctx context.Context, key string) error {
	cleanKey := strings.TrimPrefix(filepath.Clean("/"+key), "/")
	err := os.Remove(filepath.Join(p.baseDir, cleanKey))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("删除文件 '%s' 失败: %w", cleanKey, err)
	}
	return nil
}
