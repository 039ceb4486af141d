/*
 * @Description: 阿里云OSS存储提供者实现
 * @Author: 李志伟
 * @Date: 2025-11-21 11:20:45
 * @LastEditTime: 2026-03-09 19:40:28
 * @LastEditors: 李志伟
 */
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/lizhiwei-dev/echoes-app/internal/infra/config"
)

// AliOSSProvider 实现了 IStorageProvider 接口，用于处理与阿里云OSS的所有交互。
type AliOSSProvider struct {
	bucket    *oss.Bucket
	publicURL string
}

// NewAliOSSProvider 是 AliOSSProvider 的构造函数。
func NewAliOSSProvider(cfg *config.Config) (IStorageProvider, error) {
	bucketName := cfg.GetString(config.KeyStorageBucket)
	if bucketName == "" {
		return nil, fmt.Errorf("阿里云OSS配置缺少存储桶名称")
	}
	endpoint := cfg.GetString(config.KeyStorageEndpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("阿里云OSS配置缺少Endpoint")
	}
	accessKey := cfg.GetString(config.KeyStorageAccessKey)
	secretKey := cfg.GetString(config.KeyStorageSecretKey)
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("阿里云OSS配置缺少AccessKey或SecretKey")
	}

	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("创建阿里云OSS客户端失败: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("获取阿里云OSS存储桶失败: %w", err)
	}

	publicURL := strings.TrimSuffix(cfg.GetString(config.KeyStoragePublicURL), "/")
	if publicURL == "" {
		// 默认按 bucket.endpoint 拼出外链前缀
		host := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
		publicURL = fmt.Sprintf("https://%s.%s", bucketName, host)
	}

	log.Printf("[阿里云OSS] 初始化完成，存储桶: %s", bucketName)
	return &AliOSSProvider{
		bucket:    bucket,
		publicURL: publicURL,
	}, nil
}

// Upload 上传文件到阿里云OSS
func (p *AliOSSProvider) Upload(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	objectKey := strings.TrimPrefix(key, "/")

	opts := []oss.Option{oss.ContentType(contentType)}
	if err := p.bucket.PutObject(objectKey, bytes.NewReader(data), opts...); err != nil {
		log.Printf("[阿里云OSS] 上传失败: key=%s, err=%v", objectKey, err)
		return nil, fmt.Errorf("上传到阿里云OSS失败: %w", err)
	}

	log.Printf("[阿里云OSS] 上传完成: %s (%d 字节)", objectKey, len(data))
	return &UploadResult{
		Key:  objectKey,
		URL:  p.publicURL + "/" + objectKey,
		Size: int64(len(data)),
	}, nil
}

// Delete 删除阿里云OSS上的对象
func (p *AliOSSProvider) Delete(ctx context.Context, key string) error {
	objectKey := strings.TrimPrefix(key, "/")
	if err := p.bucket.DeleteObject(objectKey); err != nil {
		return fmt.Errorf("删除阿里云OSS对象失败: %w", err)
	}
	return nil
}
