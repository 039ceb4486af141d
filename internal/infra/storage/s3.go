/*
 * @Description: S3 兼容存储提供者实现
 * @Author: 李志伟
 * @Date: 2025-11-21 14:05:33
 * @LastEditTime: 2026-03-09 19:51:02
 * @LastEditors: 李志伟
 */
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lizhiwei-dev/echoes-app/internal/infra/config"
)

// S3Provider 实现了 IStorageProvider 接口，兼容 AWS S3 及各类 S3 协议对象存储。
type S3Provider struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3Provider 是 S3Provider 的构造函数。
func NewS3Provider(cfg *config.Config) (IStorageProvider, error) {
	bucket := cfg.GetString(config.KeyStorageBucket)
	if bucket == "" {
		return nil, fmt.Errorf("S3配置缺少存储桶名称")
	}
	region := cfg.GetString(config.KeyStorageRegion)
	if region == "" {
		region = "us-east-1"
	}
	accessKey := cfg.GetString(config.KeyStorageAccessKey)
	secretKey := cfg.GetString(config.KeyStorageSecretKey)
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("S3配置缺少AccessKey或SecretKey")
	}
	endpoint := cfg.GetString(config.KeyStorageEndpoint)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("加载 S3 配置失败: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			// 自定义 Endpoint 的兼容实现普遍要求 path-style 访问
			o.UsePathStyle = true
		}
	})

	publicURL := strings.TrimSuffix(cfg.GetString(config.KeyStoragePublicURL), "/")
	if publicURL == "" {
		if endpoint != "" {
			publicURL = strings.TrimSuffix(endpoint, "/") + "/" + bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
		}
	}

	log.Printf("[S3] 初始化完成，存储桶: %s, 区域: %s", bucket, region)
	return &S3Provider{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
	}, nil
}

// Upload 上传文件到 S3
func (p *S3Provider) Upload(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	objectKey := strings.TrimPrefix(key, "/")

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("[S3] 上传失败: key=%s, err=%v", objectKey, err)
		return nil, fmt.Errorf("上传到 S3 失败: %w", err)
	}

	log.Printf("[S3] 上传完成: %s (%d 字节)", objectKey, len(data))
	return &UploadResult{
		Key:  objectKey,
		URL:  p.publicURL + "/" + objectKey,
		Size: int64(len(data)),
	}, nil
}

// Delete 删除 S3 上的对象
func (p *S3Provider) Delete(ctx context.Context, key string) error {
	objectKey := strings.TrimPrefix(key, "/")
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("删除 S3 对象失败: %w", err)
	}
	return nil
}
