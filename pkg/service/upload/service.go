/*
 * @Description: 封面图片上传服务
 * @Author: 李志伟
 * @Date: 2025-12-11 15:02:48
 * @LastEditTime: 2026-04-02 09:31:10
 * @LastEditors: 李志伟
 */
package upload

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lizhiwei-dev/echoes-app/internal/infra/storage"
	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/service/image_compress"
)

// 封面输出的最大边长
const (
	coverMaxWidth  = 1920
	coverMaxHeight = 1920
)

// 封面对象键的前缀
const coverKeyPrefix = "covers/"

// 允许上传的图片扩展名
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// CoverResult 是一次封面上传的结果。
type CoverResult struct {
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// Compressor 将图片压缩到目标字节数以内。
type Compressor interface {
	Compress(data []byte, opts image_compress.Options) (*image_compress.Result, error)
}

// Service 负责封面图片的压缩与落盘。
type Service struct {
	provider   storage.IStorageProvider
	compressor Compressor
}

func NewService(provider storage.IStorageProvider, compressor Compressor) *Service {
	return &Service{provider: provider, compressor: compressor}
}

// UploadCover 保存一张封面图片。超过拒绝上限的文件在压缩前直接拒绝；
// 超过压缩阈值的图片先压缩，压不到目标大小时报错，绝不按原图落盘。
func (s *Service) UploadCover(ctx context.Context, filename string, data []byte) (*CoverResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: 空文件", constant.ErrInvalidInput)
	}
	if len(data) > constant.CoverRejectThreshold {
		return nil, fmt.Errorf("%w: 图片超过 %d 字节上限，请先裁剪后重试",
			constant.ErrPayloadTooLarge, constant.CoverRejectThreshold)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: 不支持的图片格式 %q", constant.ErrInvalidInput, ext)
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if len(data) > constant.CoverCompressThreshold {
		result, err := s.compressor.Compress(data, image_compress.Options{
			MaxBytes:        constant.CoverCompressThreshold,
			MaxWidth:        coverMaxWidth,
			MaxHeight:       coverMaxHeight,
			PreferredFormat: preferredFormatFor(ext),
		})
		if err != nil {
			if errors.Is(err, image_compress.ErrCannotCompress) {
				return nil, fmt.Errorf("%w: 无法压缩到目标大小，请先裁剪后重试", constant.ErrPayloadTooLarge)
			}
			return nil, fmt.Errorf("压缩封面失败: %w", err)
		}
		log.Printf("[信息] 封面压缩完成: %d -> %d 字节", len(data), len(result.Data))
		data = result.Data
		contentType = result.ContentType
		ext = result.Extension
	}

	key := coverKeyPrefix + time.Now().Format("20060102150405") + "_" + shortToken() + ext
	uploaded, err := s.provider.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("保存封面失败: %w", err)
	}

	return &CoverResult{URL: uploaded.URL, Size: uploaded.Size}, nil
}

// preferredFormatFor 让无损格式优先尝试 png，其余走 jpeg。
func preferredFormatFor(ext string) string {
	if ext == ".png" {
		return "png"
	}
	return "jpeg"
}

func shortToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
