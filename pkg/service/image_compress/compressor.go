/*
 * @Description: 图片压缩服务
 * @Author: 李志伟
 * @Date: 2025-11-20 14:02:48
 * @LastEditTime: 2026-05-06 17:38:29
 * @LastEditors: 李志伟
 */
package image_compress

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	// 支持解码 webp 与 bmp 输入
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrCannotCompress 表示在所有缩放与质量组合下都无法压到目标大小。
var ErrCannotCompress = errors.New("无法将图片压缩到目标大小")

// 压缩尝试的参数边界
const (
	maxScaleSteps = 7    // 缩放比例按 0.9 的幂依次递减，共尝试 7 档
	scaleFactor   = 0.9  // 每档缩放比例
	startQuality  = 0.92 // JPEG 起始质量
	minQuality    = 0.5  // JPEG 最低质量
	qualityStep   = 0.07 // 每次降低的质量
)

// Options 控制一次压缩的目标。
type Options struct {
	// MaxBytes 输出的最大字节数，必须大于 0
	MaxBytes int
	// MaxWidth/MaxHeight 输出的最大尺寸，0 表示不限制
	MaxWidth  int
	MaxHeight int
	// PreferredFormat 优先尝试的输出格式("png" 或 "jpeg")，
	// png 超出大小时会在同档缩放下回退到 jpeg
	PreferredFormat string
}

// Result 是一次成功压缩的输出。
type Result struct {
	Data        []byte
	ContentType string
	Extension   string
	Width       int
	Height      int
}

// Compressor 将图片压缩到目标字节数以内。
type Compressor struct{}

func NewCompressor() *Compressor {
	return &Compressor{}
}

// Compress 先按 MaxWidth/MaxHeight 等比缩小，再逐档降低缩放与质量，
// 直到输出不超过 MaxBytes；全部组合失败时返回 ErrCannotCompress。
func (c *Compressor) Compress(data []byte, opts Options) (*Result, error) {
	if opts.MaxBytes <= 0 {
		return nil, fmt.Errorf("无效的目标大小: %d", opts.MaxBytes)
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("解码图片失败: %w", err)
	}

	// 先做一次尺寸裁剪，超出边界的图片等比缩小
	bounds := src.Bounds()
	if (opts.MaxWidth > 0 && bounds.Dx() > opts.MaxWidth) ||
		(opts.MaxHeight > 0 && bounds.Dy() > opts.MaxHeight) {
		fitW := opts.MaxWidth
		if fitW <= 0 {
			fitW = bounds.Dx()
		}
		fitH := opts.MaxHeight
		if fitH <= 0 {
			fitH = bounds.Dy()
		}
		src = imaging.Fit(src, fitW, fitH, imaging.Lanczos)
	}

	scale := 1.0
	for i := 0; i < maxScaleSteps; i++ {
		scaled := src
		if scale < 1.0 {
			w := int(float64(src.Bounds().Dx()) * scale)
			h := int(float64(src.Bounds().Dy()) * scale)
			if w < 1 || h < 1 {
				break
			}
			scaled = imaging.Resize(src, w, h, imaging.Lanczos)
		}

		if result, ok := c.tryEncode(scaled, opts); ok {
			return result, nil
		}
		scale *= scaleFactor
	}

	return nil, ErrCannotCompress
}

// tryEncode 在固定尺寸下尝试各编码组合，成功时返回结果。
func (c *Compressor) tryEncode(img image.Image, opts Options) (*Result, bool) {
	bounds := img.Bounds()

	if opts.PreferredFormat == "png" {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err == nil && buf.Len() <= opts.MaxBytes {
			return &Result{
				Data:        buf.Bytes(),
				ContentType: "image/png",
				Extension:   ".png",
				Width:       bounds.Dx(),
				Height:      bounds.Dy(),
			}, true
		}
		// png 超出大小，同档缩放下回退到 jpeg
	}

	for quality := startQuality; quality >= minQuality; quality -= qualityStep {
		var buf bytes.Buffer
		err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(int(quality*100)))
		if err != nil {
			return nil, false
		}
		if buf.Len() <= opts.MaxBytes {
			return &Result{
				Data:        buf.Bytes(),
				ContentType: "image/jpeg",
				Extension:   ".jpg",
				Width:       bounds.Dx(),
				Height:      bounds.Dy(),
			}, true
		}
	}
	return nil, false
}
