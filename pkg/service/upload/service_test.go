package upload

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizhiwei-dev/echoes-app/internal/infra/storage"
	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/service/image_compress"
)

// fakeProvider 把上传记在内存里，URL 直接拼对象键。
type fakeProvider struct {
	uploads map[string][]byte
	types   map[string]string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{uploads: map[string][]byte{}, types: map[string]string{}}
}

func (p *fakeProvider) Upload(_ context.Context, key string, data []byte, contentType string) (*storage.UploadResult, error) {
	p.uploads[key] = data
	p.types[key] = contentType
	return &storage.UploadResult{Key: key, URL: "/uploads/" + key, Size: int64(len(data))}, nil
}

func (p *fakeProvider) Delete(_ context.Context, key string) error {
	delete(p.uploads, key)
	return nil
}

func (p *fakeProvider) onlyKey(t *testing.T) string {
	t.Helper()
	require.Len(t, p.uploads, 1)
	for key := range p.uploads {
		return key
	}
	return ""
}

func newTestService() (*Service, *fakeProvider) {
	provider := newFakeProvider()
	return NewService(provider, image_compress.NewCompressor()), provider
}

func encodeSmallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// encodeLargeJPEG 生成一张落在压缩阈值与拒绝上限之间的大图。
func encodeLargeJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3200, 2400))
	for y := 0; y < 2400; y++ {
		for x := 0; x < 3200; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: uint8((x + y) % 256), A: 255})
		}
	}
	for quality := 100; quality >= 20; quality -= 10 {
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}))
		if buf.Len() > constant.CoverCompressThreshold && buf.Len() <= constant.CoverRejectThreshold {
			return buf.Bytes()
		}
	}
	t.Fatal("没有得到介于压缩阈值与拒绝上限之间的测试图片")
	return nil
}

func TestUploadCoverSmallImagePassthrough(t *testing.T) {
	svc, provider := newTestService()
	data := encodeSmallPNG(t)

	result, err := svc.UploadCover(context.Background(), "cover.PNG", data)
	require.NoError(t, err)

	key := provider.onlyKey(t)
	assert.True(t, strings.HasPrefix(key, "covers/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	// 小图不压缩，原样落盘
	assert.Equal(t, data, provider.uploads[key])
	assert.Equal(t, "image/png", provider.types[key])
	assert.Equal(t, "/uploads/"+key, result.URL)
	assert.Equal(t, int64(len(data)), result.Size)
}

func TestUploadCoverCompressesLargeImage(t *testing.T) {
	svc, provider := newTestService()
	data := encodeLargeJPEG(t)

	result, err := svc.UploadCover(context.Background(), "photo.jpg", data)
	require.NoError(t, err)

	key := provider.onlyKey(t)
	assert.LessOrEqual(t, len(provider.uploads[key]), constant.CoverCompressThreshold)
	assert.Equal(t, "image/jpeg", provider.types[key])
	assert.LessOrEqual(t, result.Size, int64(constant.CoverCompressThreshold))
}

func TestUploadCoverInvalidInput(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.UploadCover(ctx, "cover.png", nil)
	assert.ErrorIs(t, err, constant.ErrInvalidInput)

	_, err = svc.UploadCover(ctx, "script.svg", []byte("<svg/>"))
	assert.ErrorIs(t, err, constant.ErrInvalidInput)

	_, err = svc.UploadCover(ctx, "noext", []byte{1, 2, 3})
	assert.ErrorIs(t, err, constant.ErrInvalidInput)
}

// 超过压缩阈值但根本解不开的数据直接报错，不落盘
func TestUploadCoverUndecodableData(t *testing.T) {
	svc, provider := newTestService()
	garbage := bytes.Repeat([]byte{0xde, 0xad}, (constant.CoverCompressThreshold+2)/2)

	_, err := svc.UploadCover(context.Background(), "broken.jpg", garbage)
	assert.Error(t, err)
	assert.Empty(t, provider.uploads)
}

// countingCompressor 记录调用次数并返回预设结果。
type countingCompressor struct {
	calls int
	err   error
}

func (c *countingCompressor) Compress(data []byte, _ image_compress.Options) (*image_compress.Result, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &image_compress.Result{Data: data, ContentType: "image/jpeg", Extension: ".jpg"}, nil
}

// 超过拒绝上限的文件在任何压缩尝试之前就被拒绝
func TestUploadCoverRejectsOversizedBeforeCompression(t *testing.T) {
	provider := newFakeProvider()
	compressor := &countingCompressor{}
	svc := NewService(provider, compressor)

	oversized := bytes.Repeat([]byte{0xab}, constant.CoverRejectThreshold+1)
	_, err := svc.UploadCover(context.Background(), "huge.jpg", oversized)

	assert.ErrorIs(t, err, constant.ErrPayloadTooLarge)
	assert.Zero(t, compressor.calls)
	assert.Empty(t, provider.uploads)
}

// 压不到目标大小的图片报错，绝不按原图落盘
func TestUploadCoverCompressFailureIsRejected(t *testing.T) {
	provider := newFakeProvider()
	compressor := &countingCompressor{err: image_compress.ErrCannotCompress}
	svc := NewService(provider, compressor)

	data := bytes.Repeat([]byte{0xcd}, constant.CoverCompressThreshold+1024)
	_, err := svc.UploadCover(context.Background(), "stubborn.jpg", data)

	assert.ErrorIs(t, err, constant.ErrPayloadTooLarge)
	assert.Equal(t, 1, compressor.calls)
	assert.Empty(t, provider.uploads)
}
