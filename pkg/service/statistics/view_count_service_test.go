package statistics

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"

	"github.com/lizhiwei-dev/echoes-app/internal/infra/persistence/gormrepo"
	po "github.com/lizhiwei-dev/echoes-app/internal/infra/persistence/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/repository"
	"github.com/lizhiwei-dev/echoes-app/pkg/idgen"
	"github.com/lizhiwei-dev/echoes-app/pkg/service/utility"
)

func TestMain(m *testing.M) {
	if err := idgen.InitSqidsEncoder(); err != nil {
		panic(err)
	}
	m.Run()
}

// memoryCache 进程内的 CacheService 实现，行为模仿 Redis。
type memoryCache struct {
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	val, ok := c.values[key]
	if !ok {
		return "", utility.ErrCacheMiss
	}
	return val, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

func (c *memoryCache) Increment(ctx context.Context, key string, _ time.Duration) (int64, error) {
	return c.IncrBy(ctx, key, 1)
}

func (c *memoryCache) IncrBy(_ context.Context, key string, delta int64) (int64, error) {
	current, _ := strconv.ParseInt(c.values[key], 10, 64)
	current += delta
	c.values[key] = strconv.FormatInt(current, 10)
	return current, nil
}

func (c *memoryCache) GetDel(_ context.Context, key string) (string, error) {
	val, ok := c.values[key]
	if !ok {
		return "", utility.ErrCacheMiss
	}
	delete(c.values, key)
	return val, nil
}

func (c *memoryCache) ScanKeys(_ context.Context, pattern string) ([]string, error) {
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for key := range c.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func newPostRepo(t *testing.T) repository.PostRepository {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(gormlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, po.Migrate(db))
	return gormrepo.NewPostRepo(db, "sqlite")
}

func createPublishedPost(t *testing.T, repo repository.PostRepository, slug string) *model.Post {
	t.Helper()
	now := time.Now()
	post, err := repo.Create(context.Background(), &model.CreatePostParams{
		Title:       "文章 " + slug,
		Slug:        slug,
		Status:      constant.PostStatusPublished,
		PublishedAt: &now,
	})
	require.NoError(t, err)
	return post
}

// 缓存可用时浏览量先累积在缓存里，Flush 后才进数据库
func TestIncrementBuffersInCacheUntilFlush(t *testing.T) {
	repo := newPostRepo(t)
	cache := newMemoryCache()
	svc := NewViewCountService(repo, cache)
	ctx := context.Background()
	post := createPublishedPost(t, repo, "buffered")

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Increment(ctx, "buffered"))
	}

	found, err := repo.FindPublishedBySlug(ctx, "buffered")
	require.NoError(t, err)
	assert.Equal(t, int64(0), found.ViewCount)
	key := constant.ViewCountDeltaKeyPrefix + strconv.FormatUint(uint64(post.ID), 10)
	assert.Equal(t, "3", cache.values[key])

	require.NoError(t, svc.Flush(ctx))

	found, err = repo.FindPublishedBySlug(ctx, "buffered")
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.ViewCount)
	// 增量被消费后不再重复落库
	_, ok := cache.values[key]
	assert.False(t, ok)
	require.NoError(t, svc.Flush(ctx))
	found, err = repo.FindPublishedBySlug(ctx, "buffered")
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.ViewCount)
}

// 缓存缺失时降级为数据库直写
func TestIncrementWithoutCacheHitsDatabase(t *testing.T) {
	repo := newPostRepo(t)
	svc := NewViewCountService(repo, nil)
	ctx := context.Background()
	createPublishedPost(t, repo, "direct")

	require.NoError(t, svc.Increment(ctx, "direct"))
	require.NoError(t, svc.Increment(ctx, "direct"))

	found, err := repo.FindPublishedBySlug(ctx, "direct")
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.ViewCount)

	// 无缓存时 Flush 是空操作
	require.NoError(t, svc.Flush(ctx))
}

func TestIncrementUnknownSlug(t *testing.T) {
	repo := newPostRepo(t)
	svc := NewViewCountService(repo, newMemoryCache())

	err := svc.Increment(context.Background(), "no-such-post")
	assert.ErrorIs(t, err, constant.ErrNotFound)
}

// 无效的增量值被跳过，不影响其余键的落库
func TestFlushSkipsMalformedEntries(t *testing.T) {
	repo := newPostRepo(t)
	cache := newMemoryCache()
	svc := NewViewCountService(repo, cache)
	ctx := context.Background()
	post := createPublishedPost(t, repo, "mixed")

	key := constant.ViewCountDeltaKeyPrefix + strconv.FormatUint(uint64(post.ID), 10)
	cache.values[key] = "5"
	cache.values[constant.ViewCountDeltaKeyPrefix+"not-a-number"] = "2"
	cache.values[constant.ViewCountDeltaKeyPrefix+"999"] = "garbage"

	require.NoError(t, svc.Flush(ctx))

	found, err := repo.FindPublishedBySlug(ctx, "mixed")
	require.NoError(t, err)
	assert.Equal(t, int64(5), found.ViewCount)
}
