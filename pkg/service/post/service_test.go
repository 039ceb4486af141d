package post

import (
	"context"
	"path/filepath"
	"testing"

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
	"github.com/lizhiwei-dev/echoes-app/pkg/service/parser"
)

func TestMain(m *testing.M) {
	if err := idgen.InitSqidsEncoder(); err != nil {
		panic(err)
	}
	m.Run()
}

// countingInvalidator 记录缓存失效被触发的次数。
type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateCache(ctx context.Context) {
	c.calls++
}

type testEnv struct {
	svc          Service
	categoryRepo repository.PostCategoryRepository
	invalidator  *countingInvalidator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(gormlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, po.Migrate(db))

	postRepo := gormrepo.NewPostRepo(db, "sqlite")
	categoryRepo := gormrepo.NewPostCategoryRepo(db)
	tagRepo := gormrepo.NewPostTagRepo(db)
	txManager := gormrepo.NewTransactionManager(db, "sqlite")

	invalidator := &countingInvalidator{}
	return &testEnv{
		svc:          NewService(postRepo, tagRepo, categoryRepo, txManager, parser.NewService(), invalidator),
		categoryRepo: categoryRepo,
		invalidator:  invalidator,
	}
}

func TestCreateRendersMarkdownAndExcerpt(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(context.Background(), &model.CreatePostRequest{
		Title:     "第一篇",
		ContentMd: "# 标题\n\n正文**加粗**",
		Status:    string(constant.PostStatusPublished),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Contains(t, created.ContentHTML, "<strong>加粗</strong>")
	assert.Contains(t, created.Excerpt, "正文")
	assert.NotContains(t, created.Excerpt, "<")
}

// 未指定 slug 时从标题派生，冲突时追加序号
func TestCreateDerivesSlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.Create(ctx, &model.CreatePostRequest{Title: "你好"})
	require.NoError(t, err)
	assert.Equal(t, "ni-hao", first.Slug)

	second, err := env.svc.Create(ctx, &model.CreatePostRequest{Title: "你好"})
	require.NoError(t, err)
	assert.Equal(t, "ni-hao-2", second.Slug)

	third, err := env.svc.Create(ctx, &model.CreatePostRequest{Title: "你好"})
	require.NoError(t, err)
	assert.Equal(t, "ni-hao-3", third.Slug)
}

// 标题派生不出 slug 时回退随机标识
func TestCreateFallbackSlug(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(context.Background(), &model.CreatePostRequest{Title: "!!!"})
	require.NoError(t, err)
	assert.Len(t, created.Slug, 10)
}

func TestCreateExplicitSlugValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, &model.CreatePostRequest{Title: "文章", Slug: "Bad Slug"})
	assert.ErrorIs(t, err, constant.ErrInvalidInput)

	_, err = env.svc.Create(ctx, &model.CreatePostRequest{Title: "文章", Slug: "taken"})
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, &model.CreatePostRequest{Title: "另一篇", Slug: "taken"})
	assert.ErrorIs(t, err, constant.ErrConflict)
}

func TestCreateStatusSemantics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	draft, err := env.svc.Create(ctx, &model.CreatePostRequest{Title: "草稿"})
	require.NoError(t, err)
	assert.Equal(t, string(constant.PostStatusDraft), draft.Status)
	assert.Nil(t, draft.PublishedAt)

	published, err := env.svc.Create(ctx, &model.CreatePostRequest{Title: "发布", Status: string(constant.PostStatusPublished)})
	require.NoError(t, err)
	assert.NotNil(t, published.PublishedAt)

	_, err = env.svc.Create(ctx, &model.CreatePostRequest{Title: "非法", Status: "archived"})
	assert.ErrorIs(t, err, constant.ErrInvalidInput)
}

// 首次发布盖时间戳，重新发布不刷新，撤回草稿清除
func TestUpdatePublishTimestampTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, &model.CreatePostRequest{Title: "一篇文章"})
	require.NoError(t, err)

	publishedStatus := string(constant.PostStatusPublished)
	draftStatus := string(constant.PostStatusDraft)

	published, err := env.svc.Update(ctx, created.ID, &model.UpdatePostRequest{Status: &publishedStatus})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	firstPublishedAt := *published.PublishedAt

	// 再次保存为已发布，时间戳保持不变
	again, err := env.svc.Update(ctx, created.ID, &model.UpdatePostRequest{Status: &publishedStatus})
	require.NoError(t, err)
	require.NotNil(t, again.PublishedAt)
	assert.True(t, again.PublishedAt.Equal(firstPublishedAt))

	// 撤回草稿后时间戳清空
	reverted, err := env.svc.Update(ctx, created.ID, &model.UpdatePostRequest{Status: &draftStatus})
	require.NoError(t, err)
	assert.Nil(t, reverted.PublishedAt)

	// 再次发布时盖新的时间戳
	republished, err := env.svc.Update(ctx, created.ID, &model.UpdatePostRequest{Status: &publishedStatus})
	require.NoError(t, err)
	assert.NotNil(t, republished.PublishedAt)
}

func TestUpdateTagSemantics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, &model.CreatePostRequest{
		Title: "带标签", TagNames: []string{"Go", "Web"},
	})
	require.NoError(t, err)
	assert.Len(t, created.Tags, 2)

	// 不提交 TagNames 时标签保持不变
	newTitle := "改标题"
	updated, err := env.svc.Update(ctx, created.ID, &model.UpdatePostRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Len(t, updated.Tags, 2)

	// 提交新列表全量替换
	updated, err = env.svc.Update(ctx, created.ID, &model.UpdatePostRequest{TagNames: []string{"云原生"}})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "云原生", updated.Tags[0].Name)

	// 提交空列表清空标签
	updated, err = env.svc.Update(ctx, created.ID, &model.UpdatePostRequest{TagNames: []string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
}

func TestUpdateCategorySemantics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	category, err := env.categoryRepo.Create(ctx, &repository.CreatePostCategoryParams{
		Name: "技术", Slug: "tech", Type: constant.CategoryTypePost,
	})
	require.NoError(t, err)
	categoryPublicID, err := idgen.GeneratePublicID(category.ID, idgen.EntityTypePostCategory)
	require.NoError(t, err)

	created, err := env.svc.Create(ctx, &model.CreatePostRequest{Title: "文章", CategoryID: categoryPublicID})
	require.NoError(t, err)
	require.NotNil(t, created.Category)
	assert.Equal(t, "技术", created.Category.Name)

	// 提交空字符串取消归类
	empty := ""
	updated, err := env.svc.Update(ctx, created.ID, &model.UpdatePostRequest{CategoryID: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.Category)

	// 非法分类 ID 被拒绝
	bad := "zzzz"
	_, err = env.svc.Update(ctx, created.ID, &model.UpdatePostRequest{CategoryID: &bad})
	assert.ErrorIs(t, err, constant.ErrInvalidInput)
}

func TestGetPublicBySlugOnlyPublished(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, &model.CreatePostRequest{Title: "草稿", Slug: "draft-post"})
	require.NoError(t, err)

	_, err = env.svc.GetPublicBySlug(ctx, "draft-post")
	assert.ErrorIs(t, err, constant.ErrNotFound)

	_, err = env.svc.Create(ctx, &model.CreatePostRequest{
		Title: "公开", Slug: "public-post", ContentMd: "正文", Status: string(constant.PostStatusPublished),
	})
	require.NoError(t, err)

	got, err := env.svc.GetPublicBySlug(ctx, "public-post")
	require.NoError(t, err)
	assert.NotEmpty(t, got.ContentHTML)
}

func TestListPublicPageSizeDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.categoryRepo.Create(ctx, &repository.CreatePostCategoryParams{
		Name: "动态", Slug: "moments", Type: constant.CategoryTypeMoment,
	})
	require.NoError(t, err)

	// 普通列表默认页大小
	result, err := env.svc.ListPublic(ctx, &model.ListPublicPostsOptions{})
	require.NoError(t, err)
	assert.Equal(t, constant.DefaultPageSize, result.PageSize)
	assert.NotNil(t, result.List)

	// 动态分类使用时间流页大小
	result, err = env.svc.ListPublic(ctx, &model.ListPublicPostsOptions{CategorySlug: "moments"})
	require.NoError(t, err)
	assert.Equal(t, constant.MomentPageSize, result.PageSize)

	// 显式指定页大小时不覆盖
	result, err = env.svc.ListPublic(ctx, &model.ListPublicPostsOptions{CategorySlug: "moments", PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, result.PageSize)

	// 超出上限的页大小回退为缺省值，防止匿名请求拉取全表
	result, err = env.svc.ListPublic(ctx, &model.ListPublicPostsOptions{PageSize: constant.MaxPageSize + 1})
	require.NoError(t, err)
	assert.Equal(t, constant.DefaultPageSize, result.PageSize)

	// 不存在的分类得到空列表而不是错误
	result, err = env.svc.ListPublic(ctx, &model.ListPublicPostsOptions{CategorySlug: "no-such"})
	require.NoError(t, err)
	assert.Empty(t, result.List)
	assert.Equal(t, int64(0), result.Total)
}

func TestSearchSemantics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, &model.CreatePostRequest{
		Title: "Golang 并发模型", ContentMd: "正文", Status: string(constant.PostStatusPublished),
	})
	require.NoError(t, err)

	results, err := env.svc.Search(ctx, "golang")
	require.NoError(t, err)
	require.Len(t, results, 1)
	// 列表结果不携带正文
	assert.Empty(t, results[0].ContentHTML)

	// 空查询与纯空白查询返回空结果
	results, err = env.svc.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListClampsPagination(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.svc.List(context.Background(), &model.ListPostsOptions{Page: -3, PageSize: 10000})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, constant.DefaultPageSize, result.PageSize)
}

func TestDeleteByPublicID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, &model.CreatePostRequest{Title: "将删除"})
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, created.ID))

	_, err = env.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, constant.ErrNotFound)

	// 公共 ID 解码失败归为参数错误
	assert.ErrorIs(t, env.svc.Delete(ctx, "!!!"), constant.ErrInvalidInput)
}

// 文章的创建、更新、删除都应触发 feed 缓存失效，失败的写操作不触发
func TestWriteOperationsInvalidateFeeds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, &model.CreatePostRequest{Title: "订阅源"})
	require.NoError(t, err)
	assert.Equal(t, 1, env.invalidator.calls)

	newTitle := "订阅源(改)"
	_, err = env.svc.Update(ctx, created.ID, &model.UpdatePostRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, 2, env.invalidator.calls)

	require.NoError(t, env.svc.Delete(ctx, created.ID))
	assert.Equal(t, 3, env.invalidator.calls)

	// 无效 ID 的删除不触发
	assert.Error(t, env.svc.Delete(ctx, "!!!"))
	assert.Equal(t, 3, env.invalidator.calls)
}
