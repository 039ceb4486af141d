package gormrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/repository"
)

func TestPostCategoryRepoCRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostCategoryRepo(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &repository.CreatePostCategoryParams{
		Name: "随笔", Slug: "essay", Description: "日常记录", Type: constant.CategoryTypePost,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotEmpty(t, created.PublicID)

	found, err := repo.FindBySlug(ctx, "essay")
	require.NoError(t, err)
	assert.Equal(t, "随笔", found.Name)

	newName := "生活随笔"
	updated, err := repo.Update(ctx, created.ID, &repository.UpdatePostCategoryParams{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "生活随笔", updated.Name)
	assert.Equal(t, "essay", updated.Slug)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, constant.ErrNotFound)
}

// 同名分类冲突映射为 ErrConflict
func TestPostCategoryRepoNameConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostCategoryRepo(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, &repository.CreatePostCategoryParams{Name: "技术", Slug: "tech", Type: constant.CategoryTypePost})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &repository.CreatePostCategoryParams{Name: "技术", Slug: "tech-2", Type: constant.CategoryTypePost})
	assert.ErrorIs(t, err, constant.ErrConflict)
}

// FindAll 统计的是已发布文章数，草稿不计入
func TestPostCategoryRepoFindAllWithCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostCategoryRepo(db)
	postRepo := NewPostRepo(db, "sqlite")
	ctx := context.Background()

	category, err := repo.Create(ctx, &repository.CreatePostCategoryParams{Name: "技术", Slug: "tech", Type: constant.CategoryTypePost})
	require.NoError(t, err)
	empty, err := repo.Create(ctx, &repository.CreatePostCategoryParams{Name: "空分类", Slug: "empty", Type: constant.CategoryTypePost})
	require.NoError(t, err)

	_, err = postRepo.Create(ctx, &model.CreatePostParams{
		Title: "已发布", Slug: "pub", Status: constant.PostStatusPublished,
		PublishedAt: timePtr(time.Now()), CategoryID: &category.ID,
	})
	require.NoError(t, err)
	_, err = postRepo.Create(ctx, &model.CreatePostParams{
		Title: "草稿", Slug: "draft", Status: constant.PostStatusDraft, CategoryID: &category.ID,
	})
	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	counts := make(map[uint]int64, len(all))
	for _, c := range all {
		counts[c.ID] = c.PostCount
	}
	assert.Equal(t, int64(1), counts[category.ID])
	assert.Zero(t, counts[empty.ID])
}

// 删除分类后文章保留，只是解除关联
func TestPostCategoryRepoDeleteKeepsPosts(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostCategoryRepo(db)
	postRepo := NewPostRepo(db, "sqlite")
	ctx := context.Background()

	category, err := repo.Create(ctx, &repository.CreatePostCategoryParams{Name: "临时", Slug: "temp", Type: constant.CategoryTypePost})
	require.NoError(t, err)

	post, err := postRepo.Create(ctx, &model.CreatePostParams{
		Title: "文章", Slug: "survivor", Status: constant.PostStatusPublished,
		PublishedAt: timePtr(time.Now()), CategoryID: &category.ID,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, category.ID))

	found, err := postRepo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, found.Category)
}
