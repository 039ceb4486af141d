package gormrepo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/repository"
)

// 回调返回错误时事务内的写入全部回滚
func TestTransactionManagerRollback(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManager(db, "sqlite")
	postRepo := NewPostRepo(db, "sqlite")
	ctx := context.Background()

	boom := errors.New("业务失败")
	err := tm.Do(ctx, func(repos repository.Repositories) error {
		_, err := repos.Post.Create(ctx, &model.CreatePostParams{
			Title: "不应存在", Slug: "rolled-back", Status: constant.PostStatusDraft,
		})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = postRepo.FindBySlug(ctx, "rolled-back")
	assert.ErrorIs(t, err, constant.ErrNotFound)
}

func TestTransactionManagerCommit(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManager(db, "sqlite")
	postRepo := NewPostRepo(db, "sqlite")
	ctx := context.Background()

	err := tm.Do(ctx, func(repos repository.Repositories) error {
		tags, err := repos.PostTag.ResolveByNames(ctx, []string{"Go"})
		if err != nil {
			return err
		}
		_, err = repos.Post.Create(ctx, &model.CreatePostParams{
			Title: "提交成功", Slug: "committed", Status: constant.PostStatusDraft, TagIDs: []uint{tags[0].ID},
		})
		return err
	})
	require.NoError(t, err)

	found, err := postRepo.FindBySlug(ctx, "committed")
	require.NoError(t, err)
	assert.Len(t, found.Tags, 1)
}
