package gormrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/repository"
)

// 新建评论默认处于待审核状态
func TestCommentRepoCreateDefaultsPending(t *testing.T) {
	db := newTestDB(t)
	postRepo := NewPostRepo(db, "sqlite")
	repo := NewCommentRepo(db)
	ctx := context.Background()

	post := createPublishedPost(t, postRepo, "commented", "有评论", time.Now())

	created, err := repo.Create(ctx, &repository.CreateCommentParams{
		PostID: post.ID, Author: "访客", Email: "guest@example.com", Content: "不错",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.PublicID)
	assert.False(t, created.Approved)

	// 未过审的评论不出现在公开列表
	approved, err := repo.FindApprovedByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, approved)
}

func TestCommentRepoApproveFlow(t *testing.T) {
	db := newTestDB(t)
	postRepo := NewPostRepo(db, "sqlite")
	repo := NewCommentRepo(db)
	ctx := context.Background()

	post := createPublishedPost(t, postRepo, "flow", "审核流程", time.Now())

	first, err := repo.Create(ctx, &repository.CreateCommentParams{PostID: post.ID, Author: "甲", Email: "a@b.c", Content: "一楼"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &repository.CreateCommentParams{PostID: post.ID, Author: "乙", Email: "b@b.c", Content: "二楼", ParentID: &first.ID})
	require.NoError(t, err)

	_, err = repo.UpdateApproved(ctx, first.ID, true)
	require.NoError(t, err)
	_, err = repo.UpdateApproved(ctx, second.ID, true)
	require.NoError(t, err)

	approved, err := repo.FindApprovedByPostID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, approved, 2)
	// 按创建时间正序
	assert.Equal(t, "甲", approved[0].Author)
	require.NotNil(t, approved[1].ParentID)
	assert.Equal(t, first.ID, *approved[1].ParentID)

	count, err := repo.CountApprovedByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// 驳回后重新隐藏
	_, err = repo.UpdateApproved(ctx, second.ID, false)
	require.NoError(t, err)
	approved, err = repo.FindApprovedByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, approved, 1)
}

func TestCommentRepoFindWithConditions(t *testing.T) {
	db := newTestDB(t)
	postRepo := NewPostRepo(db, "sqlite")
	repo := NewCommentRepo(db)
	ctx := context.Background()

	post := createPublishedPost(t, postRepo, "paged", "分页", time.Now())
	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &repository.CreateCommentParams{PostID: post.ID, Author: "访客", Email: "g@e.c", Content: "评论"})
		require.NoError(t, err)
	}
	approvedComment, err := repo.Create(ctx, &repository.CreateCommentParams{PostID: post.ID, Author: "过审", Email: "g@e.c", Content: "过审评论"})
	require.NoError(t, err)
	_, err = repo.UpdateApproved(ctx, approvedComment.ID, true)
	require.NoError(t, err)

	all, total, err := repo.FindWithConditions(ctx, &model.ListCommentsOptions{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, all, 4)

	pending := false
	onlyPending, total, err := repo.FindWithConditions(ctx, &model.ListCommentsOptions{Page: 1, PageSize: 10, Approved: &pending})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, onlyPending, 3)

	page2, _, err := repo.FindWithConditions(ctx, &model.ListCommentsOptions{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}
