/*
 * @Description:
 * @Author: 李志伟
 * @Date: 2025-11-05 21:14:09
 * @LastEditTime: 2026-02-19 10:55:27
 * @LastEditors: 李志伟
 */
package repository

import (
	"context"

	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
)

// CreateCommentParams 封装了创建评论时需要持久化的所有数据。
type CreateCommentParams struct {
	PostID    uint
	ParentID  *uint
	Author    string
	Email     string
	Website   string
	Content   string
	Approved  bool
	IPAddress string
	UserAgent string
}

// CommentRepository 定义了评论数据的持久化操作接口。
type CommentRepository interface {
	// 创建一条新评论
	Create(ctx context.Context, params *CreateCommentParams) (*model.Comment, error)

	// 根据数据库ID查找单条评论
	FindByID(ctx context.Context, id uint) (*model.Comment, error)

	// 查找某篇文章下全部已通过审核的评论，按创建时间升序
	FindApprovedByPostID(ctx context.Context, postID uint) ([]*model.Comment, error)

	// --- 管理员方法 ---

	// 按条件分页查询评论列表
	FindWithConditions(ctx context.Context, opts *model.ListCommentsOptions) ([]*model.Comment, int64, error)

	// 更新单条评论的审核状态
	UpdateApproved(ctx context.Context, id uint, approved bool) (*model.Comment, error)

	// 删除单条评论，其子评论保留并在渲染时提升为根节点
	Delete(ctx context.Context, id uint) error

	// 统计某篇文章下已通过审核的评论数
	CountApprovedByPostID(ctx context.Context, postID uint) (int64, error)
}
