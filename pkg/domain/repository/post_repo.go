/*
 * @Description:
 * @Author: 李志伟
 * @Date: 2025-11-03 10:02:17
 * @LastEditTime: 2026-05-11 17:21:36
 * @LastEditors: 李志伟
 */
package repository

import (
	"context"

	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
)

// PostRepository 定义了文章数据的持久化操作接口。
// 公开方法只返回已发布的文章，后台方法不做状态限制。
type PostRepository interface {
	// 创建一篇文章，写入关联的分类与标签
	Create(ctx context.Context, params *model.CreatePostParams) (*model.Post, error)

	// 按数据库 ID 查找文章（含分类与标签）
	FindByID(ctx context.Context, id uint) (*model.Post, error)

	// 按 slug 查找文章，不限状态
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)

	// 按 slug 查找已发布的文章，未发布或不存在时返回 ErrNotFound
	FindPublishedBySlug(ctx context.Context, slug string) (*model.Post, error)

	// 分页查询已发布的文章，按发布时间倒序
	ListPublished(ctx context.Context, opts *model.ListPublicPostsOptions) ([]*model.Post, int64, error)

	// 标题或摘要的不区分大小写模糊搜索，只命中已发布文章
	SearchPublished(ctx context.Context, query string, limit int) ([]*model.Post, error)

	// 查询全部已发布文章（供 RSS 与站点地图使用），limit <= 0 表示不限制
	FindAllPublished(ctx context.Context, limit int) ([]*model.Post, error)

	// 更新一篇文章，nil 字段保持原值
	Update(ctx context.Context, id uint, params *model.UpdatePostParams) (*model.Post, error)

	// 原子地为文章浏览量增加 delta
	IncrementViewCount(ctx context.Context, id uint, delta int64) error

	// 删除文章及其关联的标签绑定和评论
	Delete(ctx context.Context, id uint) error

	// --- 管理员方法 ---

	// 按条件分页查询文章列表，不限状态
	FindWithConditions(ctx context.Context, opts *model.ListPostsOptions) ([]*model.Post, int64, error)

	// 判断 slug 是否已被其他文章占用，excludeID 为 0 时不排除任何文章
	ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error)
}
