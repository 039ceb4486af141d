/*
 * @Description:
 * @Author: 李志伟
 * @Date: 2025-11-03 10:40:52
 * @LastEditTime: 2026-01-28 15:09:33
 * @LastEditors: 李志伟
 */
package repository

import (
	"context"

	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
)

// CreatePostCategoryParams 封装了创建分类时需要持久化的数据。
type CreatePostCategoryParams struct {
	Name        string
	Slug        string
	Description string
	Type        constant.CategoryType
}

// UpdatePostCategoryParams 封装了更新分类时需要持久化的数据，nil 字段保持原值。
type UpdatePostCategoryParams struct {
	Name        *string
	Slug        *string
	Description *string
	Type        *constant.CategoryType
}

// PostCategoryRepository 定义了文章分类数据的持久化操作接口。
type PostCategoryRepository interface {
	Create(ctx context.Context, params *CreatePostCategoryParams) (*model.PostCategory, error)
	FindByID(ctx context.Context, id uint) (*model.PostCategory, error)
	FindBySlug(ctx context.Context, slug string) (*model.PostCategory, error)

	// 查询全部分类，PostCount 只统计已发布文章
	FindAll(ctx context.Context) ([]*model.PostCategory, error)

	Update(ctx context.Context, id uint, params *UpdatePostCategoryParams) (*model.PostCategory, error)

	// 删除分类，分类下的文章仍然保留，归类字段置空
	Delete(ctx context.Context, id uint) error
}
