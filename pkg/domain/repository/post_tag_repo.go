/*
 * @Description:
 * @Author: 李志伟
 * @Date: 2025-11-03 11:02:08
 * @LastEditTime: 2026-01-28 15:10:41
 * @LastEditors: 李志伟
 */
package repository

import (
	"context"

	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
)

// PostTagRepository 定义了文章标签数据的持久化操作接口。
type PostTagRepository interface {
	// 按名称解析标签，已存在的直接复用，不存在的创建后返回，结果顺序与入参一致
	ResolveByNames(ctx context.Context, names []string) ([]*model.PostTag, error)

	FindByID(ctx context.Context, id uint) (*model.PostTag, error)
	FindBySlug(ctx context.Context, slug string) (*model.PostTag, error)

	// 查询全部标签，PostCount 只统计已发布文章
	FindAll(ctx context.Context) ([]*model.PostTag, error)

	Delete(ctx context.Context, id uint) error
}
