/*
 * @Description: 事务边界定义
 * @Author: 李志伟
 * @Date: 2025-11-03 14:27:55
 * @LastEditTime: 2026-03-02 09:48:10
 * @LastEditors: 李志伟
 */
package repository

import "context"

// Repositories 聚合了参与同一事务的全部仓储。
type Repositories struct {
	Post         PostRepository
	PostCategory PostCategoryRepository
	PostTag      PostTagRepository
	Comment      CommentRepository
}

// TransactionManager 定义了事务的执行边界。
// fn 返回非 nil 错误时整个事务回滚，否则提交。
type TransactionManager interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}
