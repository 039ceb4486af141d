// internal/infra/persistence/gormrepo/tx_manager.go
package gormrepo

import (
	"context"

	"github.com/lizhiwei-dev/echoes-app/pkg/domain/repository"

	"gorm.io/gorm"
)

type txManager struct {
	db     *gorm.DB
	dbType string
}

// NewTransactionManager 创建基于 GORM 事务的 TransactionManager 实现。
func NewTransactionManager(db *gorm.DB, dbType string) repository.TransactionManager {
	return &txManager{
		db:     db,
		dbType: dbType,
	}
}

// Do 在单个数据库事务中执行 fn，fn 返回错误时整体回滚。
func (m *txManager) Do(ctx context.Context, fn func(repos repository.Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := repository.Repositories{
			Post:         NewPostRepo(tx, m.dbType),
			PostCategory: NewPostCategoryRepo(tx),
			PostTag:      NewPostTagRepo(tx),
			Comment:      NewCommentRepo(tx),
		}
		return fn(repos)
	})
}
