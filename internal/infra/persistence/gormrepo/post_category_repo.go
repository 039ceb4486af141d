// internal/infra/persistence/gormrepo/post_category_repo.go
package gormrepo

import (
	"context"
	"errors"

	po "github.com/lizhiwei-dev/echoes-app/internal/infra/persistence/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/repository"
	"github.com/lizhiwei-dev/echoes-app/pkg/idgen"

	"gorm.io/gorm"
)

type postCategoryRepo struct {
	db *gorm.DB
}

func NewPostCategoryRepo(db *gorm.DB) repository.PostCategoryRepository {
	return &postCategoryRepo{db: db}
}

func toDomainCategory(c *po.PostCategory, postCount int64) *model.PostCategory {
	if c == nil {
		return nil
	}
	publicID, _ := idgen.GeneratePublicID(c.ID, idgen.EntityTypePostCategory)
	return &model.PostCategory{
		ID:          c.ID,
		PublicID:    publicID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Type:        constant.CategoryType(c.Type),
		PostCount:   postCount,
		CreatedAt:   c.CreatedAt,
	}
}

func (r *postCategoryRepo) Create(ctx context.Context, params *repository.CreatePostCategoryParams) (*model.PostCategory, error) {
	newCategory := &po.PostCategory{
		Name:        params.Name,
		Slug:        params.Slug,
		Description: params.Description,
		Type:        string(params.Type),
	}
	if err := r.db.WithContext(ctx).Create(newCategory).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, constant.ErrConflict
		}
		return nil, err
	}
	return toDomainCategory(newCategory, 0), nil
}

func (r *postCategoryRepo) FindByID(ctx context.Context, id uint) (*model.PostCategory, error) {
	var c po.PostCategory
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constant.ErrNotFound
		}
		return nil, err
	}
	count, err := r.countPublished(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return toDomainCategory(&c, count), nil
}

func (r *postCategoryRepo) FindBySlug(ctx context.Context, slug string) (*model.PostCategory, error) {
	var c po.PostCategory
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constant.ErrNotFound
		}
		return nil, err
	}
	count, err := r.countPublished(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return toDomainCategory(&c, count), nil
}

func (r *postCategoryRepo) FindAll(ctx context.Context) ([]*model.PostCategory, error) {
	var rows []*po.PostCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	// 一次性统计各分类下已发布文章数，避免逐行查询
	type countRow struct {
		CategoryID uint
		Count      int64
	}
	var counts []countRow
	err := r.db.WithContext(ctx).Model(&po.Post{}).
		Select("category_id, COUNT(*) AS count").
		Where("status = ? AND category_id IS NOT NULL", string(constant.PostStatusPublished)).
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	countMap := make(map[uint]int64, len(counts))
	for _, row := range counts {
		countMap[row.CategoryID] = row.Count
	}

	categories := make([]*model.PostCategory, len(rows))
	for i, row := range rows {
		categories[i] = toDomainCategory(row, countMap[row.ID])
	}
	return categories, nil
}

func (r *postCategoryRepo) Update(ctx context.Context, id uint, params *repository.UpdatePostCategoryParams) (*model.PostCategory, error) {
	var c po.PostCategory
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constant.ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if params.Name != nil {
		updates["name"] = *params.Name
	}
	if params.Slug != nil {
		updates["slug"] = *params.Slug
	}
	if params.Description != nil {
		updates["description"] = *params.Description
	}
	if params.Type != nil {
		updates["type"] = string(*params.Type)
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&c).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, constant.ErrConflict
			}
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

func (r *postCategoryRepo) Delete(ctx context.Context, id uint) error {
	var c po.PostCategory
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return constant.ErrNotFound
		}
		return err
	}

	// 分类删除后文章保留，归类字段置空
	err := r.db.WithContext(ctx).Model(&po.Post{}).
		Where("category_id = ?", id).
		UpdateColumn("category_id", nil).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&c).Error
}

func (r *postCategoryRepo) countPublished(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&po.Post{}).
		Where("category_id = ? AND status = ?", categoryID, string(constant.PostStatusPublished)).
		Count(&count).Error
	return count, err
}
