// internal/infra/persistence/gormrepo/post_tag_repo.go
package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	po "github.com/lizhiwei-dev/echoes-app/internal/infra/persistence/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/repository"
	"github.com/lizhiwei-dev/echoes-app/pkg/idgen"
	"github.com/lizhiwei-dev/echoes-app/pkg/slug"

	"gorm.io/gorm"
)

type postTagRepo struct {
	db *gorm.DB
}

func NewPostTagRepo(db *gorm.DB) repository.PostTagRepository {
	return &postTagRepo{db: db}
}

func toDomainTag(t *po.PostTag, postCount int64) *model.PostTag {
	if t == nil {
		return nil
	}
	publicID, _ := idgen.GeneratePublicID(t.ID, idgen.EntityTypePostTag)
	return &model.PostTag{
		ID:        t.ID,
		PublicID:  publicID,
		Name:      t.Name,
		Slug:      t.Slug,
		PostCount: postCount,
		CreatedAt: t.CreatedAt,
	}
}

// ResolveByNames 逐个解析标签名：已存在的复用，不存在的创建。
// 名称会先去除首尾空白，空名与重复名被跳过，结果顺序与入参一致。
func (r *postTagRepo) ResolveByNames(ctx context.Context, names []string) ([]*model.PostTag, error) {
	seen := make(map[string]bool, len(names))
	var resolved []*model.PostTag

	for _, rawName := range names {
		name := strings.TrimSpace(rawName)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag po.PostTag
		err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tagSlug := slug.Derive(name)
			if tagSlug == "" {
				tagSlug = slug.RandomToken()
			}
			tag = po.PostTag{Name: name, Slug: tagSlug}
			if err := r.db.WithContext(ctx).Create(&tag).Error; err != nil {
				return nil, fmt.Errorf("创建标签 '%s' 失败: %w", name, err)
			}
		} else if err != nil {
			return nil, err
		}
		resolved = append(resolved, toDomainTag(&tag, 0))
	}
	return resolved, nil
}

func (r *postTagRepo) FindByID(ctx context.Context, id uint) (*model.PostTag, error) {
	var t po.PostTag
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constant.ErrNotFound
		}
		return nil, err
	}
	return toDomainTag(&t, 0), nil
}

func (r *postTagRepo) FindBySlug(ctx context.Context, tagSlug string) (*model.PostTag, error) {
	var t po.PostTag
	if err := r.db.WithContext(ctx).Where("slug = ?", tagSlug).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constant.ErrNotFound
		}
		return nil, err
	}
	return toDomainTag(&t, 0), nil
}

func (r *postTagRepo) FindAll(ctx context.Context) ([]*model.PostTag, error) {
	var rows []*po.PostTag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	// 只统计已发布文章的绑定
	type countRow struct {
		PostTagID uint
		Count     int64
	}
	var counts []countRow
	err := r.db.WithContext(ctx).
		Table("post_tag_bindings").
		Select("post_tag_bindings.post_tag_id, COUNT(*) AS count").
		Joins("JOIN posts ON posts.id = post_tag_bindings.post_id").
		Where("posts.status = ?", string(constant.PostStatusPublished)).
		Group("post_tag_bindings.post_tag_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	countMap := make(map[uint]int64, len(counts))
	for _, row := range counts {
		countMap[row.PostTagID] = row.Count
	}

	tags := make([]*model.PostTag, len(rows))
	for i, row := range rows {
		tags[i] = toDomainTag(row, countMap[row.ID])
	}
	return tags, nil
}

func (r *postTagRepo) Delete(ctx context.Context, id uint) error {
	var t po.PostTag
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return constant.ErrNotFound
		}
		return err
	}
	if err := r.db.WithContext(ctx).Exec("DELETE FROM post_tag_bindings WHERE post_tag_id = ?", id).Error; err != nil {
		return fmt.Errorf("清除标签绑定失败: %w", err)
	}
	return r.db.WithContext(ctx).Delete(&t).Error
}
