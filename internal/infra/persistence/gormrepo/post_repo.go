// internal/infra/persistence/gormrepo/post_repo.go
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

	"gorm.io/gorm"
)

type postRepo struct {
	db     *gorm.DB
	dbType string
}

func NewPostRepo(db *gorm.DB, dbType string) repository.PostRepository {
	return &postRepo{
		db:     db,
		dbType: dbType,
	}
}

func toDomainPost(p *po.Post) *model.Post {
	if p == nil {
		return nil
	}
	// 编码器在启动阶段初始化，此处的错误分支不可达
	publicID, _ := idgen.GeneratePublicID(p.ID, idgen.EntityTypePost)
	domainPost := &model.Post{
		ID:          p.ID,
		PublicID:    publicID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		PublishedAt: p.PublishedAt,
		Title:       p.Title,
		Slug:        p.Slug,
		ContentMd:   p.ContentMd,
		ContentHTML: p.ContentHTML,
		Excerpt:     p.Excerpt,
		CoverURL:    p.CoverURL,
		Status:      constant.PostStatus(p.Status),
		ViewCount:   p.ViewCount,
	}
	if p.Category != nil {
		domainPost.Category = toDomainCategory(p.Category, 0)
	}
	for _, t := range p.Tags {
		domainPost.Tags = append(domainPost.Tags, toDomainTag(t, 0))
	}
	return domainPost
}

func (r *postRepo) Create(ctx context.Context, params *model.CreatePostParams) (*model.Post, error) {
	newPost := &po.Post{
		Title:       params.Title,
		Slug:        params.Slug,
		ContentMd:   params.ContentMd,
		ContentHTML: params.ContentHTML,
		Excerpt:     params.Excerpt,
		CoverURL:    params.CoverURL,
		Status:      string(params.Status),
		PublishedAt: params.PublishedAt,
		CategoryID:  params.CategoryID,
	}

	if len(params.TagIDs) > 0 {
		var tags []*po.PostTag
		if err := r.db.WithContext(ctx).Where("id IN ?", params.TagIDs).Find(&tags).Error; err != nil {
			return nil, fmt.Errorf("查询标签失败: %w", err)
		}
		newPost.Tags = tags
	}

	if err := r.db.WithContext(ctx).Create(newPost).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, constant.ErrConflict
		}
		return nil, err
	}
	return r.FindByID(ctx, newPost.ID)
}

func (r *postRepo) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var p po.Post
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Tags").
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constant.ErrNotFound
		}
		return nil, err
	}
	return toDomainPost(&p), nil
}

func (r *postRepo) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var p po.Post
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Tags").
		Where("slug = ?", slug).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constant.ErrNotFound
		}
		return nil, err
	}
	return toDomainPost(&p), nil
}

func (r *postRepo) FindPublishedBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var p po.Post
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Tags").
		Where("slug = ? AND status = ?", slug, string(constant.PostStatusPublished)).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constant.ErrNotFound
		}
		return nil, err
	}
	return toDomainPost(&p), nil
}

func (r *postRepo) ListPublished(ctx context.Context, opts *model.ListPublicPostsOptions) ([]*model.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&po.Post{}).
		Where("posts.status = ?", string(constant.PostStatusPublished))

	if opts.CategorySlug != "" {
		query = query.
			Joins("JOIN post_categories ON post_categories.id = posts.category_id").
			Where("post_categories.slug = ?", opts.CategorySlug)
	}
	if opts.TagSlug != "" {
		query = query.
			Joins("JOIN post_tag_bindings ON post_tag_bindings.post_id = posts.id").
			Joins("JOIN post_tags ON post_tags.id = post_tag_bindings.post_tag_id").
			Where("post_tags.slug = ?", opts.TagSlug)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*po.Post
	err := query.
		Preload("Category").Preload("Tags").
		Order("posts.published_at DESC, posts.id DESC").
		Offset((opts.Page - 1) * opts.PageSize).
		Limit(opts.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	posts := make([]*model.Post, len(rows))
	for i, row := range rows {
		posts[i] = toDomainPost(row)
	}
	return posts, total, nil
}

func (r *postRepo) SearchPublished(ctx context.Context, query string, limit int) ([]*model.Post, error) {
	db := r.db.WithContext(ctx).Model(&po.Post{}).
		Where("status = ?", string(constant.PostStatusPublished))

	// PostgreSQL 原生支持 ILIKE，其余数据库降级为 LOWER + LIKE
	if r.dbType == "postgres" {
		pattern := "%" + query + "%"
		db = db.Where("title ILIKE ? OR excerpt ILIKE ?", pattern, pattern)
	} else {
		pattern := "%" + strings.ToLower(query) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ?", pattern, pattern)
	}

	var rows []*po.Post
	err := db.
		Preload("Category").Preload("Tags").
		Order("published_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	posts := make([]*model.Post, len(rows))
	for i, row := range rows {
		posts[i] = toDomainPost(row)
	}
	return posts, nil
}

func (r *postRepo) FindAllPublished(ctx context.Context, limit int) ([]*model.Post, error) {
	db := r.db.WithContext(ctx).
		Preload("Category").Preload("Tags").
		Where("status = ?", string(constant.PostStatusPublished)).
		Order("published_at DESC, id DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}

	var rows []*po.Post
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}

	posts := make([]*model.Post, len(rows))
	for i, row := range rows {
		posts[i] = toDomainPost(row)
	}
	return posts, nil
}

func (r *postRepo) Update(ctx context.Context, id uint, params *model.UpdatePostParams) (*model.Post, error) {
	var p po.Post
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constant.ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if params.Title != nil {
		updates["title"] = *params.Title
	}
	if params.Slug != nil {
		updates["slug"] = *params.Slug
	}
	if params.ContentMd != nil {
		updates["content_md"] = *params.ContentMd
	}
	if params.ContentHTML != nil {
		updates["content_html"] = *params.ContentHTML
	}
	if params.Excerpt != nil {
		updates["excerpt"] = *params.Excerpt
	}
	if params.CoverURL != nil {
		updates["cover_url"] = *params.CoverURL
	}
	if params.Status != nil {
		updates["status"] = string(*params.Status)
	}
	if params.PublishedAt != nil {
		updates["published_at"] = *params.PublishedAt
	}
	if params.ClearPublishedAt {
		updates["published_at"] = nil
	}
	if params.CategoryID != nil {
		updates["category_id"] = *params.CategoryID
	}
	if params.ClearCategory {
		updates["category_id"] = nil
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&p).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, constant.ErrConflict
			}
			return nil, err
		}
	}

	// TagIDs 为 nil 表示不改动标签，空切片表示清空
	if params.TagIDs != nil {
		var tags []*po.PostTag
		if len(params.TagIDs) > 0 {
			if err := r.db.WithContext(ctx).Where("id IN ?", params.TagIDs).Find(&tags).Error; err != nil {
				return nil, fmt.Errorf("查询标签失败: %w", err)
			}
		}
		if err := r.db.WithContext(ctx).Model(&p).Association("Tags").Replace(tags); err != nil {
			return nil, fmt.Errorf("更新文章标签失败: %w", err)
		}
	}

	return r.FindByID(ctx, id)
}

func (r *postRepo) IncrementViewCount(ctx context.Context, id uint, delta int64) error {
	result := r.db.WithContext(ctx).Model(&po.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return constant.ErrNotFound
	}
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id uint) error {
	var p po.Post
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return constant.ErrNotFound
		}
		return err
	}

	if err := r.db.WithContext(ctx).Model(&p).Association("Tags").Clear(); err != nil {
		return fmt.Errorf("清除文章标签绑定失败: %w", err)
	}
	if err := r.db.WithContext(ctx).Where("post_id = ?", id).Delete(&po.Comment{}).Error; err != nil {
		return fmt.Errorf("删除文章评论失败: %w", err)
	}
	return r.db.WithContext(ctx).Delete(&p).Error
}

func (r *postRepo) FindWithConditions(ctx context.Context, opts *model.ListPostsOptions) ([]*model.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&po.Post{})

	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Query != "" {
		if r.dbType == "postgres" {
			query = query.Where("title ILIKE ?", "%"+opts.Query+"%")
		} else {
			query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(opts.Query)+"%")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*po.Post
	err := query.
		Preload("Category").Preload("Tags").
		Order("created_at DESC, id DESC").
		Offset((opts.Page - 1) * opts.PageSize).
		Limit(opts.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	posts := make([]*model.Post, len(rows))
	for i, row := range rows {
		posts[i] = toDomainPost(row)
	}
	return posts, total, nil
}

func (r *postRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&po.Post{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
