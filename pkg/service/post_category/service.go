// echoes-app/pkg/service/post_category/service.go
package post_category

import (
	"context"
	"fmt"

	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/repository"
	"github.com/lizhiwei-dev/echoes-app/pkg/idgen"
	"github.com/lizhiwei-dev/echoes-app/pkg/slug"
)

// FeedInvalidator 在分类变更后清除 RSS 与站点地图缓存。
type FeedInvalidator interface {
	InvalidateCache(ctx context.Context)
}

type Service interface {
	Create(ctx context.Context, req *model.CreatePostCategoryRequest) (*model.PostCategoryResponse, error)
	Update(ctx context.Context, publicID string, req *model.UpdatePostCategoryRequest) (*model.PostCategoryResponse, error)
	Delete(ctx context.Context, publicID string) error
	List(ctx context.Context) ([]*model.PostCategoryResponse, error)
}

type serviceImpl struct {
	repo            repository.PostCategoryRepository
	feedInvalidator FeedInvalidator
}

func NewService(repo repository.PostCategoryRepository, feedInvalidator FeedInvalidator) Service {
	return &serviceImpl{repo: repo, feedInvalidator: feedInvalidator}
}

func (s *serviceImpl) invalidateFeeds(ctx context.Context) {
	if s.feedInvalidator != nil {
		s.feedInvalidator.InvalidateCache(ctx)
	}
}

func toResponse(c *model.PostCategory) *model.PostCategoryResponse {
	return &model.PostCategoryResponse{
		ID:          c.PublicID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Type:        string(c.Type),
		PostCount:   c.PostCount,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req *model.CreatePostCategoryRequest) (*model.PostCategoryResponse, error) {
	categoryType := constant.CategoryType(req.Type)
	if req.Type == "" {
		categoryType = constant.CategoryTypePost
	}
	if !categoryType.IsValid() {
		return nil, fmt.Errorf("%w: 无效的分类类型 '%s'", constant.ErrInvalidInput, req.Type)
	}

	finalSlug := req.Slug
	if finalSlug == "" {
		finalSlug = slug.Derive(req.Name)
		if finalSlug == "" {
			finalSlug = slug.RandomToken()
		}
	} else if !slug.IsValid(finalSlug) {
		return nil, fmt.Errorf("%w: slug 只允许字母、数字、汉字与连字符", constant.ErrInvalidInput)
	}

	category, err := s.repo.Create(ctx, &repository.CreatePostCategoryParams{
		Name:        req.Name,
		Slug:        finalSlug,
		Description: req.Description,
		Type:        categoryType,
	})
	if err != nil {
		return nil, err
	}
	s.invalidateFeeds(ctx)
	return toResponse(category), nil
}

func (s *serviceImpl) Update(ctx context.Context, publicID string, req *model.UpdatePostCategoryRequest) (*model.PostCategoryResponse, error) {
	dbID, err := idgen.DecodePublicIDWithType(publicID, idgen.EntityTypePostCategory)
	if err != nil {
		return nil, fmt.Errorf("%w: 无效的分类 ID", constant.ErrInvalidInput)
	}

	params := &repository.UpdatePostCategoryParams{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Slug != nil {
		if !slug.IsValid(*req.Slug) {
			return nil, fmt.Errorf("%w: slug 只允许字母、数字、汉字与连字符", constant.ErrInvalidInput)
		}
		params.Slug = req.Slug
	}
	if req.Type != nil {
		categoryType := constant.CategoryType(*req.Type)
		if !categoryType.IsValid() {
			return nil, fmt.Errorf("%w: 无效的分类类型 '%s'", constant.ErrInvalidInput, *req.Type)
		}
		params.Type = &categoryType
	}

	category, err := s.repo.Update(ctx, dbID, params)
	if err != nil {
		return nil, err
	}
	s.invalidateFeeds(ctx)
	return toResponse(category), nil
}

func (s *serviceImpl) Delete(ctx context.Context, publicID string) error {
	dbID, err := idgen.DecodePublicIDWithType(publicID, idgen.EntityTypePostCategory)
	if err != nil {
		return fmt.Errorf("%w: 无效的分类 ID", constant.ErrInvalidInput)
	}
	if err := s.repo.Delete(ctx, dbID); err != nil {
		return err
	}
	s.invalidateFeeds(ctx)
	return nil
}

func (s *serviceImpl) List(ctx context.Context) ([]*model.PostCategoryResponse, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取分类列表失败: %w", err)
	}
	list := make([]*model.PostCategoryResponse, len(categories))
	for i, c := range categories {
		list[i] = toResponse(c)
	}
	return list, nil
}
