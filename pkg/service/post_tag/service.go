// echoes-app/pkg/service/post_tag/service.go
package post_tag

import (
	"context"
	"fmt"

	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/repository"
	"github.com/lizhiwei-dev/echoes-app/pkg/idgen"
)

// FeedInvalidator 在标签变更后清除 RSS 与站点地图缓存。
type FeedInvalidator interface {
	InvalidateCache(ctx context.Context)
}

type Service interface {
	List(ctx context.Context) ([]*model.PostTagResponse, error)
	Resolve(ctx context.Context, names []string) ([]*model.PostTagResponse, error)
	Delete(ctx context.Context, publicID string) error
}

type serviceImpl struct {
	repo            repository.PostTagRepository
	feedInvalidator FeedInvalidator
}

func NewService(repo repository.PostTagRepository, feedInvalidator FeedInvalidator) Service {
	return &serviceImpl{repo: repo, feedInvalidator: feedInvalidator}
}

func toResponse(t *model.PostTag) *model.PostTagResponse {
	return &model.PostTagResponse{
		ID:        t.PublicID,
		Name:      t.Name,
		Slug:      t.Slug,
		PostCount: t.PostCount,
	}
}

func (s *serviceImpl) List(ctx context.Context) ([]*model.PostTagResponse, error) {
	tags, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取标签列表失败: %w", err)
	}
	list := make([]*model.PostTagResponse, len(tags))
	for i, t := range tags {
		list[i] = toResponse(t)
	}
	return list, nil
}

// Resolve 按名称批量解析标签，不存在的标签会被创建。
func (s *serviceImpl) Resolve(ctx context.Context, names []string) ([]*model.PostTagResponse, error) {
	tags, err := s.repo.ResolveByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("解析标签失败: %w", err)
	}
	list := make([]*model.PostTagResponse, len(tags))
	for i, t := range tags {
		list[i] = toResponse(t)
	}
	return list, nil
}

func (s *serviceImpl) Delete(ctx context.Context, publicID string) error {
	dbID, err := idgen.DecodePublicIDWithType(publicID, idgen.EntityTypePostTag)
	if err != nil {
		return fmt.Errorf("%w: 无效的标签 ID", constant.ErrInvalidInput)
	}
	if err := s.repo.Delete(ctx, dbID); err != nil {
		return err
	}
	if s.feedInvalidator != nil {
		s.feedInvalidator.InvalidateCache(ctx)
	}
	return nil
}
