// echoes-app/pkg/service/post/service.go
package post

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/repository"
	"github.com/lizhiwei-dev/echoes-app/pkg/idgen"
	appParser "github.com/lizhiwei-dev/echoes-app/pkg/service/parser"
	"github.com/lizhiwei-dev/echoes-app/pkg/slug"
)

// FeedInvalidator 在文章内容变更后清除 RSS 与站点地图缓存。
type FeedInvalidator interface {
	InvalidateCache(ctx context.Context)
}

type Service interface {
	Create(ctx context.Context, req *model.CreatePostRequest) (*model.PostResponse, error)
	Get(ctx context.Context, publicID string) (*model.PostResponse, error)
	Update(ctx context.Context, publicID string, req *model.UpdatePostRequest) (*model.PostResponse, error)
	Delete(ctx context.Context, publicID string) error
	List(ctx context.Context, options *model.ListPostsOptions) (*model.PostListResponse, error)

	GetPublicBySlug(ctx context.Context, slug string) (*model.PostResponse, error)
	ListPublic(ctx context.Context, options *model.ListPublicPostsOptions) (*model.PostListResponse, error)
	Search(ctx context.Context, query string) ([]*model.PostResponse, error)

	ToAPIResponse(p *model.Post, includeContent bool) *model.PostResponse
}

type serviceImpl struct {
	repo             repository.PostRepository
	postTagRepo      repository.PostTagRepository
	postCategoryRepo repository.PostCategoryRepository
	txManager        repository.TransactionManager
	parserSvc        *appParser.Service
	feedInvalidator  FeedInvalidator
}

func NewService(
	repo repository.PostRepository,
	postTagRepo repository.PostTagRepository,
	postCategoryRepo repository.PostCategoryRepository,
	txManager repository.TransactionManager,
	parserSvc *appParser.Service,
	feedInvalidator FeedInvalidator,
) Service {
	return &serviceImpl{
		repo:             repo,
		postTagRepo:      postTagRepo,
		postCategoryRepo: postCategoryRepo,
		txManager:        txManager,
		parserSvc:        parserSvc,
		feedInvalidator:  feedInvalidator,
	}
}

// invalidateFeeds 写操作成功后使 RSS/站点地图缓存失效，未接入时跳过。
func (s *serviceImpl) invalidateFeeds(ctx context.Context) {
	if s.feedInvalidator != nil {
		s.feedInvalidator.InvalidateCache(ctx)
	}
}

// renderContent 渲染 Markdown 并从结果中提取纯文本摘要。
func (s *serviceImpl) renderContent(ctx context.Context, contentMd string) (html, excerpt string, err error) {
	html, err = s.parserSvc.ToHTML(ctx, contentMd)
	if err != nil {
		return "", "", fmt.Errorf("渲染 Markdown 失败: %w", err)
	}
	excerpt = s.parserSvc.ExtractExcerpt(html, constant.ExcerptMaxRunes)
	return html, excerpt, nil
}

// resolveSlug 确定一篇文章最终使用的 slug。
// 作者显式指定的 slug 必须合法且未被占用；未指定时从标题派生，
// 派生结果冲突时追加 -2、-3 依次试探，派生为空时回退为随机短标识。
func resolveSlug(ctx context.Context, repo repository.PostRepository, requested, title string, excludeID uint) (string, error) {
	if requested != "" {
		if !slug.IsValid(requested) {
			return "", fmt.Errorf("%w: slug 只允许字母、数字、汉字与连字符", constant.ErrInvalidInput)
		}
		taken, err := repo.ExistsBySlug(ctx, requested, excludeID)
		if err != nil {
			return "", err
		}
		if taken {
			return "", fmt.Errorf("%w: slug '%s' 已被占用", constant.ErrConflict, requested)
		}
		return requested, nil
	}

	base := slug.Derive(title)
	if base == "" {
		base = slug.RandomToken()
	}

	candidate := base
	for i := 2; ; i++ {
		taken, err := repo.ExistsBySlug(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// Create 处理创建新文章的完整业务流程。
func (s *serviceImpl) Create(ctx context.Context, req *model.CreatePostRequest) (*model.PostResponse, error) {
	status := constant.PostStatus(req.Status)
	if req.Status == "" {
		status = constant.PostStatusDraft
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: 无效的文章状态 '%s'", constant.ErrInvalidInput, req.Status)
	}

	contentHTML, excerpt, err := s.renderContent(ctx, req.ContentMd)
	if err != nil {
		return nil, err
	}

	var newPost *model.Post
	err = s.txManager.Do(ctx, func(repos repository.Repositories) error {
		finalSlug, err := resolveSlug(ctx, repos.Post, req.Slug, req.Title, 0)
		if err != nil {
			return err
		}

		var categoryID *uint
		if req.CategoryID != "" {
			dbID, err := idgen.DecodePublicIDWithType(req.CategoryID, idgen.EntityTypePostCategory)
			if err != nil {
				return fmt.Errorf("%w: 无效的分类 ID", constant.ErrInvalidInput)
			}
			if _, err := repos.PostCategory.FindByID(ctx, dbID); err != nil {
				return fmt.Errorf("查找分类失败: %w", err)
			}
			categoryID = &dbID
		}

		tagIDs, err := resolveTagIDs(ctx, repos.PostTag, req.TagNames)
		if err != nil {
			return err
		}

		params := &model.CreatePostParams{
			Title:       req.Title,
			Slug:        finalSlug,
			ContentMd:   req.ContentMd,
			ContentHTML: contentHTML,
			Excerpt:     excerpt,
			CoverURL:    req.CoverURL,
			Status:      status,
			CategoryID:  categoryID,
			TagIDs:      tagIDs,
		}
		if status == constant.PostStatusPublished {
			now := time.Now()
			params.PublishedAt = &now
		}

		newPost, err = repos.Post.Create(ctx, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidateFeeds(ctx)
	return s.ToAPIResponse(newPost, true), nil
}

// Get 获取单篇文章(后台视角，不限状态)。
func (s *serviceImpl) Get(ctx context.Context, publicID string) (*model.PostResponse, error) {
	dbID, err := idgen.DecodePublicIDWithType(publicID, idgen.EntityTypePost)
	if err != nil {
		return nil, fmt.Errorf("%w: 无效的文章 ID", constant.ErrInvalidInput)
	}
	post, err := s.repo.FindByID(ctx, dbID)
	if err != nil {
		return nil, err
	}
	return s.ToAPIResponse(post, true), nil
}

// Update 处理更新文章的业务逻辑。
func (s *serviceImpl) Update(ctx context.Context, publicID string, req *model.UpdatePostRequest) (*model.PostResponse, error) {
	dbID, err := idgen.DecodePublicIDWithType(publicID, idgen.EntityTypePost)
	if err != nil {
		return nil, fmt.Errorf("%w: 无效的文章 ID", constant.ErrInvalidInput)
	}

	var updatedPost *model.Post
	err = s.txManager.Do(ctx, func(repos repository.Repositories) error {
		oldPost, err := repos.Post.FindByID(ctx, dbID)
		if err != nil {
			return err
		}

		params := &model.UpdatePostParams{
			Title:    req.Title,
			CoverURL: req.CoverURL,
		}

		// 内容变化时重新渲染 HTML 并重算摘要
		if req.ContentMd != nil {
			contentHTML, excerpt, err := s.renderContent(ctx, *req.ContentMd)
			if err != nil {
				return err
			}
			params.ContentMd = req.ContentMd
			params.ContentHTML = &contentHTML
			params.Excerpt = &excerpt
		}

		// slug 变化走与创建相同的校验与占用检查
		if req.Slug != nil && *req.Slug != oldPost.Slug {
			title := oldPost.Title
			if req.Title != nil {
				title = *req.Title
			}
			finalSlug, err := resolveSlug(ctx, repos.Post, *req.Slug, title, dbID)
			if err != nil {
				return err
			}
			params.Slug = &finalSlug
		}

		if req.Status != nil {
			newStatus := constant.PostStatus(*req.Status)
			if !newStatus.IsValid() {
				return fmt.Errorf("%w: 无效的文章状态 '%s'", constant.ErrInvalidInput, *req.Status)
			}
			params.Status = &newStatus

			// 首次发布时盖上发布时间戳，撤回草稿时清除
			if newStatus == constant.PostStatusPublished && oldPost.PublishedAt == nil {
				now := time.Now()
				params.PublishedAt = &now
			}
			if newStatus == constant.PostStatusDraft && oldPost.PublishedAt != nil {
				params.ClearPublishedAt = true
			}
		}

		// CategoryID 提交空字符串表示取消归类
		if req.CategoryID != nil {
			if *req.CategoryID == "" {
				params.ClearCategory = true
			} else {
				catID, err := idgen.DecodePublicIDWithType(*req.CategoryID, idgen.EntityTypePostCategory)
				if err != nil {
					return fmt.Errorf("%w: 无效的分类 ID", constant.ErrInvalidInput)
				}
				if _, err := repos.PostCategory.FindByID(ctx, catID); err != nil {
					return fmt.Errorf("查找分类失败: %w", err)
				}
				params.CategoryID = &catID
			}
		}

		// TagNames 为 nil 表示不改动标签，提交空列表表示清空后全量替换
		if req.TagNames != nil {
			tagIDs, err := resolveTagIDs(ctx, repos.PostTag, req.TagNames)
			if err != nil {
				return err
			}
			if tagIDs == nil {
				tagIDs = []uint{}
			}
			params.TagIDs = tagIDs
		}

		updatedPost, err = repos.Post.Update(ctx, dbID, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidateFeeds(ctx)
	return s.ToAPIResponse(updatedPost, true), nil
}

// Delete 处理删除文章的业务逻辑。
func (s *serviceImpl) Delete(ctx context.Context, publicID string) error {
	dbID, err := idgen.DecodePublicIDWithType(publicID, idgen.EntityTypePost)
	if err != nil {
		return fmt.Errorf("%w: 无效的文章 ID", constant.ErrInvalidInput)
	}
	err = s.txManager.Do(ctx, func(repos repository.Repositories) error {
		return repos.Post.Delete(ctx, dbID)
	})
	if err != nil {
		return err
	}
	s.invalidateFeeds(ctx)
	return nil
}

// List 后台文章列表，不限状态。
func (s *serviceImpl) List(ctx context.Context, options *model.ListPostsOptions) (*model.PostListResponse, error) {
	if options.Page < 1 {
		options.Page = 1
	}
	if options.PageSize < 1 || options.PageSize > constant.MaxPageSize {
		options.PageSize = constant.DefaultPageSize
	}

	posts, total, err := s.repo.FindWithConditions(ctx, options)
	if err != nil {
		return nil, fmt.Errorf("获取文章列表失败: %w", err)
	}

	list := make([]*model.PostResponse, len(posts))
	for i, p := range posts {
		list[i] = s.ToAPIResponse(p, false)
	}
	return &model.PostListResponse{
		List:     list,
		Total:    total,
		Page:     options.Page,
		PageSize: options.PageSize,
	}, nil
}

// GetPublicBySlug 公开的文章详情，只返回已发布的文章。
func (s *serviceImpl) GetPublicBySlug(ctx context.Context, postSlug string) (*model.PostResponse, error) {
	post, err := s.repo.FindPublishedBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	return s.ToAPIResponse(post, true), nil
}

// ListPublic 公开的文章列表。动态分类按时间流页大小分页，其余为标准页大小。
// 查询失败时返回空列表而不是错误，保证列表页始终可渲染。
func (s *serviceImpl) ListPublic(ctx context.Context, options *model.ListPublicPostsOptions) (*model.PostListResponse, error) {
	if options.Page < 1 {
		options.Page = 1
	}
	if options.PageSize < 1 || options.PageSize > constant.MaxPageSize {
		options.PageSize = constant.DefaultPageSize
		if options.CategorySlug != "" {
			// 分类不存在时不报错，后面的联表查询自然得到空列表
			category, err := s.postCategoryRepo.FindBySlug(ctx, options.CategorySlug)
			if err != nil {
				if !errors.Is(err, constant.ErrNotFound) {
					log.Printf("[警告] 查询分类 '%s' 失败: %v", options.CategorySlug, err)
				}
			} else if category.Type == constant.CategoryTypeMoment {
				options.PageSize = constant.MomentPageSize
			}
		}
	}

	posts, total, err := s.repo.ListPublished(ctx, options)
	if err != nil {
		log.Printf("[错误] 获取公开文章列表失败: %v", err)
		return &model.PostListResponse{
			List:     []*model.PostResponse{},
			Total:    0,
			Page:     options.Page,
			PageSize: options.PageSize,
		}, nil
	}

	list := make([]*model.PostResponse, len(posts))
	for i, p := range posts {
		list[i] = s.ToAPIResponse(p, false)
	}
	return &model.PostListResponse{
		List:     list,
		Total:    total,
		Page:     options.Page,
		PageSize: options.PageSize,
	}, nil
}

// Search 站内搜索：标题或摘要的不区分大小写匹配，空查询返回空结果。
func (s *serviceImpl) Search(ctx context.Context, query string) ([]*model.PostResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*model.PostResponse{}, nil
	}

	posts, err := s.repo.SearchPublished(ctx, query, constant.SearchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("搜索文章失败: %w", err)
	}

	list := make([]*model.PostResponse, len(posts))
	for i, p := range posts {
		list[i] = s.ToAPIResponse(p, false)
	}
	return list, nil
}

// ToAPIResponse 将领域对象转换为 API 响应结构。
func (s *serviceImpl) ToAPIResponse(p *model.Post, includeContent bool) *model.PostResponse {
	if p == nil {
		return nil
	}

	resp := &model.PostResponse{
		ID:          p.PublicID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		PublishedAt: p.PublishedAt,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		CoverURL:    p.CoverURL,
		Status:      string(p.Status),
		ViewCount:   p.ViewCount,
		Tags:        make([]*model.PostTagResponse, 0, len(p.Tags)),
	}
	if includeContent {
		resp.ContentMd = p.ContentMd
		resp.ContentHTML = p.ContentHTML
	}
	if p.Category != nil {
		resp.Category = &model.PostCategoryResponse{
			ID:          p.Category.PublicID,
			Name:        p.Category.Name,
			Slug:        p.Category.Slug,
			Description: p.Category.Description,
			Type:        string(p.Category.Type),
			PostCount:   p.Category.PostCount,
		}
	}
	for _, t := range p.Tags {
		resp.Tags = append(resp.Tags, &model.PostTagResponse{
			ID:        t.PublicID,
			Name:      t.Name,
			Slug:      t.Slug,
			PostCount: t.PostCount,
		})
	}
	return resp
}

// resolveTagIDs 将标签名列表解析为数据库 ID 列表。
func resolveTagIDs(ctx context.Context, tagRepo repository.PostTagRepository, names []string) ([]uint, error) {
	if len(names) == 0 {
		return nil, nil
	}
	tags, err := tagRepo.ResolveByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("解析标签失败: %w", err)
	}
	ids := make([]uint, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids, nil
}
