// echoes-app/pkg/service/comment/service.go
package comment

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/repository"
	"github.com/lizhiwei-dev/echoes-app/pkg/idgen"
	"github.com/lizhiwei-dev/echoes-app/pkg/service/utility"
)

// Options 控制评论服务的安全策略。
type Options struct {
	// CaptchaEnabled 为 true 时发表评论必须携带有效验证码
	CaptchaEnabled bool
	// LimitPerMinute 单个 IP 每分钟允许发表的评论数，0 表示不限制
	LimitPerMinute int
}

// Service 评论服务的核心业务逻辑。
type Service struct {
	repo       repository.CommentRepository
	postRepo   repository.PostRepository
	cacheSvc   utility.CacheService
	captchaSvc utility.CaptchaService
	opts       Options

	// Redis 不可用时退化为进程内的令牌桶限流
	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
}

// NewService 创建一个新的评论服务实例。
func NewService(
	repo repository.CommentRepository,
	postRepo repository.PostRepository,
	cacheSvc utility.CacheService,
	captchaSvc utility.CaptchaService,
	opts Options,
) *Service {
	return &Service{
		repo:       repo,
		postRepo:   postRepo,
		cacheSvc:   cacheSvc,
		captchaSvc: captchaSvc,
		opts:       opts,
		limiters:   make(map[string]*rate.Limiter),
	}
}

// checkRateLimit 单 IP 限流。优先走 Redis 的固定窗口计数，
// 多实例部署时共享计数；Redis 不可用时退化为本进程的令牌桶。
func (s *Service) checkRateLimit(ctx context.Context, ip string) error {
	if s.opts.LimitPerMinute <= 0 || ip == "" {
		return nil
	}

	if s.cacheSvc != nil {
		count, err := s.cacheSvc.Increment(ctx, constant.CommentRateKeyPrefix+ip, time.Minute)
		if err == nil {
			if count > int64(s.opts.LimitPerMinute) {
				return fmt.Errorf("%w: 评论过于频繁，请稍后再试", constant.ErrInvalidInput)
			}
			return nil
		}
		log.Printf("[警告] 评论限流计数失败，退化为本地限流: %v", err)
	}

	if !s.localLimiter(ip).Allow() {
		return fmt.Errorf("%w: 评论过于频繁，请稍后再试", constant.ErrInvalidInput)
	}
	return nil
}

func (s *Service) localLimiter(ip string) *rate.Limiter {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	limiter, ok := s.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(
			rate.Every(time.Minute/time.Duration(s.opts.LimitPerMinute)),
			s.opts.LimitPerMinute,
		)
		s.limiters[ip] = limiter
	}
	return limiter
}

// Create 处理发表评论的完整业务流程。
// 评论默认进入待审核状态，审核通过后才对公开接口可见。
func (s *Service) Create(ctx context.Context, req *model.CreateCommentRequest, ip, userAgent string) (*model.CommentResponse, error) {
	if s.opts.CaptchaEnabled {
		if !s.captchaSvc.Verify(req.CaptchaID, req.CaptchaAnswer) {
			return nil, fmt.Errorf("%w: 验证码错误", constant.ErrInvalidInput)
		}
	}
	if err := s.checkRateLimit(ctx, ip); err != nil {
		return nil, err
	}

	post, err := s.postRepo.FindPublishedBySlug(ctx, req.PostSlug)
	if err != nil {
		return nil, err
	}

	var parentID *uint
	if req.ParentID != "" {
		parentDBID, err := idgen.DecodePublicIDWithType(req.ParentID, idgen.EntityTypeComment)
		if err != nil {
			return nil, fmt.Errorf("%w: 无效的父评论 ID", constant.ErrInvalidInput)
		}
		parent, err := s.repo.FindByID(ctx, parentDBID)
		if err != nil {
			return nil, fmt.Errorf("查找父评论失败: %w", err)
		}
		if parent.PostID != post.ID {
			return nil, fmt.Errorf("%w: 父评论不属于该文章", constant.ErrInvalidInput)
		}
		parentID = &parentDBID
	}

	created, err := s.repo.Create(ctx, &repository.CreateCommentParams{
		PostID:    post.ID,
		ParentID:  parentID,
		Author:    req.Author,
		Email:     req.Email,
		Website:   req.Website,
		Content:   req.Content,
		Approved:  false,
		IPAddress: ip,
		UserAgent: userAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("创建评论失败: %w", err)
	}

	return &model.CommentResponse{
		ID:        created.PublicID,
		ParentID:  req.ParentID,
		Author:    created.Author,
		Website:   created.Website,
		Content:   created.Content,
		CreatedAt: created.CreatedAt,
		Children:  []*model.CommentResponse{},
	}, nil
}

// ListByPostSlug 获取某篇已发布文章的评论树，只包含已过审的评论。
func (s *Service) ListByPostSlug(ctx context.Context, postSlug string) ([]*model.CommentResponse, error) {
	post, err := s.postRepo.FindPublishedBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.FindApprovedByPostID(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("获取评论列表失败: %w", err)
	}
	return BuildTree(comments), nil
}

// AdminList 后台评论列表，携带所属文章标题。
func (s *Service) AdminList(ctx context.Context, opts *model.ListCommentsOptions) (*model.CommentListResponse, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 || opts.PageSize > constant.MaxPageSize {
		opts.PageSize = 20
	}

	comments, total, err := s.repo.FindWithConditions(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("获取评论列表失败: %w", err)
	}

	// 同一页往往命中同一批文章，用 map 避免重复查询标题
	titleCache := make(map[uint]string)
	list := make([]*model.AdminCommentResponse, len(comments))
	for i, c := range comments {
		title, ok := titleCache[c.PostID]
		if !ok {
			if post, err := s.postRepo.FindByID(ctx, c.PostID); err == nil {
				title = post.Title
			} else {
				log.Printf("[警告] 查找评论 %d 所属文章 %d 失败: %v", c.ID, c.PostID, err)
			}
			titleCache[c.PostID] = title
		}
		list[i] = s.toAdminResponse(c, title)
	}

	return &model.CommentListResponse{
		List:     list,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.PageSize,
	}, nil
}

// SetApproved 更新评论的审核状态。
func (s *Service) SetApproved(ctx context.Context, publicID string, approved bool) (*model.AdminCommentResponse, error) {
	dbID, err := idgen.DecodePublicIDWithType(publicID, idgen.EntityTypeComment)
	if err != nil {
		return nil, fmt.Errorf("%w: 无效的评论 ID", constant.ErrInvalidInput)
	}
	updated, err := s.repo.UpdateApproved(ctx, dbID, approved)
	if err != nil {
		return nil, err
	}

	var postTitle string
	if post, err := s.postRepo.FindByID(ctx, updated.PostID); err == nil {
		postTitle = post.Title
	}
	return s.toAdminResponse(updated, postTitle), nil
}

// Delete 删除单条评论。其子评论保留，渲染评论树时会提升为根节点。
func (s *Service) Delete(ctx context.Context, publicID string) error {
	dbID, err := idgen.DecodePublicIDWithType(publicID, idgen.EntityTypeComment)
	if err != nil {
		return fmt.Errorf("%w: 无效的评论 ID", constant.ErrInvalidInput)
	}
	return s.repo.Delete(ctx, dbID)
}

func (s *Service) toAdminResponse(c *model.Comment, postTitle string) *model.AdminCommentResponse {
	resp := &model.AdminCommentResponse{
		ID:        c.PublicID,
		PostTitle: postTitle,
		Author:    c.Author,
		Email:     c.Email,
		Website:   c.Website,
		Content:   c.Content,
		Approved:  c.Approved,
		IPAddress: c.IPAddress,
		CreatedAt: c.CreatedAt,
	}
	if postPublicID, err := idgen.GeneratePublicID(c.PostID, idgen.EntityTypePost); err == nil {
		resp.PostID = postPublicID
	}
	if c.ParentID != nil {
		if parentPublicID, err := idgen.GeneratePublicID(*c.ParentID, idgen.EntityTypeComment); err == nil {
			resp.ParentID = parentPublicID
		}
	}
	return resp
}
