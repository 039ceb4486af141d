// internal/infra/persistence/gormrepo/comment_repo.go
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

type commentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) repository.CommentRepository {
	return &commentRepo{db: db}
}

func toDomainComment(c *po.Comment) *model.Comment {
	if c == nil {
		return nil
	}
	publicID, _ := idgen.GeneratePublicID(c.ID, idgen.EntityTypeComment)
	return &model.Comment{
		ID:        c.ID,
		PublicID:  publicID,
		PostID:    c.PostID,
		ParentID:  c.ParentID,
		Author:    c.Author,
		Email:     c.Email,
		Website:   c.Website,
		Content:   c.Content,
		Approved:  c.Approved,
		IPAddress: c.IPAddress,
		UserAgent: c.UserAgent,
		CreatedAt: c.CreatedAt,
	}
}

func (r *commentRepo) Create(ctx context.Context, params *repository.CreateCommentParams) (*model.Comment, error) {
	newComment := &po.Comment{
		PostID:    params.PostID,
		ParentID:  params.ParentID,
		Author:    params.Author,
		Email:     params.Email,
		Website:   params.Website,
		Content:   params.Content,
		Approved:  params.Approved,
		IPAddress: params.IPAddress,
		UserAgent: params.UserAgent,
	}
	if err := r.db.WithContext(ctx).Create(newComment).Error; err != nil {
		return nil, err
	}
	return toDomainComment(newComment), nil
}

func (r *commentRepo) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var c po.Comment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constant.ErrNotFound
		}
		return nil, err
	}
	return toDomainComment(&c), nil
}

func (r *commentRepo) FindApprovedByPostID(ctx context.Context, postID uint) ([]*model.Comment, error) {
	var rows []*po.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND approved = ?", postID, true).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	comments := make([]*model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = toDomainComment(row)
	}
	return comments, nil
}

func (r *commentRepo) FindWithConditions(ctx context.Context, opts *model.ListCommentsOptions) ([]*model.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&po.Comment{})

	if opts.Approved != nil {
		query = query.Where("approved = ?", *opts.Approved)
	}
	if opts.PostID > 0 {
		query = query.Where("post_id = ?", opts.PostID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*po.Comment
	err := query.
		Order("created_at DESC, id DESC").
		Offset((opts.Page - 1) * opts.PageSize).
		Limit(opts.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	comments := make([]*model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = toDomainComment(row)
	}
	return comments, total, nil
}

func (r *commentRepo) UpdateApproved(ctx context.Context, id uint, approved bool) (*model.Comment, error) {
	var c po.Comment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, constant.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&c).UpdateColumn("approved", approved).Error; err != nil {
		return nil, err
	}
	return toDomainComment(&c), nil
}

func (r *commentRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&po.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return constant.ErrNotFound
	}
	return nil
}

func (r *commentRepo) CountApprovedByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&po.Comment{}).
		Where("post_id = ? AND approved = ?", postID, true).
		Count(&count).Error
	return count, err
}
