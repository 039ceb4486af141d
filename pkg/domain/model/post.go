/*
 * @Description:
 * @Author: 李志伟
 * @Date: 2025-11-03 09:18:26
 * @LastEditTime: 2026-05-11 16:40:03
 * @LastEditors: 李志伟
 */
package model

import (
	"time"

	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
)

// --- 核心领域对象 (Domain Object) ---

// Post 是文章的核心领域模型，业务逻辑（Service层）围绕它进行。
type Post struct {
	ID          uint
	PublicID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt *time.Time
	Title       string
	Slug        string
	ContentMd   string
	ContentHTML string
	Excerpt     string
	CoverURL    string
	Status      constant.PostStatus
	ViewCount   int64
	Category    *PostCategory
	Tags        []*PostTag
}

// IsPublished 判断文章当前是否对公开接口可见。
func (p *Post) IsPublished() bool {
	return p.Status == constant.PostStatusPublished
}

// PostCategory 文章分类领域模型
type PostCategory struct {
	ID          uint
	PublicID    string
	Name        string
	Slug        string
	Description string
	Type        constant.CategoryType
	PostCount   int64
	CreatedAt   time.Time
}

// PostTag 文章标签领域模型
type PostTag struct {
	ID        uint
	PublicID  string
	Name      string
	Slug      string
	PostCount int64
	CreatedAt time.Time
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// CreatePostRequest 定义了创建文章的请求体
type CreatePostRequest struct {
	Title      string   `json:"title" binding:"required"`
	Slug       string   `json:"slug"`
	ContentMd  string   `json:"content_md"`
	CoverURL   string   `json:"cover_url"`
	Status     string   `json:"status" binding:"omitempty,oneof=draft published"`
	CategoryID string   `json:"category_id"`
	TagNames   []string `json:"tag_names"`
}

// UpdatePostRequest 定义了更新文章的请求体，指针字段区分"未提交"与"置空"
type UpdatePostRequest struct {
	Title      *string  `json:"title"`
	Slug       *string  `json:"slug"`
	ContentMd  *string  `json:"content_md"`
	CoverURL   *string  `json:"cover_url"`
	Status     *string  `json:"status" binding:"omitempty,oneof=draft published"`
	CategoryID *string  `json:"category_id"`
	TagNames   []string `json:"tag_names"`
}

// PostResponse 定义了文章信息的标准 API 响应结构
type PostResponse struct {
	ID          string                `json:"id"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	PublishedAt *time.Time            `json:"published_at"`
	Title       string                `json:"title"`
	Slug        string                `json:"slug"`
	ContentMd   string                `json:"content_md,omitempty"`
	ContentHTML string                `json:"content_html,omitempty"`
	Excerpt     string                `json:"excerpt"`
	CoverURL    string                `json:"cover_url"`
	Status      string                `json:"status"`
	ViewCount   int64                 `json:"view_count"`
	Category    *PostCategoryResponse `json:"category"`
	Tags        []*PostTagResponse    `json:"tags"`
}

// PostListResponse 定义了文章列表的 API 响应结构
type PostListResponse struct {
	List     []*PostResponse `json:"list"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// PostCategoryResponse 定义了分类信息的标准 API 响应结构
type PostCategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	PostCount   int64  `json:"post_count"`
}

// PostTagResponse 定义了标签信息的标准 API 响应结构
type PostTagResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int64  `json:"post_count"`
}

// CreatePostCategoryRequest 定义了创建分类的请求体
type CreatePostCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"omitempty,oneof=post moment"`
}

// UpdatePostCategoryRequest 定义了更新分类的请求体
type UpdatePostCategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Type        *string `json:"type" binding:"omitempty,oneof=post moment"`
}

// ListPostsOptions 后台文章列表的查询参数
type ListPostsOptions struct {
	Page     int
	PageSize int
	Query    string // 用于模糊搜索标题
	Status   string // 按状态过滤，空值表示不过滤
}

// ListPublicPostsOptions 公开文章列表的查询参数
type ListPublicPostsOptions struct {
	Page         int
	PageSize     int
	CategorySlug string
	TagSlug      string
}

// CreatePostParams 封装了创建文章时需要持久化的所有数据。
type CreatePostParams struct {
	Title       string
	Slug        string
	ContentMd   string
	ContentHTML string
	Excerpt     string
	CoverURL    string
	Status      constant.PostStatus
	PublishedAt *time.Time
	CategoryID  *uint
	TagIDs      []uint
}

// UpdatePostParams 封装了更新文章时需要持久化的数据，nil 字段保持原值。
type UpdatePostParams struct {
	Title            *string
	Slug             *string
	ContentMd        *string
	ContentHTML      *string
	Excerpt          *string
	CoverURL         *string
	Status           *constant.PostStatus
	PublishedAt      *time.Time
	ClearPublishedAt bool
	CategoryID       *uint
	ClearCategory    bool
	TagIDs           []uint // nil 表示不改动标签，空切片表示清空
}
