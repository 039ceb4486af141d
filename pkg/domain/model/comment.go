/*
 * @Description:
 * @Author: 李志伟
 * @Date: 2025-11-05 22:10:44
 * @LastEditTime: 2026-02-19 11:03:55
 * @LastEditors: 李志伟
 */
package model

import "time"

// --- 核心领域对象 (Domain Object) ---

// Comment 是评论的核心领域模型。
type Comment struct {
	ID        uint
	PublicID  string
	PostID    uint
	ParentID  *uint
	Author    string
	Email     string
	Website   string
	Content   string
	Approved  bool
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// CreateCommentRequest 定义了发表评论的请求体
type CreateCommentRequest struct {
	PostSlug      string `json:"post_slug" binding:"required"`
	ParentID      string `json:"parent_id"`
	Author        string `json:"author" binding:"required,max=50"`
	Email         string `json:"email" binding:"omitempty,email"`
	Website       string `json:"website" binding:"omitempty,url"`
	Content       string `json:"content" binding:"required,max=2000"`
	CaptchaID     string `json:"captcha_id"`
	CaptchaAnswer string `json:"captcha_answer"`
}

// CommentResponse 定义了评论的标准 API 响应结构，Children 构成评论树
type CommentResponse struct {
	ID        string             `json:"id"`
	ParentID  string             `json:"parent_id,omitempty"`
	Author    string             `json:"author"`
	Website   string             `json:"website,omitempty"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"created_at"`
	Children  []*CommentResponse `json:"children"`
}

// AdminCommentResponse 后台评论列表的响应结构，携带审核所需的完整信息
type AdminCommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	PostTitle string    `json:"post_title"`
	ParentID  string    `json:"parent_id,omitempty"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Website   string    `json:"website"`
	Content   string    `json:"content"`
	Approved  bool      `json:"approved"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentListResponse 定义了后台评论列表的 API 响应结构
type CommentListResponse struct {
	List     []*AdminCommentResponse `json:"list"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"pageSize"`
}

// ListCommentsOptions 后台评论列表的查询参数
type ListCommentsOptions struct {
	Page     int
	PageSize int
	Approved *bool // nil 表示不过滤
	PostID   uint  // 0 表示不过滤
}
