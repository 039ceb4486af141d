/*
 * @Description: 文章与分类相关的常量定义
 * @Author: 李志伟
 * @Date: 2025-11-02 20:04:31
 * @LastEditTime: 2026-04-07 14:52:18
 * @LastEditors: 李志伟
 */
package constant

// PostStatus 定义了文章的发布状态，提供了更强的类型安全
type PostStatus string

const (
	// PostStatusDraft 草稿，仅后台可见
	PostStatusDraft PostStatus = "draft"
	// PostStatusPublished 已发布，对公开接口可见
	PostStatusPublished PostStatus = "published"
)

// IsValid 检查给定的状态是否是受支持的文章状态
func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished:
		return true
	default:
		return false
	}
}

// CategoryType 定义了分类的形态：普通文章分类或"动态"流
type CategoryType string

const (
	// CategoryTypePost 普通文章分类
	CategoryTypePost CategoryType = "post"
	// CategoryTypeMoment 动态分类，文章以时间流形式展示
	CategoryTypeMoment CategoryType = "moment"
)

// IsValid 检查给定的类型是否是受支持的分类类型
func (t CategoryType) IsValid() bool {
	switch t {
	case CategoryTypePost, CategoryTypeMoment:
		return true
	default:
		return false
	}
}

// 分页相关常量
const (
	// DefaultPageSize 列表页默认每页条数
	DefaultPageSize = 9
	// MomentPageSize 动态流默认每页条数
	MomentPageSize = 12
	// SearchResultLimit 站内搜索返回的最大条数
	SearchResultLimit = 20
	// MaxPageSize 后台列表允许的最大每页条数
	MaxPageSize = 100
)

// 封面图处理相关常量
const (
	// CoverCompressThreshold 超过该字节数的封面图会先压缩再入库
	CoverCompressThreshold = 300 * 1024
	// CoverRejectThreshold 超过该字节数且压缩失败的封面图直接拒绝
	CoverRejectThreshold = 1024 * 1024
)

// 摘要截取的最大字符数(按 rune 计)
const ExcerptMaxRunes = 200
