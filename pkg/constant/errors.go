package constant

import "errors"

// 跨层使用的哨兵错误，仓储与服务层返回，处理器层据此映射 HTTP 状态码。
var (
	// ErrNotFound 目标资源不存在或对当前调用方不可见
	ErrNotFound = errors.New("资源不存在")
	// ErrConflict 唯一性约束冲突，例如 slug 已被占用
	ErrConflict = errors.New("资源冲突")
	// ErrInvalidInput 输入未通过业务校验
	ErrInvalidInput = errors.New("输入不合法")
	// ErrUnauthorized 未携带或携带了无效的凭证
	ErrUnauthorized = errors.New("未授权")
	// ErrForbidden 凭证有效但无权执行该操作
	ErrForbidden = errors.New("禁止访问")
	// ErrPayloadTooLarge 上传内容超过允许的大小
	ErrPayloadTooLarge = errors.New("内容过大")
)
