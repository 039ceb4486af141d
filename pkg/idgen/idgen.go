/*
 * @Description: ID 生成和解码服务
 * @Author: 李志伟
 * @Date: 2025-11-02 19:21:40
 * @LastEditTime: 2026-03-15 21:47:12
 * @LastEditors: 李志伟
 */
package idgen

import (
	"fmt"

	"github.com/sqids/sqids-go"
)

// sqidsEncoder 是用于生成和解码短 ID 的 Sqids 编码器实例。
var sqidsEncoder *sqids.Sqids

// EntityType 定义了不同实体在生成公共 ID 时的类型标识。
const (
	EntityTypePost         uint64 = 1 // 文章实体的类型标识
	EntityTypePostCategory uint64 = 2 // 文章分类实体的类型标识
	EntityTypePostTag      uint64 = 3 // 文章标签实体的类型标识
	EntityTypeComment      uint64 = 4 // 评论实体的类型标识
	EntityTypeAttachment   uint64 = 5 // 附件实体的类型标识
)

// InitSqidsEncoder 初始化 Sqids 编码器。
func InitSqidsEncoder() error {
	s, err := sqids.New(
		sqids.Options{
			MinLength: 4,
			Alphabet:  "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
		},
	)
	if err != nil {
		return fmt.Errorf("初始化 Sqids 编码器失败: %w", err)
	}
	sqidsEncoder = s
	return nil
}

// GeneratePublicID 将数据库自增 ID 与实体类型编码为对外暴露的短 ID。
func GeneratePublicID(dbID uint, entityType uint64) (string, error) {
	if sqidsEncoder == nil {
		return "", fmt.Errorf("Sqids 编码器未初始化")
	}

	numbersToEncode := []uint64{uint64(dbID), entityType}

	id, err := sqidsEncoder.Encode(numbersToEncode)
	if err != nil {
		return "", fmt.Errorf("编码公共ID失败: %w", err)
	}

	return id, nil
}

// DecodePublicID 解码公共 ID
func DecodePublicID(publicID string) (dbID uint, entityType uint64, err error) {
	if sqidsEncoder == nil {
		return 0, 0, fmt.Errorf("Sqids 编码器未初始化")
	}

	numbers := sqidsEncoder.Decode(publicID)

	if len(numbers) != 2 {
		return 0, 0, fmt.Errorf("无法从公共ID解码出预期数量的数字(期望2个，得到%d个)", len(numbers))
	}

	return uint(numbers[0]), numbers[1], nil
}

// DecodePublicIDWithType 解码公共 ID 并校验实体类型，类型不符时返回错误。
func DecodePublicIDWithType(publicID string, expected uint64) (uint, error) {
	dbID, entityType, err := DecodePublicID(publicID)
	if err != nil {
		return 0, err
	}
	if entityType != expected {
		return 0, fmt.Errorf("公共ID '%s' 的实体类型不匹配(期望%d，得到%d)", publicID, expected, entityType)
	}
	return dbID, nil
}

// 为了方便，可以添加一个批量解码的辅助函数
func DecodePublicIDBatch(publicIDs []string) ([]uint, error) {
	if publicIDs == nil {
		return nil, nil
	}
	dbIDs := make([]uint, len(publicIDs))
	for i, publicID := range publicIDs {
		dbID, _, err := DecodePublicID(publicID)
		if err != nil {
			return nil, fmt.Errorf("解码公共ID '%s' 失败: %w", publicID, err)
		}
		dbIDs[i] = dbID
	}
	return dbIDs, nil
}
