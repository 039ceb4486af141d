/*
 * @Description: GORM 持久化对象定义与自动迁移
 * @Author: 李志伟
 * @Date: 2025-11-03 16:05:12
 * @LastEditTime: 2026-05-19 10:02:33
 * @LastEditors: 李志伟
 */
package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Post 文章表
type Post struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt *time.Time `gorm:"index"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Slug        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	ContentMd   string     `gorm:"type:text"`
	ContentHTML string     `gorm:"type:text"`
	Excerpt     string     `gorm:"type:varchar(512)"`
	CoverURL    string     `gorm:"type:varchar(1024)"`
	Status      string     `gorm:"type:varchar(20);not null;default:draft;index"`
	ViewCount   int64      `gorm:"not null;default:0"`
	CategoryID  *uint      `gorm:"index"`

	Category *PostCategory `gorm:"foreignKey:CategoryID"`
	Tags     []*PostTag    `gorm:"many2many:post_tag_bindings"`
}

// PostCategory 文章分类表
type PostCategory struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Slug        string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string `gorm:"type:varchar(512)"`
	Type        string `gorm:"type:varchar(20);not null;default:post"`
}

// PostTag 文章标签表
type PostTag struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	Name      string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Slug      string `gorm:"type:varchar(100);uniqueIndex;not null"`
}

// Comment 评论表
type Comment struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	PostID    uint   `gorm:"index;not null"`
	ParentID  *uint  `gorm:"index"`
	Author    string `gorm:"type:varchar(50);not null"`
	Email     string `gorm:"type:varchar(255)"`
	Website   string `gorm:"type:varchar(255)"`
	Content   string `gorm:"type:varchar(2000);not null"`
	Approved  bool   `gorm:"not null;default:false;index"`
	IPAddress string `gorm:"type:varchar(64)"`
	UserAgent string `gorm:"type:varchar(512)"`
}

// Migrate 在启动阶段自动同步数据库结构。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Post{}, &PostCategory{}, &PostTag{}, &Comment{}); err != nil {
		return fmt.Errorf("创建/更新数据库 schema 失败: %w", err)
	}
	return nil
}
