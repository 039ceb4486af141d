/*
 * @Description: 评论树组装
 * @Author: 李志伟
 * @Date: 2025-11-06 09:41:17
 * @LastEditTime: 2026-02-19 11:32:40
 * @LastEditors: 李志伟
 */
package comment

import (
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
)

// BuildTree 将平铺的评论列表组装为评论树，入参需已按期望的展示顺序排列。
// 父评论不在列表中的评论(父级被删除或未过审)提升为根节点，自身的子树保持完整。
func BuildTree(comments []*model.Comment) []*model.CommentResponse {
	nodes := make(map[uint]*model.CommentResponse, len(comments))
	for _, c := range comments {
		nodes[c.ID] = &model.CommentResponse{
			ID:        c.PublicID,
			Author:    c.Author,
			Website:   c.Website,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			Children:  []*model.CommentResponse{},
		}
	}

	roots := make([]*model.CommentResponse, 0, len(comments))
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok {
				node.ParentID = parent.ID
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
