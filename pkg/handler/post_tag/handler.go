/*
 * @Description: 文章标签的 HTTP 处理器
 * @Author: 李志伟
 * @Date: 2025-12-15 11:58:26
 * @LastEditTime: 2026-03-18 14:30:44
 * @LastEditors: 李志伟
 */
package post_tag

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lizhiwei-dev/echoes-app/pkg/response"
	tagSvc "github.com/lizhiwei-dev/echoes-app/pkg/service/post_tag"
)

// Handler 封装了文章标签相关的 HTTP 处理器。
type Handler struct {
	svc tagSvc.Service
}

func NewHandler(svc tagSvc.Service) *Handler {
	return &Handler{svc: svc}
}

// List
// @Summary      获取标签列表
// @Description  获取全部标签，附带每个标签下已发布文章数。
// @Tags         PostTag
// @Produce      json
// @Success      200 {object} response.Response{data=[]model.PostTagResponse} "成功响应"
// @Router       /public/post-tags [get]
func (h *Handler) List(c *gin.Context) {
	tags, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.FailWithError(c, err, "获取标签列表失败")
		return
	}

	response.Success(c, tags, "获取列表成功")
}

// Resolve
// @Summary      按名称批量解析标签
// @Description  按名称列表获取或创建标签，返回顺序与请求一致。
// @Tags         PostTag
// @Accept       json
// @Produce      json
// @Param        body body object{names=[]string} true "标签名称列表"
// @Success      200 {object} response.Response{data=[]model.PostTagResponse} "成功响应"
// @Router       /post-tags/resolve [post]
func (h *Handler) Resolve(c *gin.Context) {
	var req struct {
		Names []string `json:"names" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	tags, err := h.svc.Resolve(c.Request.Context(), req.Names)
	if err != nil {
		response.FailWithError(c, err, "解析标签失败")
		return
	}

	response.Success(c, tags, "解析成功")
}

// Delete
// @Summary      删除标签
// @Description  删除标签并解除其与所有文章的关联。
// @Tags         PostTag
// @Produce      json
// @Param        id path string true "标签公共 ID"
// @Success      200 {object} response.Response "成功响应"
// @Failure      404 {object} response.Response "标签不存在"
// @Router       /post-tags/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FailWithError(c, err, "删除标签失败")
		return
	}

	response.Success(c, nil, "删除成功")
}
