/*
 * @Description: 文章分类的 HTTP 处理器
 * @Author: 李志伟
 * @Date: 2025-12-15 11:40:07
 * @LastEditTime: 2026-03-18 14:22:51
 * @LastEditors: 李志伟
 */
package post_category

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/response"
	categorySvc "github.com/lizhiwei-dev/echoes-app/pkg/service/post_category"
)

// Handler 封装了文章分类相关的 HTTP 处理器。
type Handler struct {
	svc categorySvc.Service
}

func NewHandler(svc categorySvc.Service) *Handler {
	return &Handler{svc: svc}
}

// List
// @Summary      获取分类列表
// @Description  获取全部分类，附带每个分类下已发布文章数。
// @Tags         PostCategory
// @Produce      json
// @Success      200 {object} response.Response{data=[]model.PostCategoryResponse} "成功响应"
// @Router       /public/post-categories [get]
func (h *Handler) List(c *gin.Context) {
	categories, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.FailWithError(c, err, "获取分类列表失败")
		return
	}

	response.Success(c, categories, "获取列表成功")
}

// Create
// @Summary      创建分类
// @Tags         PostCategory
// @Accept       json
// @Produce      json
// @Param        category body model.CreatePostCategoryRequest true "创建分类的请求体"
// @Success      200 {object} response.Response{data=model.PostCategoryResponse} "成功响应"
// @Failure      409 {object} response.Response "名称或 slug 冲突"
// @Router       /post-categories [post]
func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePostCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	category, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		response.FailWithError(c, err, "创建分类失败")
		return
	}

	response.Success(c, category, "创建成功")
}

// Update
// @Summary      更新分类
// @Tags         PostCategory
// @Accept       json
// @Produce      json
// @Param        id path string true "分类公共 ID"
// @Param        category body model.UpdatePostCategoryRequest true "更新分类的请求体"
// @Success      200 {object} response.Response{data=model.PostCategoryResponse} "成功响应"
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /post-categories/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	var req model.UpdatePostCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	category, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.FailWithError(c, err, "更新分类失败")
		return
	}

	response.Success(c, category, "更新成功")
}

// Delete
// @Summary      删除分类
// @Description  删除分类，分类下的文章保留并解除分类关联。
// @Tags         PostCategory
// @Produce      json
// @Param        id path string true "分类公共 ID"
// @Success      200 {object} response.Response "成功响应"
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /post-categories/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FailWithError(c, err, "删除分类失败")
		return
	}

	response.Success(c, nil, "删除成功")
}
