/*
 * @Description: 评论相关的 HTTP 处理器
 * @Author: 李志伟
 * @Date: 2025-12-16 09:21:55
 * @LastEditTime: 2026-05-30 20:14:38
 * @LastEditors: 李志伟
 */
package comment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/response"
	commentSvc "github.com/lizhiwei-dev/echoes-app/pkg/service/comment"
)

// Handler 封装了评论相关的 HTTP 处理器。
type Handler struct {
	svc *commentSvc.Service
}

func NewHandler(svc *commentSvc.Service) *Handler {
	return &Handler{svc: svc}
}

// Create
// @Summary      发表评论
// @Description  在指定文章下发表评论，新评论需要审核通过后才对外展示。
// @Tags         Comment Public
// @Accept       json
// @Produce      json
// @Param        comment body model.CreateCommentRequest true "发表评论的请求体"
// @Success      200 {object} response.Response{data=model.CommentResponse} "成功响应"
// @Failure      400 {object} response.Response "参数错误或评论过于频繁"
// @Failure      404 {object} response.Response "文章不存在"
// @Router       /public/comments [post]
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	created, err := h.svc.Create(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.FailWithError(c, err, "发表评论失败")
		return
	}

	response.Success(c, created, "评论成功，审核通过后展示")
}

// ListByPost
// @Summary      获取文章评论树
// @Description  获取指定文章下已审核通过的评论，按层级组织为树。
// @Tags         Comment Public
// @Produce      json
// @Param        slug path string true "文章 slug"
// @Success      200 {object} response.Response{data=[]model.CommentResponse} "成功响应"
// @Failure      404 {object} response.Response "文章不存在"
// @Router       /public/posts/{slug}/comments [get]
func (h *Handler) ListByPost(c *gin.Context) {
	comments, err := h.svc.ListByPostSlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.FailWithError(c, err, "获取评论失败")
		return
	}

	response.Success(c, comments, "获取成功")
}

// AdminList
// @Summary      获取评论列表(后台)
// @Description  分页获取全部评论，支持按审核状态过滤。
// @Tags         Comment
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        pageSize query int false "每页数量" default(20)
// @Param        approved query bool false "按审核状态过滤"
// @Success      200 {object} response.Response{data=model.CommentListResponse} "成功响应"
// @Router       /comments [get]
func (h *Handler) AdminList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))

	opts := &model.ListCommentsOptions{
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("approved"); raw != "" {
		approved, err := strconv.ParseBool(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "approved 参数无效")
			return
		}
		opts.Approved = &approved
	}

	result, err := h.svc.AdminList(c.Request.Context(), opts)
	if err != nil {
		response.FailWithError(c, err, "获取评论列表失败")
		return
	}

	response.Success(c, result, "获取列表成功")
}

// SetApproved
// @Summary      审核评论
// @Description  通过或驳回一条评论。
// @Tags         Comment
// @Accept       json
// @Produce      json
// @Param        id path string true "评论公共 ID"
// @Param        body body object{approved=bool} true "审核结果"
// @Success      200 {object} response.Response{data=model.AdminCommentResponse} "成功响应"
// @Failure      404 {object} response.Response "评论不存在"
// @Router       /comments/{id}/approved [put]
func (h *Handler) SetApproved(c *gin.Context) {
	var req struct {
		Approved *bool `json:"approved" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	updated, err := h.svc.SetApproved(c.Request.Context(), c.Param("id"), *req.Approved)
	if err != nil {
		response.FailWithError(c, err, "审核评论失败")
		return
	}

	response.Success(c, updated, "审核成功")
}

// Delete
// @Summary      删除评论
// @Tags         Comment
// @Produce      json
// @Param        id path string true "评论公共 ID"
// @Success      200 {object} response.Response "成功响应"
// @Failure      404 {object} response.Response "评论不存在"
// @Router       /comments/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FailWithError(c, err, "删除评论失败")
		return
	}

	response.Success(c, nil, "删除成功")
}
