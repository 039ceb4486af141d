/*
 * @Description: 文章相关的 HTTP 处理器
 * @Author: 李志伟
 * @Date: 2025-12-15 10:28:33
 * @LastEditTime: 2026-06-21 16:05:12
 * @LastEditors: 李志伟
 */
package post

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/response"
	postSvc "github.com/lizhiwei-dev/echoes-app/pkg/service/post"
	"github.com/lizhiwei-dev/echoes-app/pkg/service/statistics"
	"github.com/lizhiwei-dev/echoes-app/pkg/service/upload"
)

// 单次上传允许读取的最大字节数，超出在压缩前直接拒绝
const maxUploadBytes = 20 << 20

// Handler 封装了所有与文章相关的 HTTP 处理器。
type Handler struct {
	svc          postSvc.Service
	uploadSvc    *upload.Service
	viewCountSvc statistics.ViewCountService
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc postSvc.Service, uploadSvc *upload.Service, viewCountSvc statistics.ViewCountService) *Handler {
	return &Handler{svc: svc, uploadSvc: uploadSvc, viewCountSvc: viewCountSvc}
}

// ListPublic
// @Summary      获取前台文章列表
// @Description  获取公开的、分页的已发布文章列表，按发布时间倒序。
// @Tags         Post Public
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        pageSize query int false "每页数量" default(9)
// @Param        category query string false "分类 slug"
// @Param        tag query string false "标签 slug"
// @Success      200 {object} response.Response{data=model.PostListResponse} "成功响应"
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /public/posts [get]
func (h *Handler) ListPublic(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))

	options := &model.ListPublicPostsOptions{
		Page:         page,
		PageSize:     pageSize,
		CategorySlug: c.Query("category"),
		TagSlug:      c.Query("tag"),
	}

	result, err := h.svc.ListPublic(c.Request.Context(), options)
	if err != nil {
		response.FailWithError(c, err, "获取文章列表失败")
		return
	}

	response.Success(c, result, "获取列表成功")
}

// GetPublicBySlug
// @Summary      获取前台文章详情
// @Description  按 slug 获取一篇已发布文章的完整内容。
// @Tags         Post Public
// @Produce      json
// @Param        slug path string true "文章 slug"
// @Success      200 {object} response.Response{data=model.PostResponse} "成功响应"
// @Failure      404 {object} response.Response "文章不存在"
// @Router       /public/posts/{slug} [get]
func (h *Handler) GetPublicBySlug(c *gin.Context) {
	post, err := h.svc.GetPublicBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.FailWithError(c, err, "获取文章失败")
		return
	}

	response.Success(c, post, "获取成功")
}

// Search
// @Summary      搜索前台文章
// @Description  在已发布文章的标题与摘要中做大小写不敏感的模糊搜索。
// @Tags         Post Public
// @Produce      json
// @Param        q query string true "搜索关键词"
// @Success      200 {object} response.Response{data=[]model.PostResponse} "成功响应"
// @Router       /public/search [get]
func (h *Handler) Search(c *gin.Context) {
	results, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.FailWithError(c, err, "搜索失败")
		return
	}

	response.Success(c, results, "搜索成功")
}

// RecordView
// @Summary      记录一次文章浏览
// @Description  为指定 slug 的已发布文章累加一次浏览量。
// @Tags         Post Public
// @Produce      json
// @Param        slug path string true "文章 slug"
// @Success      200 {object} response.Response "成功响应"
// @Failure      404 {object} response.Response "文章不存在"
// @Router       /views/{slug} [post]
func (h *Handler) RecordView(c *gin.Context) {
	if err := h.viewCountSvc.Increment(c.Request.Context(), c.Param("slug")); err != nil {
		response.FailWithError(c, err, "记录浏览失败")
		return
	}

	response.Success(c, nil, "记录成功")
}

// Create
// @Summary      创建文章
// @Description  创建一篇文章，slug 缺省时由标题自动生成。
// @Tags         Post
// @Accept       json
// @Produce      json
// @Param        post body model.CreatePostRequest true "创建文章的请求体"
// @Success      200 {object} response.Response{data=model.PostResponse} "成功响应"
// @Failure      400 {object} response.Response "请求参数错误"
// @Failure      409 {object} response.Response "slug 冲突"
// @Router       /posts [post]
func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	post, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		response.FailWithError(c, err, "创建文章失败")
		return
	}

	response.Success(c, post, "创建成功")
}

// Get
// @Summary      获取文章详情(后台)
// @Description  按公共 ID 获取一篇文章，草稿也可见。
// @Tags         Post
// @Produce      json
// @Param        id path string true "文章公共 ID"
// @Success      200 {object} response.Response{data=model.PostResponse} "成功响应"
// @Failure      404 {object} response.Response "文章不存在"
// @Router       /posts/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	post, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FailWithError(c, err, "获取文章失败")
		return
	}

	response.Success(c, post, "获取成功")
}

// List
// @Summary      获取文章列表(后台)
// @Description  分页获取全部文章，支持按状态过滤与标题搜索。
// @Tags         Post
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        pageSize query int false "每页数量" default(9)
// @Param        status query string false "状态过滤(draft/published)"
// @Param        query query string false "标题关键词"
// @Success      200 {object} response.Response{data=model.PostListResponse} "成功响应"
// @Router       /posts [get]
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))

	options := &model.ListPostsOptions{
		Page:     page,
		PageSize: pageSize,
		Query:    c.Query("query"),
		Status:   c.Query("status"),
	}

	result, err := h.svc.List(c.Request.Context(), options)
	if err != nil {
		response.FailWithError(c, err, "获取文章列表失败")
		return
	}

	response.Success(c, result, "获取列表成功")
}

// Update
// @Summary      更新文章
// @Description  按公共 ID 更新一篇文章，未提供的字段保持不变。
// @Tags         Post
// @Accept       json
// @Produce      json
// @Param        id path string true "文章公共 ID"
// @Param        post body model.UpdatePostRequest true "更新文章的请求体"
// @Success      200 {object} response.Response{data=model.PostResponse} "成功响应"
// @Failure      404 {object} response.Response "文章不存在"
// @Failure      409 {object} response.Response "slug 冲突"
// @Router       /posts/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	post, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.FailWithError(c, err, "更新文章失败")
		return
	}

	response.Success(c, post, "更新成功")
}

// Delete
// @Summary      删除文章
// @Description  按公共 ID 删除一篇文章及其评论。
// @Tags         Post
// @Produce      json
// @Param        id path string true "文章公共 ID"
// @Success      200 {object} response.Response "成功响应"
// @Failure      404 {object} response.Response "文章不存在"
// @Router       /posts/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FailWithError(c, err, "删除文章失败")
		return
	}

	response.Success(c, nil, "删除成功")
}

// UploadCover
// @Summary      上传文章封面
// @Description  上传封面图片，超过 300KB 的图片会自动压缩，压缩失败且超过 1MB 时拒绝。
// @Tags         Post
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "封面图片文件"
// @Success      200 {object} response.Response{data=upload.CoverResult} "成功响应"
// @Failure      400 {object} response.Response "无效的文件"
// @Failure      413 {object} response.Response "图片过大且无法压缩"
// @Router       /posts/cover [post]
func (h *Handler) UploadCover(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Printf("[Handler.UploadCover] 获取上传文件失败: %v", err)
		response.Fail(c, http.StatusBadRequest, "无效的文件上传请求")
		return
	}

	fileReader, err := fileHeader.Open()
	if err != nil {
		log.Printf("[Handler.UploadCover] 打开文件流失败: %v", err)
		response.Fail(c, http.StatusInternalServerError, "无法处理上传的文件")
		return
	}
	defer fileReader.Close()

	data, err := io.ReadAll(io.LimitReader(fileReader, maxUploadBytes+1))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "读取上传文件失败")
		return
	}
	if len(data) > maxUploadBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, "上传文件超过大小限制")
		return
	}

	result, err := h.uploadSvc.UploadCover(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		response.FailWithError(c, err, "封面上传失败")
		return
	}

	response.Success(c, result, "封面上传成功")
}
