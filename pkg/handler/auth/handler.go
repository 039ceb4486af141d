/*
 * @Description: 认证相关的 HTTP 处理器
 * @Author: 李志伟
 * @Date: 2025-12-14 16:48:20
 * @LastEditTime: 2026-02-25 11:09:33
 * @LastEditors: 李志伟
 */
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lizhiwei-dev/echoes-app/internal/app/middleware"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
	"github.com/lizhiwei-dev/echoes-app/pkg/response"
	authSvc "github.com/lizhiwei-dev/echoes-app/pkg/service/auth"
)

// Handler 封装了认证相关的 HTTP 处理器。
type Handler struct {
	svc authSvc.AuthService
}

func NewHandler(svc authSvc.AuthService) *Handler {
	return &Handler{svc: svc}
}

// Login
// @Summary      管理员登录
// @Description  校验管理员邮箱与密码，签发 JWT。
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "登录凭证"
// @Success      200 {object} response.Response{data=model.LoginResponse} "成功响应"
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	result, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		response.FailWithError(c, err, "登录失败")
		return
	}

	response.Success(c, result, "登录成功")
}

// Me
// @Summary      获取当前登录信息
// @Description  返回当前 JWT 对应的管理员邮箱。
// @Tags         Auth
// @Produce      json
// @Success      200 {object} response.Response "成功响应"
// @Failure      401 {object} response.Response "未登录"
// @Router       /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	email := c.GetString(middleware.CtxKeyAdminEmail)
	if email == "" {
		response.Fail(c, http.StatusUnauthorized, "未登录")
		return
	}

	response.Success(c, gin.H{"email": email}, "获取成功")
}
