/*
 * @Description: 验证码的 HTTP 处理器
 * @Author: 李志伟
 * @Date: 2026-01-06 10:35:17
 * @LastEditTime: 2026-01-06 10:35:17
 * @LastEditors: 李志伟
 */
package captcha

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lizhiwei-dev/echoes-app/pkg/response"
	"github.com/lizhiwei-dev/echoes-app/pkg/service/utility"
)

// Handler 封装了验证码相关的 HTTP 处理器。
type Handler struct {
	svc utility.CaptchaService
}

func NewHandler(svc utility.CaptchaService) *Handler {
	return &Handler{svc: svc}
}

// Generate
// @Summary      获取验证码
// @Description  生成一个算术验证码，返回其 ID 与 base64 图片。
// @Tags         Captcha
// @Produce      json
// @Success      200 {object} response.Response "成功响应"
// @Router       /public/captcha [get]
func (h *Handler) Generate(c *gin.Context) {
	id, b64s, err := h.svc.Generate()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "生成验证码失败: "+err.Error())
		return
	}

	response.Success(c, gin.H{
		"captcha_id": id,
		"image":      b64s,
	}, "获取成功")
}
