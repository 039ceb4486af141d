/*
 * @Description: 统一的 API 响应封装
 * @Author: 李志伟
 * @Date: 2025-11-03 15:12:40
 * @LastEditTime: 2026-01-09 18:36:21
 * @LastEditors: 李志伟
 */
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
)

// Response 是所有 API 的统一响应结构。
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// Success 返回成功响应，msg 缺省为 "操作成功"。
func Success(c *gin.Context, data interface{}, msg ...string) {
	message := "操作成功"
	if len(msg) > 0 {
		message = msg[0]
	}
	c.JSON(http.StatusOK, Response{
		Code: http.StatusOK,
		Msg:  message,
		Data: data,
	})
}

// Fail 返回失败响应，HTTP 状态码与业务码保持一致。
func Fail(c *gin.Context, httpCode int, msg string) {
	c.JSON(httpCode, Response{
		Code: httpCode,
		Msg:  msg,
		Data: nil,
	})
}

// FailWithError 根据业务错误映射 HTTP 状态码返回失败响应，
// 未识别的错误按 500 处理并附带 fallbackMsg。
func FailWithError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, constant.ErrNotFound):
		Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, constant.ErrInvalidInput):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, constant.ErrConflict):
		Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, constant.ErrUnauthorized):
		Fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, constant.ErrForbidden):
		Fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, constant.ErrPayloadTooLarge):
		Fail(c, http.StatusRequestEntityTooLarge, err.Error())
	default:
		Fail(c, http.StatusInternalServerError, fallbackMsg+": "+err.Error())
	}
}
