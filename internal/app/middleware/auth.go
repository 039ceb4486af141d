// internal/app/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lizhiwei-dev/echoes-app/pkg/response"
	authSvc "github.com/lizhiwei-dev/echoes-app/pkg/service/auth"
)

// CtxKeyAdminEmail 是认证通过后写入 gin.Context 的管理员邮箱键。
const CtxKeyAdminEmail = "adminEmail"

type Middleware struct {
	authSvc authSvc.AuthService
}

func NewMiddleware(svc authSvc.AuthService) *Middleware {
	return &Middleware{authSvc: svc}
}

// JWTAuth 是一个强制性的JWT认证中间件
func (m *Middleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			response.Fail(c, http.StatusUnauthorized, "请求未携带Token，无权限访问")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			response.Fail(c, http.StatusUnauthorized, "Token格式不正确")
			c.Abort()
			return
		}

		email, err := m.authSvc.ParseToken(parts[1])
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "无效或过期的Token")
			c.Abort()
			return
		}

		c.Set(CtxKeyAdminEmail, email)
		c.Next()
	}
}

// AdminAuth 是一个管理员权限验证中间件，必须在 JWTAuth 之后使用
func (m *Middleware) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(CtxKeyAdminEmail)
		if email == "" {
			response.Fail(c, http.StatusForbidden, "权限信息获取失败")
			c.Abort()
			return
		}

		if !m.authSvc.IsAdminEmail(email) {
			response.Fail(c, http.StatusForbidden, "权限不足：此操作需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}
