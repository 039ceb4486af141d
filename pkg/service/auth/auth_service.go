/*
 * @Description: 管理员认证服务
 * @Author: 李志伟
 * @Date: 2025-11-10 09:30:12
 * @LastEditTime: 2026-04-14 20:08:47
 * @LastEditors: 李志伟
 */
package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lizhiwei-dev/echoes-app/internal/infra/config"
	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/model"
)

// DefaultTokenTTLHours 未配置 Auth.JWTExpireHours 时的令牌有效期。
const DefaultTokenTTLHours = 72

// Claims 是签入 JWT 的管理员身份信息。
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService 定义了认证授权相关的业务逻辑接口。
type AuthService interface {
	// Login 校验管理员凭证并签发 JWT
	Login(email, password string) (*model.LoginResponse, error)

	// ParseToken 解析并校验 JWT，返回其中的管理员邮箱
	ParseToken(tokenString string) (string, error)

	// IsAdminEmail 判断邮箱是否在管理员白名单内
	IsAdminEmail(email string) bool
}

type authService struct {
	jwtSecret    []byte
	tokenTTL     time.Duration
	adminEmails  []string
	adminEmail   string
	passwordHash string
}

// NewAuthService 是 authService 的构造函数。
func NewAuthService(cfg *config.Config) (AuthService, error) {
	secret := cfg.GetString(config.KeyJWTSecret)
	if secret == "" {
		return nil, fmt.Errorf("必须配置 Auth.JWTSecret")
	}

	ttlHours := cfg.GetInt(config.KeyJWTExpireHours)
	if ttlHours <= 0 {
		ttlHours = DefaultTokenTTLHours
	}

	adminEmail := strings.ToLower(strings.TrimSpace(cfg.GetString(config.KeyAdminEmail)))
	if adminEmail == "" {
		return nil, fmt.Errorf("必须配置 Auth.AdminEmail")
	}

	adminEmails := cfg.GetStringSlice(config.KeyAdminEmails)
	for i, e := range adminEmails {
		adminEmails[i] = strings.ToLower(e)
	}

	return &authService{
		jwtSecret:    []byte(secret),
		tokenTTL:     time.Duration(ttlHours) * time.Hour,
		adminEmails:  adminEmails,
		adminEmail:   adminEmail,
		passwordHash: cfg.GetString(config.KeyAdminPassword),
	}, nil
}

// IsAdminEmail 登录邮箱本身始终在白名单内，Auth.AdminEmails 可以追加其余邮箱。
func (s *authService) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	if email == s.adminEmail {
		return true
	}
	for _, allowed := range s.adminEmails {
		if email == allowed {
			return true
		}
	}
	return false
}

// verifyPassword 支持 bcrypt 哈希与明文两种存储形式，明文走常数时间比较。
func (s *authService) verifyPassword(password string) bool {
	if s.passwordHash == "" {
		return false
	}
	if strings.HasPrefix(s.passwordHash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.passwordHash), []byte(password)) == 1
}

func (s *authService) Login(email, password string) (*model.LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != s.adminEmail || !s.verifyPassword(password) {
		return nil, fmt.Errorf("%w: 邮箱或密码错误", constant.ErrUnauthorized)
	}

	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("签发令牌失败: %w", err)
	}

	return &model.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
		Email:     email,
	}, nil
}

func (s *authService) ParseToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的签名算法: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", constant.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", constant.ErrUnauthorized
	}
	return claims.Email, nil
}
