package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lizhiwei-dev/echoes-app/internal/infra/config"
	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
)

func newTestAuthService(t *testing.T, password string) AuthService {
	t.Helper()
	t.Setenv("ECHOES_AUTH_JWTSECRET", "test-secret-please-change")
	t.Setenv("ECHOES_AUTH_ADMINEMAIL", "Admin@Example.com")
	t.Setenv("ECHOES_AUTH_ADMINPASSWORD", password)
	t.Setenv("ECHOES_AUTH_ADMINEMAILS", "second@example.com")

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	svc, err := NewAuthService(cfg)
	require.NoError(t, err)
	return svc
}

func TestLoginAndParseToken(t *testing.T) {
	svc := newTestAuthService(t, "plain-password")

	result, err := svc.Login("admin@example.com", "plain-password")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "admin@example.com", result.Email)
	assert.Greater(t, result.ExpiresIn, int64(0))

	email, err := svc.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", email)
}

// 登录邮箱大小写不敏感
func TestLoginEmailCaseInsensitive(t *testing.T) {
	svc := newTestAuthService(t, "plain-password")

	_, err := svc.Login("ADMIN@EXAMPLE.COM", "plain-password")
	assert.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t, "plain-password")

	_, err := svc.Login("admin@example.com", "wrong")
	assert.ErrorIs(t, err, constant.ErrUnauthorized)

	_, err = svc.Login("other@example.com", "plain-password")
	assert.ErrorIs(t, err, constant.ErrUnauthorized)
}

// 配置里的密码可以是 bcrypt 哈希
func TestLoginWithBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := newTestAuthService(t, string(hash))

	_, err = svc.Login("admin@example.com", "secret123")
	assert.NoError(t, err)

	_, err = svc.Login("admin@example.com", "secret124")
	assert.ErrorIs(t, err, constant.ErrUnauthorized)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t, "plain-password")

	_, err := svc.ParseToken("not-a-jwt")
	assert.ErrorIs(t, err, constant.ErrUnauthorized)
}

// 用其他密钥签出的令牌必须被拒绝
func TestParseTokenRejectsForeignSignature(t *testing.T) {
	svc := newTestAuthService(t, "plain-password")
	token, err := svc.Login("admin@example.com", "plain-password")
	require.NoError(t, err)

	other := newTestAuthServiceWithSecret(t, "another-secret")
	_, err = other.ParseToken(token.Token)
	assert.ErrorIs(t, err, constant.ErrUnauthorized)
}

func newTestAuthServiceWithSecret(t *testing.T, secret string) AuthService {
	t.Helper()
	t.Setenv("ECHOES_AUTH_JWTSECRET", secret)
	t.Setenv("ECHOES_AUTH_ADMINEMAIL", "admin@example.com")
	t.Setenv("ECHOES_AUTH_ADMINPASSWORD", "x")

	cfg, err := config.NewConfig()
	require.NoError(t, err)
	svc, err := NewAuthService(cfg)
	require.NoError(t, err)
	return svc
}

func TestIsAdminEmail(t *testing.T) {
	svc := newTestAuthService(t, "plain-password")

	assert.True(t, svc.IsAdminEmail("admin@example.com"))
	assert.True(t, svc.IsAdminEmail("  Admin@Example.com  "))
	assert.True(t, svc.IsAdminEmail("second@example.com"))
	assert.False(t, svc.IsAdminEmail("stranger@example.com"))
	assert.False(t, svc.IsAdminEmail(""))
}
