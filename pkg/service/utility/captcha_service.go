/*
 * @Description: 验证码服务
 * @Author: 李志伟
 * @Date: 2025-12-18 20:33:54
 * @LastEditTime: 2026-02-02 14:21:36
 * @LastEditors: 李志伟
 */
package utility

import (
	"github.com/mojocn/base64Captcha"
)

// CaptchaService 提供评论前的人机校验。
type CaptchaService interface {
	// Generate 生成一道算术验证码，返回 ID 与 base64 图片
	Generate() (id, b64s string, err error)

	// Verify 校验答案并在成功后销毁该验证码
	Verify(id, answer string) bool
}

type captchaService struct {
	captcha *base64Captcha.Captcha
}

// NewCaptchaService 创建基于算术题的验证码服务，验证码状态保存在进程内。
func NewCaptchaService() CaptchaService {
	driver := base64Captcha.NewDriverMath(
		44, 128, 0, base64Captcha.OptionShowHollowLine,
		nil, nil, nil,
	)
	return &captchaService{
		captcha: base64Captcha.NewCaptcha(driver, base64Captcha.DefaultMemStore),
	}
}

func (s *captchaService) Generate() (string, string, error) {
	id, b64s, _, err := s.captcha.Generate()
	return id, b64s, err
}

func (s *captchaService) Verify(id, answer string) bool {
	if id == "" || answer == "" {
		return false
	}
	return s.captcha.Verify(id, answer, true)
}
