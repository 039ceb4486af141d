package parser

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTMLBasicMarkdown(t *testing.T) {
	svc := NewService()

	html, err := svc.ToHTML(context.Background(), "# 标题\n\n正文**加粗**")
	require.NoError(t, err)

	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "标题")
	assert.Contains(t, html, "<strong>加粗</strong>")
}

// GFM 表格与任务列表应被渲染
func TestToHTMLGFMExtensions(t *testing.T) {
	svc := NewService()

	md := "| a | b |\n|---|---|\n| 1 | 2 |\n\n- [x] 完成项\n"
	html, err := svc.ToHTML(context.Background(), md)
	require.NoError(t, err)

	assert.Contains(t, html, "<table")
	assert.Contains(t, html, "checkbox")
}

// 渲染结果必须经过净化，脚本与事件属性不允许出现
func TestToHTMLSanitizesScript(t *testing.T) {
	svc := NewService()

	md := "正文\n\n<script>alert(1)</script>\n\n<img src=\"x\" onerror=\"alert(2)\">"
	html, err := svc.ToHTML(context.Background(), md)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "onerror")
	assert.Contains(t, html, "正文")
}

func TestSanitizeHTML(t *testing.T) {
	svc := NewService()

	out := svc.SanitizeHTML(`<p>安全内容</p><script>alert(1)</script><a href="javascript:x()">链接</a>`)

	assert.Contains(t, out, "<p>安全内容</p>")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
}

func TestExtractExcerpt(t *testing.T) {
	svc := NewService()

	t.Run("短文本原样返回", func(t *testing.T) {
		got := svc.ExtractExcerpt("<p>你好，世界</p>", 200)
		assert.Equal(t, "你好，世界", got)
	})

	t.Run("跳过脚本与样式", func(t *testing.T) {
		got := svc.ExtractExcerpt("<p>正文</p><style>p{}</style><script>x()</script>", 200)
		assert.Equal(t, "正文", got)
	})

	t.Run("按字符数截断", func(t *testing.T) {
		long := strings.Repeat("汉", 300)
		got := svc.ExtractExcerpt("<p>"+long+"</p>", 200)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), 200)
		assert.True(t, strings.HasPrefix(got, "汉汉"))
	})

	t.Run("空白折叠", func(t *testing.T) {
		got := svc.ExtractExcerpt("<p>a</p>\n\n<p>b</p>", 200)
		assert.Equal(t, "a b", got)
	})
}
