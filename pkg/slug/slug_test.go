package slug

import (
	"strings"
	"testing"
)

// TestIsValid 校验 slug 的合法字符集
func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"纯小写字母", "hello-world", true},
		{"含数字", "go-1-21", true},
		{"含中文", "你好-世界", true},
		{"混合大小写", "Hello-World", true},
		{"全大写", "ABC123", true},
		{"空字符串", "", false},
		{"含空格", "hello world", false},
		{"含下划线", "hello_world", false},
		{"含斜杠", "a/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.input); got != tt.want {
				t.Errorf("IsValid(%q) = %v, 期望 %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestDerive 校验从标题派生 slug 的规则
func TestDerive(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"英文标题", "Hello World", "hello-world"},
		{"中文标题转拼音", "你好", "ni-hao"},
		{"中英混合", "Go 语言", "go-yu-yan"},
		{"多余分隔符折叠", "a -- b", "a-b"},
		{"首尾分隔符去除", "-abc-", "abc"},
		{"纯符号标题", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Derive(tt.input); got != tt.want {
				t.Errorf("Derive(%q) = %q, 期望 %q", tt.input, got, tt.want)
			}
		})
	}
}

// 派生结果必须本身就是合法 slug
func TestDeriveProducesValidSlug(t *testing.T) {
	for _, title := range []string{"Hello World", "深入理解并发", "Go 1.21 发布了!", "  spaces  "} {
		got := Derive(title)
		if got == "" {
			continue
		}
		if !IsValid(got) {
			t.Errorf("Derive(%q) = %q 不是合法 slug", title, got)
		}
	}
}

func TestRandomToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := RandomToken()
		if len(token) != 10 {
			t.Fatalf("RandomToken() 长度 = %d, 期望 10", len(token))
		}
		if strings.Contains(token, "-") {
			t.Fatalf("RandomToken() 含非法字符: %q", token)
		}
		if seen[token] {
			t.Fatalf("RandomToken() 出现重复: %q", token)
		}
		seen[token] = true
	}
}
