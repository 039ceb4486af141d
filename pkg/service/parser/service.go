// pkg/service/parser/service.go
package parser

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Service 负责 Markdown 渲染与 HTML 安全过滤。
type Service struct {
	mdParser goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewService 创建一个新的解析服务实例
func NewService() *Service {
	mdParser := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, extension.Footnote, extension.Typographer,
			extension.Linkify, extension.Strikethrough, extension.Table, extension.TaskList,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps(), gmhtml.WithXHTML(), gmhtml.WithUnsafe()),
	)

	policy := bluemonday.UGCPolicy()

	policy.AllowElements("figure", "figcaption", "details", "summary", "video", "input")
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements(
		"div", "span", "p", "a", "img", "code", "pre", "table", "thead", "tbody", "tr", "th", "td",
		"h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li", "blockquote", "figure", "video",
	)
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6", "a", "div", "span")
	policy.AllowAttrs("target", "rel").OnElements("a")
	policy.AllowAttrs("language").OnElements("code")
	policy.AllowAttrs("open").OnElements("details")
	policy.AllowAttrs("type", "checked", "disabled").OnElements("input")
	policy.AllowAttrs("src", "poster", "controls", "preload", "playsinline", "type").OnElements("video")
	policy.AllowAttrs("align").OnElements("div", "p")

	return &Service{
		mdParser: mdParser,
		policy:   policy,
	}
}

// ToHTML 将 Markdown 文本转换为经过安全过滤的 HTML。
func (s *Service) ToHTML(ctx context.Context, content string) (string, error) {
	var buf strings.Builder
	if err := s.mdParser.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return s.policy.Sanitize(buf.String()), nil
}

// SanitizeHTML 仅对传入的HTML字符串进行XSS安全过滤。
func (s *Service) SanitizeHTML(htmlContent string) string {
	return s.policy.Sanitize(htmlContent)
}

// ExtractExcerpt 从 HTML 中提取纯文本摘要，按 rune 截取至 maxRunes，
// 连续空白折叠为单个空格。
func (s *Service) ExtractExcerpt(htmlContent string, maxRunes int) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		// 跳过不可见内容
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	text := strings.Join(strings.FieldsFunc(sb.String(), unicode.IsSpace), " ")
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes])
}
