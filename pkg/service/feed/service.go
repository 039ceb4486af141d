/*
 * @Description: RSS 与站点地图生成
 * @Author: 李志伟
 * @Date: 2025-12-10 21:17:05
 * @LastEditTime: 2026-05-13 10:46:29
 * @LastEditors: 李志伟
 */
package feed

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lizhiwei-dev/echoes-app/pkg/constant"
	"github.com/lizhiwei-dev/echoes-app/pkg/domain/repository"
	"github.com/lizhiwei-dev/echoes-app/pkg/service/utility"
)

// RSSPostLimit RSS 输出的最大文章数。
const RSSPostLimit = 50

// 生成结果的缓存时长
const cacheTTL = time.Hour

// SiteInfo 是生成 feed 所需的站点元信息。
type SiteInfo struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// Service 生成 RSS 与站点地图。
type Service struct {
	postRepo     repository.PostRepository
	categoryRepo repository.PostCategoryRepository
	tagRepo      repository.PostTagRepository
	cacheSvc     utility.CacheService
	site         SiteInfo
}

// NewService 创建 feed 服务，cacheSvc 可以为 nil。
func NewService(
	postRepo repository.PostRepository,
	categoryRepo repository.PostCategoryRepository,
	tagRepo repository.PostTagRepository,
	cacheSvc utility.CacheService,
	site SiteInfo,
) *Service {
	site.URL = strings.TrimSuffix(site.URL, "/")
	return &Service{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		cacheSvc:     cacheSvc,
		site:         site,
	}
}

// cdata 包装 CDATA 区块，内容中出现的 "]]>" 按标准拆段转义。
func cdata(s string) string {
	return "<![CDATA[" + strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>") + "]]>"
}

// xmlEscape 转义 XML 文本节点中的特殊字符。
func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}

// GenerateRSS 输出 RSS 2.0 文档，最多包含最近发布的 50 篇文章。
func (s *Service) GenerateRSS(ctx context.Context) (string, error) {
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.Get(ctx, constant.FeedCacheKey); err == nil {
			return cached, nil
		}
	}

	posts, err := s.postRepo.FindAllPublished(ctx, RSSPostLimit)
	if err != nil {
		return "", fmt.Errorf("获取 RSS 文章失败: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">` + "\n")
	sb.WriteString("  <channel>\n")
	sb.WriteString("    <title>" + cdata(s.site.Name) + "</title>\n")
	sb.WriteString("    <link>" + xmlEscape(s.site.URL) + "</link>\n")
	sb.WriteString("    <description>" + cdata(s.site.Description) + "</description>\n")
	sb.WriteString("    <language>zh-cn</language>\n")
	sb.WriteString("    <lastBuildDate>" + time.Now().Format(time.RFC1123Z) + "</lastBuildDate>\n")
	sb.WriteString(`    <atom:link href="` + xmlEscape(s.site.URL) + `/rss.xml" rel="self" type="application/rss+xml"/>` + "\n")

	for _, post := range posts {
		link := s.site.URL + "/posts/" + post.Slug
		sb.WriteString("    <item>\n")
		sb.WriteString("      <title>" + cdata(post.Title) + "</title>\n")
		sb.WriteString("      <link>" + xmlEscape(link) + "</link>\n")
		sb.WriteString(`      <guid isPermaLink="true">` + xmlEscape(link) + "</guid>\n")
		sb.WriteString("      <description>" + cdata(post.Excerpt) + "</description>\n")
		if s.site.Author != "" {
			sb.WriteString("      <author>" + xmlEscape(s.site.Author) + "</author>\n")
		}
		if post.Category != nil {
			sb.WriteString("      <category>" + cdata(post.Category.Name) + "</category>\n")
		}
		if post.PublishedAt != nil {
			sb.WriteString("      <pubDate>" + post.PublishedAt.Format(time.RFC1123Z) + "</pubDate>\n")
		}
		sb.WriteString("    </item>\n")
	}

	sb.WriteString("  </channel>\n")
	sb.WriteString("</rss>\n")

	result := sb.String()
	s.store(ctx, constant.FeedCacheKey, result)
	return result, nil
}

// GenerateSitemap 输出站点地图，覆盖首页、文章、分类与标签页。
func (s *Service) GenerateSitemap(ctx context.Context) (string, error) {
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.Get(ctx, constant.SitemapCacheKey); err == nil {
			return cached, nil
		}
	}

	posts, err := s.postRepo.FindAllPublished(ctx, 0)
	if err != nil {
		return "", fmt.Errorf("获取站点地图文章失败: %w", err)
	}
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return "", fmt.Errorf("获取站点地图分类失败: %w", err)
	}
	tags, err := s.tagRepo.FindAll(ctx)
	if err != nil {
		return "", fmt.Errorf("获取站点地图标签失败: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")

	writeURL := func(loc string, lastmod *time.Time, changefreq string, priority string) {
		sb.WriteString("  <url>\n")
		sb.WriteString("    <loc>" + xmlEscape(loc) + "</loc>\n")
		if lastmod != nil {
			sb.WriteString("    <lastmod>" + lastmod.Format("2006-01-02") + "</lastmod>\n")
		}
		if changefreq != "" {
			sb.WriteString("    <changefreq>" + changefreq + "</changefreq>\n")
		}
		if priority != "" {
			sb.WriteString("    <priority>" + priority + "</priority>\n")
		}
		sb.WriteString("  </url>\n")
	}

	now := time.Now()
	writeURL(s.site.URL, &now, "daily", "1.0")
	for _, post := range posts {
		updatedAt := post.UpdatedAt
		writeURL(s.site.URL+"/posts/"+post.Slug, &updatedAt, "weekly", "0.8")
	}
	for _, category := range categories {
		writeURL(s.site.URL+"/category/"+category.Slug, nil, "weekly", "0.5")
	}
	for _, tag := range tags {
		writeURL(s.site.URL+"/tag/"+tag.Slug, nil, "weekly", "0.3")
	}

	sb.WriteString("</urlset>\n")

	result := sb.String()
	s.store(ctx, constant.SitemapCacheKey, result)
	return result, nil
}

// InvalidateCache 在内容发生变化后清除缓存的输出。
func (s *Service) InvalidateCache(ctx context.Context) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.Delete(ctx, constant.FeedCacheKey, constant.SitemapCacheKey); err != nil {
		log.Printf("[警告] 清除 feed 缓存失败: %v", err)
	}
}

func (s *Service) store(ctx context.Context, key, value string) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.Set(ctx, key, value, cacheTTL); err != nil {
		log.Printf("[警告] 写入 feed 缓存失败: %v", err)
	}
}
