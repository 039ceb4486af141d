package constant

// Redis 缓存键前缀
const (
	// ViewCountDeltaKeyPrefix 浏览量增量键前缀，后接文章数据库 ID
	ViewCountDeltaKeyPrefix = "echoes:views:delta:"
	// CommentRateKeyPrefix 评论限流键前缀，后接访客 IP
	CommentRateKeyPrefix = "echoes:comment:rate:"
	// FeedCacheKey RSS 输出缓存键
	FeedCacheKey = "echoes:feed:rss"
	// SitemapCacheKey 站点地图输出缓存键
	SitemapCacheKey = "echoes:feed:sitemap"
)
