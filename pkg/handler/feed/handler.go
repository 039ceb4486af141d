/*
 * @Description: RSS 与站点地图的 HTTP 处理器
 * @Author: 李志伟
 * @Date: 2026-01-08 14:52:40
 * @LastEditTime: 2026-04-11 09:27:03
 * @LastEditors: 李志伟
 */
package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"

	feedSvc "github.com/lizhiwei-dev/echoes-app/pkg/service/feed"
)

// Handler 封装了 feed 相关的 HTTP 处理器。
type Handler struct {
	svc *feedSvc.Service
}

func NewHandler(svc *feedSvc.Service) *Handler {
	return &Handler{svc: svc}
}

// RSS
// @Summary      RSS 订阅
// @Description  输出 RSS 2.0 文档，包含最近发布的文章。
// @Tags         Feed
// @Produce      xml
// @Success      200 {string} string "RSS 文档"
// @Router       /rss.xml [get]
func (h *Handler) RSS(c *gin.Context) {
	xml, err := h.svc.GenerateRSS(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "生成 RSS 失败")
		return
	}

	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(xml))
}

// Sitemap
// @Summary      站点地图
// @Description  输出覆盖文章、分类与标签页的 sitemap.xml。
// @Tags         Feed
// @Produce      xml
// @Success      200 {string} string "站点地图文档"
// @Router       /sitemap.xml [get]
func (h *Handler) Sitemap(c *gin.Context) {
	xml, err := h.svc.GenerateSitemap(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "生成站点地图失败")
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(xml))
}
