/*
 * @Description: 应用路由注册
 * @Author: 李志伟
 * @Date: 2025-12-18 11:30:55
 * @LastEditTime: 2026-07-02 23:34:24
 * @LastEditors: 李志伟
 */
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/lizhiwei-dev/echoes-app/internal/app/middleware"
	auth_handler "github.com/lizhiwei-dev/echoes-app/pkg/handler/auth"
	captcha_handler "github.com/lizhiwei-dev/echoes-app/pkg/handler/captcha"
	comment_handler "github.com/lizhiwei-dev/echoes-app/pkg/handler/comment"
	feed_handler "github.com/lizhiwei-dev/echoes-app/pkg/handler/feed"
	post_handler "github.com/lizhiwei-dev/echoes-app/pkg/handler/post"
	post_category_handler "github.com/lizhiwei-dev/echoes-app/pkg/handler/post_category"
	post_tag_handler "github.com/lizhiwei-dev/echoes-app/pkg/handler/post_tag"
)

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	authHandler         *auth_handler.Handler
	postHandler         *post_handler.Handler
	postCategoryHandler *post_category_handler.Handler
	postTagHandler      *post_tag_handler.Handler
	commentHandler      *comment_handler.Handler
	captchaHandler      *captcha_handler.Handler
	feedHandler         *feed_handler.Handler
	mw                  *middleware.Middleware

	// 本地存储时对外暴露的上传目录，空值表示不挂载
	staticUploadDir string
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收所有处理器。
func NewRouter(
	authHandler *auth_handler.Handler,
	postHandler *post_handler.Handler,
	postCategoryHandler *post_category_handler.Handler,
	postTagHandler *post_tag_handler.Handler,
	commentHandler *comment_handler.Handler,
	captchaHandler *captcha_handler.Handler,
	feedHandler *feed_handler.Handler,
	mw *middleware.Middleware,
	staticUploadDir string,
) *Router {
	return &Router{
		authHandler:         authHandler,
		postHandler:         postHandler,
		postCategoryHandler: postCategoryHandler,
		postTagHandler:      postTagHandler,
		commentHandler:      commentHandler,
		captchaHandler:      captchaHandler,
		feedHandler:         feedHandler,
		mw:                  mw,
		staticUploadDir:     staticUploadDir,
	}
}

// Setup 将所有路由注册到 Gin 引擎。
// 这是在 main.go 中将被调用的唯一入口点。
func (r *Router) Setup(engine *gin.Engine) {
	// RSS 与站点地图按惯例挂在根路径
	engine.GET("/rss.xml", r.feedHandler.RSS)
	engine.GET("/sitemap.xml", r.feedHandler.Sitemap)

	// 本地存储时直接托管上传目录
	if r.staticUploadDir != "" {
		engine.Static("/uploads", r.staticUploadDir)
	}

	apiGroup := engine.Group("/api")

	r.registerAuthRoutes(apiGroup)
	r.registerPostRoutes(apiGroup)
	r.registerPostCategoryRoutes(apiGroup)
	r.registerPostTagRoutes(apiGroup)
	r.registerCommentRoutes(apiGroup)
	r.registerCaptchaRoutes(apiGroup)
}

func (r *Router) registerAuthRoutes(api *gin.RouterGroup) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.GET("/me", r.mw.JWTAuth(), r.authHandler.Me)
	}
}

func (r *Router) registerPostRoutes(api *gin.RouterGroup) {
	// 后台管理接口，需要认证和管理员权限
	postsAdmin := api.Group("/posts").Use(r.mw.JWTAuth(), r.mw.AdminAuth())
	{
		postsAdmin.POST("", r.postHandler.Create)
		postsAdmin.GET("", r.postHandler.List)
		postsAdmin.GET("/:id", r.postHandler.Get)
		postsAdmin.PUT("/:id", r.postHandler.Update)
		postsAdmin.DELETE("/:id", r.postHandler.Delete)
		postsAdmin.POST("/cover", r.postHandler.UploadCover)
	}

	postsPublic := api.Group("/public/posts")
	{
		postsPublic.GET("", r.postHandler.ListPublic)
		// 注意：把带参数的路由放在最后，避免路由冲突
		postsPublic.GET("/:slug", r.postHandler.GetPublicBySlug)
		postsPublic.GET("/:slug/comments", r.commentHandler.ListByPost)
	}

	api.GET("/public/search", r.postHandler.Search)
	api.POST("/views/:slug", r.postHandler.RecordView)
}

func (r *Router) registerPostCategoryRoutes(api *gin.RouterGroup) {
	postCategoriesPublic := api.Group("/public/post-categories")
	{
		postCategoriesPublic.GET("", r.postCategoryHandler.List)
	}

	postCategoriesAdmin := api.Group("/post-categories").Use(r.mw.JWTAuth(), r.mw.AdminAuth())
	{
		postCategoriesAdmin.POST("", r.postCategoryHandler.Create)
		postCategoriesAdmin.PUT("/:id", r.postCategoryHandler.Update)
		postCategoriesAdmin.DELETE("/:id", r.postCategoryHandler.Delete)
	}
}

func (r *Router) registerPostTagRoutes(api *gin.RouterGroup) {
	postTagsPublic := api.Group("/public/post-tags")
	{
		postTagsPublic.GET("", r.postTagHandler.List)
	}

	postTagsAdmin := api.Group("/post-tags").Use(r.mw.JWTAuth(), r.mw.AdminAuth())
	{
		postTagsAdmin.POST("/resolve", r.postTagHandler.Resolve)
		postTagsAdmin.DELETE("/:id", r.postTagHandler.Delete)
	}
}

func (r *Router) registerCommentRoutes(api *gin.RouterGroup) {
	// 公开的评论接口
	commentsPublic := api.Group("/public/comments")
	{
		commentsPublic.POST("", r.commentHandler.Create)
	}

	// 管理员专属的评论接口
	commentsAdmin := api.Group("/comments").Use(r.mw.JWTAuth(), r.mw.AdminAuth())
	{
		commentsAdmin.GET("", r.commentHandler.AdminList)
		commentsAdmin.PUT("/:id/approved", r.commentHandler.SetApproved)
		commentsAdmin.DELETE("/:id", r.commentHandler.Delete)
	}
}

func (r *Router) registerCaptchaRoutes(api *gin.RouterGroup) {
	api.GET("/public/captcha", r.captchaHandler.Generate)
}
