// echoes-app/cmd/server/app.go
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/lizhiwei-dev/echoes-app/internal/app/middleware"
	"github.com/lizhiwei-dev/echoes-app/internal/app/task"
	"github.com/lizhiwei-dev/echoes-app/internal/infra/config"
	"github.com/lizhiwei-dev/echoes-app/internal/infra/persistence/database"
	"github.com/lizhiwei-dev/echoes-app/internal/infra/persistence/gormrepo"
	po "github.com/lizhiwei-dev/echoes-app/internal/infra/persistence/model"
	"github.com/lizhiwei-dev/echoes-app/internal/infra/router"
	"github.com/lizhiwei-dev/echoes-app/internal/infra/storage"
	"github.com/lizhiwei-dev/echoes-app/internal/pkg/version"
	auth_handler "github.com/lizhiwei-dev/echoes-app/pkg/handler/auth"
	captcha_handler "github.com/lizhiwei-dev/echoes-app/pkg/handler/captcha"
	comment_handler "github.com/lizhiwei-dev/echoes-app/pkg/handler/comment"
	feed_handler "github.com/lizhiwei-dev/echoes-app/pkg/handler/feed"
	post_handler "github.com/lizhiwei-dev/echoes-app/pkg/handler/post"
	post_category_handler "github.com/lizhiwei-dev/echoes-app/pkg/handler/post_category"
	post_tag_handler "github.com/lizhiwei-dev/echoes-app/pkg/handler/post_tag"
	"github.com/lizhiwei-dev/echoes-app/pkg/idgen"
	auth_service "github.com/lizhiwei-dev/echoes-app/pkg/service/auth"
	comment_service "github.com/lizhiwei-dev/echoes-app/pkg/service/comment"
	feed_service "github.com/lizhiwei-dev/echoes-app/pkg/service/feed"
	"github.com/lizhiwei-dev/echoes-app/pkg/service/image_compress"
	parser_service "github.com/lizhiwei-dev/echoes-app/pkg/service/parser"
	post_service "github.com/lizhiwei-dev/echoes-app/pkg/service/post"
	post_category_service "github.com/lizhiwei-dev/echoes-app/pkg/service/post_category"
	post_tag_service "github.com/lizhiwei-dev/echoes-app/pkg/service/post_tag"
	"github.com/lizhiwei-dev/echoes-app/pkg/service/statistics"
	upload_service "github.com/lizhiwei-dev/echoes-app/pkg/service/upload"
	"github.com/lizhiwei-dev/echoes-app/pkg/service/utility"
)

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg        *config.Config
	engine     *gin.Engine
	taskBroker *task.Broker
	sqlDB      *sql.DB
}

// PrintBanner 打印应用启动 banner
func (a *App) PrintBanner() {
	banner := `

      ███████╗ ██████╗██╗  ██╗ ██████╗ ███████╗███████╗
      ██╔════╝██╔════╝██║  ██║██╔═══██╗██╔════╝██╔════╝
      █████╗  ██║     ███████║██║   ██║█████╗  ███████╗
      ██╔══╝  ██║     ██╔══██║██║   ██║██╔══╝  ╚════██║
      ███████╗╚██████╗██║  ██║╚██████╔╝███████╗███████║
      ╚══════╝ ╚═════╝╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚══════╝

`
	log.Println(banner)
	log.Println("--------------------------------------------------------")
	log.Printf(" Echoes App - 个人博客系统 (%s)", version.GetVersion())
	log.Println("--------------------------------------------------------")
}

// NewApp 是应用的构造函数，它执行所有的初始化和依赖注入工作
func NewApp() (*App, func(), error) {
	// --- Phase 1: 加载外部配置 ---
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	// --- Phase 2: 初始化基础设施 ---
	sqlDB, err := database.NewSQLDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("创建数据库连接池失败: %w", err)
	}
	gormDB, err := database.NewGormDB(sqlDB, cfg)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	if err := po.Migrate(gormDB); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	// Redis 不可用时服务降级运行，浏览量直接写库、限流与缓存关闭
	var cacheSvc utility.CacheService
	redisClient, err := database.NewRedisClient(context.Background(), cfg)
	if err != nil {
		log.Printf("[警告] 连接 Redis 失败，缓存与限流将不可用: %v", err)
	} else {
		cacheSvc = utility.NewRedisCacheService(redisClient)
	}

	cleanup := func() {
		log.Println("执行清理操作：关闭数据库和Redis连接...")
		sqlDB.Close()
		if redisClient != nil {
			redisClient.Close()
		}
	}

	if err := idgen.InitSqidsEncoder(); err != nil {
		return nil, cleanup, fmt.Errorf("初始化 ID 编码器失败: %w", err)
	}

	dbType := cfg.GetString(config.KeyDBType)
	if dbType == "" {
		dbType = "sqlite"
	}

	// --- Phase 3: 初始化数据仓库层 ---
	postRepo := gormrepo.NewPostRepo(gormDB, dbType)
	postCategoryRepo := gormrepo.NewPostCategoryRepo(gormDB)
	postTagRepo := gormrepo.NewPostTagRepo(gormDB)
	commentRepo := gormrepo.NewCommentRepo(gormDB)
	txManager := gormrepo.NewTransactionManager(gormDB, dbType)

	// --- Phase 4: 初始化业务逻辑层 ---
	parserSvc := parser_service.NewService()
	captchaSvc := utility.NewCaptchaService()
	authSvc, err := auth_service.NewAuthService(cfg)
	if err != nil {
		return nil, cleanup, fmt.Errorf("初始化认证服务失败: %w", err)
	}

	storageProvider, err := storage.NewProvider(cfg)
	if err != nil {
		return nil, cleanup, fmt.Errorf("初始化存储失败: %w", err)
	}

	feedSvc := feed_service.NewService(postRepo, postCategoryRepo, postTagRepo, cacheSvc, feed_service.SiteInfo{
		Name:        cfg.GetString(config.KeySiteName),
		URL:         cfg.GetString(config.KeySiteURL),
		Description: cfg.GetString(config.KeySiteDescription),
		Author:      cfg.GetString(config.KeySiteAuthor),
	})

	// 内容写操作会触发 feed 缓存失效，因此 feed 服务先于内容服务创建
	postSvc := post_service.NewService(postRepo, postTagRepo, postCategoryRepo, txManager, parserSvc, feedSvc)
	postCategorySvc := post_category_service.NewService(postCategoryRepo, feedSvc)
	postTagSvc := post_tag_service.NewService(postTagRepo, feedSvc)
	commentSvc := comment_service.NewService(commentRepo, postRepo, cacheSvc, captchaSvc, comment_service.Options{
		CaptchaEnabled: cfg.GetBool(config.KeyCaptchaEnabled),
		LimitPerMinute: cfg.GetInt(config.KeyCommentLimitPerMinute),
	})
	viewCountSvc := statistics.NewViewCountService(postRepo, cacheSvc)
	uploadSvc := upload_service.NewService(storageProvider, image_compress.NewCompressor())

	taskBroker := task.NewBroker(viewCountSvc)

	// --- Phase 5: 初始化表现层 (Handlers) ---
	mw := middleware.NewMiddleware(authSvc)
	authHandler := auth_handler.NewHandler(authSvc)
	postHandler := post_handler.NewHandler(postSvc, uploadSvc, viewCountSvc)
	postCategoryHandler := post_category_handler.NewHandler(postCategorySvc)
	postTagHandler := post_tag_handler.NewHandler(postTagSvc)
	commentHandler := comment_handler.NewHandler(commentSvc)
	captchaHandler := captcha_handler.NewHandler(captchaSvc)
	feedHandler := feed_handler.NewHandler(feedSvc)

	// 本地存储时把上传目录挂为静态资源
	staticUploadDir := ""
	if local, ok := storageProvider.(*storage.LocalProvider); ok {
		staticUploadDir = local.BaseDir()
	}

	// --- Phase 6: 初始化路由 ---
	appRouter := router.NewRouter(
		authHandler,
		postHandler,
		postCategoryHandler,
		postTagHandler,
		commentHandler,
		captchaHandler,
		feedHandler,
		mw,
		staticUploadDir,
	)

	// --- Phase 7: 配置 Gin 引擎 ---
	if !cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	if err := engine.SetTrustedProxies(nil); err != nil {
		return nil, cleanup, fmt.Errorf("设置信任代理失败: %w", err)
	}
	engine.ForwardedByClientIP = true
	engine.HandleMethodNotAllowed = true
	engine.Use(middleware.Cors(cfg.GetStringSlice(config.KeyCORSOrigins)))
	appRouter.Setup(engine)

	app := &App{
		cfg:        cfg,
		engine:     engine,
		taskBroker: taskBroker,
		sqlDB:      sqlDB,
	}

	return app, cleanup, nil
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

func (a *App) DB() *sql.DB {
	return a.sqlDB
}

func (a *App) Run() error {
	if err := a.taskBroker.RegisterCronJobs(); err != nil {
		return fmt.Errorf("注册定时任务失败: %w", err)
	}
	a.taskBroker.Start()

	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8091"
	}
	fmt.Printf("应用程序启动成功，正在监听端口: %s\n", port)

	return a.engine.Run(":" + port)
}

func (a *App) Stop() {
	if a.taskBroker != nil {
		a.taskBroker.Stop()
		log.Println("任务调度器已停止。")
	}
}
