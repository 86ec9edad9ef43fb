// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leboweric/eos-platform-sub008/internal/config"
	"github.com/leboweric/eos-platform-sub008/internal/handler"
	"github.com/leboweric/eos-platform-sub008/internal/middleware"
	"github.com/leboweric/eos-platform-sub008/internal/repository"
	"github.com/leboweric/eos-platform-sub008/internal/service"
	"github.com/leboweric/eos-platform-sub008/pkg/database"
	"github.com/leboweric/eos-platform-sub008/pkg/es"
	"github.com/leboweric/eos-platform-sub008/pkg/kafka"
	"github.com/leboweric/eos-platform-sub008/pkg/log"
	"github.com/leboweric/eos-platform-sub008/pkg/storage"
	"github.com/leboweric/eos-platform-sub008/pkg/token"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// JWT 密钥缺失属于致命配置错误，启动即失败
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT secret 未配置", fmt.Errorf("jwt.secret 为空"))
	}

	// 3. 初始化数据库与外部依赖
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("es 初始化失败 %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)

	// 4. 初始化 Repository
	userRepo := repository.NewUserRepository(database.DB)
	orgRepo := repository.NewOrganizationRepository(database.DB)
	deptRepo := repository.NewDepartmentRepository(database.DB)
	teamRepo := repository.NewTeamRepository(database.DB)
	docRepo := repository.NewDocumentRepository(database.DB)
	folderRepo := repository.NewFolderRepository(database.DB)
	bpRepo := repository.NewBlueprintRepository(database.DB)

	// 5. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireDays, cfg.JWT.RefreshTokenExpireDays)
	accessService := service.NewAccessService(orgRepo, teamRepo, cfg.Access.CacheTTLSeconds)
	userService := service.NewUserService(database.DB, userRepo, jwtManager)
	orgService := service.NewOrganizationService(orgRepo, userRepo, accessService)
	deptService := service.NewDepartmentService(database.DB, deptRepo, userRepo)
	teamService := service.NewTeamService(teamRepo, userRepo, accessService)
	docService := service.NewDocumentService(docRepo, accessService, cfg.MinIO.BucketName, cfg.Elasticsearch.IndexName)
	folderService := service.NewFolderService(folderRepo, docRepo, userRepo)
	bpService := service.NewBlueprintService(bpRepo)
	adminService := service.NewAdminService(database.DB, userRepo, cfg.Demo.OrganizationID, cfg.Demo.ResetCooldownHours)

	// 6. 启动后台 Kafka 消费者：访问事件驱动判定缓存失效
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()
	go kafka.StartConsumer(consumerCtx, cfg.Kafka, service.NewCacheInvalidator(accessService))

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.Use(middleware.RequestTimeout(time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second))

	// 8. 注册路由
	authMW := middleware.AuthMiddleware(jwtManager, userRepo)
	adminMW := middleware.AdminAuthMiddleware()
	orgMW := middleware.OrgAccessMiddleware(accessService)
	teamMW := middleware.TeamAccessMiddleware(accessService)

	apiV1 := r.Group("/api/v1")
	{
		// Auth 路由组 (公开访问)
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", handler.NewAuthHandler(userService).Register)
			auth.POST("/login", handler.NewAuthHandler(userService).Login)
			auth.POST("/refresh", handler.NewAuthHandler(userService).Refresh)
			auth.POST("/logout", authMW, handler.NewAuthHandler(userService).Logout)
		}

		// 当前用户路由组，需要认证
		users := apiV1.Group("/users")
		users.Use(authMW)
		{
			users.GET("/me", handler.NewUserHandler(userService, orgService).GetProfile)
			users.PUT("/me", handler.NewUserHandler(userService, orgService).UpdateProfile)
			users.GET("/me/organizations", handler.NewUserHandler(userService, orgService).ListMyOrganizations)
		}

		// 组织作用域路由组：认证 + 组织访问判定
		org := apiV1.Group("/organizations/:orgId")
		org.Use(authMW, orgMW)
		{
			orgHandler := handler.NewOrganizationHandler(orgService)
			org.GET("", orgHandler.Get)
			org.PUT("", adminMW, orgHandler.Update)
			org.POST("/consultants", adminMW, orgHandler.Grant)
			org.DELETE("/consultants/:userId", adminMW, orgHandler.Revoke)

			// 部门树
			deptHandler := handler.NewDepartmentHandler(deptService)
			org.GET("/departments", deptHandler.GetTree)
			org.GET("/departments/:deptId", deptHandler.Get)
			org.POST("/departments", adminMW, deptHandler.Create)
			org.PUT("/departments/:deptId", adminMW, deptHandler.Update)
			org.DELETE("/departments/:deptId", adminMW, deptHandler.Delete)

			// 团队与成员
			teamHandler := handler.NewTeamHandler(teamService)
			org.GET("/teams", teamHandler.List)
			org.POST("/teams", adminMW, teamHandler.Create)
			teams := org.Group("/teams/:teamId")
			teams.Use(teamMW)
			{
				teams.GET("", teamHandler.Get)
				teams.PUT("", adminMW, teamHandler.Update)
				teams.DELETE("", adminMW, teamHandler.Delete)
				teams.GET("/members", teamHandler.ListMembers)
				teams.POST("/members", adminMW, teamHandler.AddMember)
				teams.DELETE("/members/:userId", adminMW, teamHandler.RemoveMember)
			}

			// 文档库
			docHandler := handler.NewDocumentHandler(docService)
			org.GET("/documents", docHandler.List)
			org.POST("/documents", docHandler.Upload)
			org.GET("/documents/:docId", docHandler.Get)
			org.PUT("/documents/:docId", docHandler.Update)
			org.DELETE("/documents/:docId", docHandler.Delete)
			org.GET("/documents/:docId/download", docHandler.Download)
			org.POST("/documents/:docId/favorite", docHandler.Favorite)
			org.DELETE("/documents/:docId/favorite", docHandler.Unfavorite)

			// 文件夹树
			folderHandler := handler.NewFolderHandler(folderService)
			org.GET("/folders", folderHandler.GetTree)
			org.POST("/folders", adminMW, folderHandler.Create)
			org.PUT("/folders/:folderId", adminMW, folderHandler.Update)
			org.DELETE("/folders/:folderId", adminMW, folderHandler.Delete)

			// 战略蓝图
			bpHandler := handler.NewBlueprintHandler(bpService)
			org.GET("/blueprint", bpHandler.Get)
			org.PUT("/blueprint/core-values", bpHandler.ReplaceCoreValues)
			org.PUT("/blueprint/core-focus", bpHandler.UpdateCoreFocus)
			org.PUT("/blueprint/ten-year-target", bpHandler.UpdateTenYearTarget)
			org.PUT("/blueprint/three-year-picture", bpHandler.UpdateThreeYearPicture)
			org.PUT("/blueprint/one-year-plan", bpHandler.UpdateOneYearPlan)

			// 管理员专属
			admin := org.Group("/admin")
			admin.Use(adminMW)
			{
				adminHandler := handler.NewAdminHandler(adminService)
				admin.GET("/users", adminHandler.ListUsers)
				admin.PUT("/users/:userId/role", adminHandler.UpdateUserRole)
				admin.POST("/demo-reset", adminHandler.ResetDemo)
			}
		}
	}

	// 9. 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 先停 Kafka 消费者，再关 HTTP 服务器
	cancelConsumer()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
