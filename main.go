package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TIANLI0/InpaintKit/config"
	"github.com/TIANLI0/InpaintKit/ebsynth"
	"github.com/TIANLI0/InpaintKit/handler"
	"github.com/TIANLI0/InpaintKit/middleware"
	"github.com/TIANLI0/InpaintKit/patchmatch"
	"github.com/TIANLI0/InpaintKit/service"
	"github.com/TIANLI0/InpaintKit/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	BuildID   = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

func main() {
	// 加载配置
	cfg := config.New()

	// 初始化日志
	if err := utils.InitLogger(cfg.Server.Mode, false); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Sync()

	utils.Logger.Info("starting InpaintKit server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("git_branch", GitBranch))

	// 确保上传目录存在
	if err := os.MkdirAll(cfg.Upload.UploadDir, 0755); err != nil {
		utils.Logger.Fatal("failed to create upload directory", zap.Error(err))
	}

	// 初始化Redis
	redisService, err := service.NewRedisService(&cfg.Redis)
	if err != nil {
		utils.Logger.Fatal("failed to create redis service", zap.Error(err))
	}
	ctx := context.Background()
	if err := redisService.Ping(ctx); err != nil {
		utils.Logger.Warn("redis connection failed, cache disabled", zap.Error(err))
	} else {
		utils.Logger.Info("redis connected successfully")
	}
	defer redisService.Close()

	// 初始化计算后端
	kind, err := cfg.Backend.BackendKind()
	if err != nil {
		utils.Logger.Fatal("invalid backend kind", zap.Error(err))
	}
	synthesizer := patchmatch.NewSynthesizer(ebsynth.New(),
		patchmatch.WithBackendKind(kind),
		patchmatch.WithChannelLimits(ebsynth.MaxStyleChannels, ebsynth.MaxGuideChannels),
		patchmatch.WithLogger(utils.Logger.Named("patchmatch")))
	if synthesizer.Available() {
		utils.Logger.Info("synthesis backend ready", zap.Stringer("kind", kind))
	} else {
		utils.Logger.Warn("synthesis backend unavailable, inpaint requests will fail",
			zap.Stringer("kind", kind),
			zap.Bool("linked", ebsynth.Enabled()))
	}

	// 初始化补全服务
	inpaintService, err := service.NewInpaintService(cfg, synthesizer)
	if err != nil {
		utils.Logger.Fatal("failed to create inpaint service", zap.Error(err))
	}

	// 初始化Handler
	inpaintHandler := handler.NewInpaintHandler(cfg, redisService, inpaintService)

	// 设置Gin模式
	gin.SetMode(cfg.Server.Mode)

	// 创建路由
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	// 健康检查和版本信息
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": Version,
			"backend": synthesizer.Available(),
		})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"build_id":   BuildID,
			"git_commit": GitCommit,
			"git_branch": GitBranch,
		})
	})

	// API路由
	api := r.Group("/api/v1")
	{
		api.POST("/inpaint", inpaintHandler.Inpaint)
		api.GET("/inpaint/:key", inpaintHandler.GetByKey)
		api.GET("/plan", inpaintHandler.Plan)
		api.GET("/backend", inpaintHandler.Backend)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		utils.Logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Logger.Error("server forced to shutdown", zap.Error(err))
	}
}
