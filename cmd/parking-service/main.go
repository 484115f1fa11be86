package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/ParkWise/ParkWise/internal/common/config"
	"github.com/ParkWise/ParkWise/internal/common/db"
	"github.com/ParkWise/ParkWise/internal/common/logger"
	"github.com/ParkWise/ParkWise/internal/common/middleware"
	"github.com/ParkWise/ParkWise/internal/common/server"
	"github.com/ParkWise/ParkWise/internal/common/tracing"
	"github.com/ParkWise/ParkWise/internal/owner"
	"github.com/ParkWise/ParkWise/internal/parking"
	"github.com/ParkWise/ParkWise/internal/vehicle"
	"github.com/ParkWise/ParkWise/internal/vision"
	"github.com/gin-gonic/gin"
)

var (
	configPath      = flag.String("config", "configs/parking-service.json", "配置文件路径")
	consulConfigKey = flag.String("consul-config-key", "", "从 Consul KV 读取配置的 key（优先于本地文件）")
	consulAddr      = flag.String("consul-addr", "localhost", "Consul 地址（配合 -consul-config-key）")
	consulPort      = flag.Int("consul-port", 8500, "Consul 端口（配合 -consul-config-key）")
)

func main() {
	flag.Parse()

	// 加载配置：优先 Consul KV，其次本地文件
	var (
		cfg *config.Config
		err error
	)
	if *consulConfigKey != "" {
		cfg, err = config.LoadConfigFromConsulKV(*consulAddr, *consulPort, *consulConfigKey)
	} else {
		cfg, err = config.LoadConfig(*configPath)
	}
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path, cfg.Log.Backend)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	_, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}

	// 初始化数据库
	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&owner.Owner{},
		&vehicle.Vehicle{},
		&parking.Spot{},
		&parking.Session{},
		&parking.Rate{},
	); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}

	// 播种车位池与费率表（已有数据则跳过）
	parkingRepo := parking.NewRepo(gormDB)
	ctx := context.Background()
	if err := parkingRepo.SeedSpots(ctx, cfg.Parking.SubscriptionSpots, cfg.Parking.DisabledSpots, cfg.Parking.HourlySpots); err != nil {
		log.Fatalf("failed to seed parking spots: %v", err)
	}
	if err := parkingRepo.SeedRates(ctx, cfg.Parking.HourlyRates, cfg.Parking.Currency); err != nil {
		log.Fatalf("failed to seed parking rates: %v", err)
	}

	ownerHandler := owner.NewHTTPHandler(gormDB, cfg.Auth)
	vehicleHandler := vehicle.NewHTTPHandler(gormDB)
	parkingHandler := parking.NewHTTPHandler(gormDB)
	visionHandler := vision.NewHTTPHandler("")

	// 会话进出闸口限流（令牌桶）
	gateLimiter := middleware.NewTokenBucket(50, 25)

	// 启动统一的 HTTP 服务模板
	if err := server.RunHTTPServer(cfg, log, func(r *gin.Engine) error {
		public := r.Group("/api/v1")
		ownerHandler.RegisterRoutes(public)
		vehicleHandler.RegisterPublicRoutes(public)
		parkingHandler.RegisterPublicRoutes(public)

		authed := r.Group("/api/v1")
		authed.Use(server.JWTAuthMiddleware(cfg.Auth, log))
		vehicleHandler.RegisterAuthRoutes(authed)
		visionHandler.RegisterAuthRoutes(authed)

		gated := authed.Group("")
		gated.Use(server.RateLimitMiddleware(gateLimiter))
		parkingHandler.RegisterAuthRoutes(gated)
		return nil
	}); err != nil {
		log.Fatalf("parking-service exited with error: %v", err)
	}
}
