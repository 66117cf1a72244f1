package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "forms-backend/docs"
	"forms-backend/src/config"
	"forms-backend/src/database"
	"forms-backend/src/middleware"
	"forms-backend/src/routes"
	"forms-backend/src/store"
	"forms-backend/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// @title           Forms Backend API
// @version         1.0
// @description     Form schemas and submitted responses, backed by MongoDB or an in-memory fallback.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()
	logCloser := utils.SetupLogging(cfg.LogFile)
	defer logCloser.Close()

	ctx := context.Background()

	// เลือก backend ครั้งเดียวตอน start: MongoDB หรือ fallback ใน memory
	backend := store.Open(ctx, store.Options{
		URI:            cfg.MongoURI,
		DBName:         cfg.MongoDBName,
		ConnectTimeout: cfg.MongoConnectTimeout,
		Mongo: store.MongoOptions{
			QueryTimeout:    cfg.MongoQueryTimeout,
			UseTransactions: cfg.MongoUseTransactions,
		},
		SeedDurable: cfg.SeedSampleData,
	})

	redisClient, err := database.InitRedis(ctx, cfg.RedisURI)
	if err != nil {
		log.Println("⚠️ Redis unavailable, token revocation and task queue disabled:", err)
	}
	redisAddr := ""
	if redisClient != nil {
		redisAddr = cfg.RedisURI
	}
	asynqClient := database.InitAsynq(redisAddr)

	auth := middleware.NewAuth(cfg.JWTSecret, cfg.AdminAPIKeyHash, utils.NewTokenBlacklist(redisClient))

	// สร้าง app instance
	app := fiber.New(fiber.Config{AppName: "forms-backend"})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		Output: utils.LogWriter(),
	}))

	// ✅ เปิดใช้งาน CORS Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowCredentials: false, // ❌ ต้องเป็น false ถ้าใช้ "*"
	}))
	app.Use(middleware.Metrics())

	// รวม routes จากแต่ละ module
	routes.InitRoutes(app, routes.Deps{
		Backend:       backend,
		Auth:          auth,
		Asynq:         asynqClient,
		PublicFormURL: cfg.PublicFormURL,
	})

	go func() {
		log.Printf("🚀 Server is running on port %s (%s mode)", cfg.Port, backend.Mode)
		if err := app.Listen(fmt.Sprintf(":%s", cfg.Port)); err != nil {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Println("⚠️ Server shutdown:", err)
	}
	if asynqClient != nil {
		_ = asynqClient.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	backend.Close(shutdownCtx)
}
