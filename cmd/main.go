package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/xelobcoder/listing/internal/handler"
	"github.com/xelobcoder/listing/internal/imagestore"
	"github.com/xelobcoder/listing/internal/middlewares"
	"github.com/xelobcoder/listing/internal/repository"
	"github.com/xelobcoder/listing/internal/service"
	"github.com/xelobcoder/listing/pkg/cleaner"
	"github.com/xelobcoder/listing/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(level string) *zap.SugaredLogger {
	logLevel, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		logLevel = zapcore.InfoLevel
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(os.Stderr), logLevel)
	return zap.New(core, zap.AddCaller()).Sugar()
}

// Sweep the upload directory nightly for files no row references anymore.
func initUploadSweeper(pool *pgxpool.Pool, uploadDir string, logger *zap.SugaredLogger) {
	c := cron.New()
	_, err := c.AddFunc("0 3 * * *", func() {
		cleaner.Clean(pool, uploadDir, logger)
	})
	if err != nil {
		logger.Fatalf("Failed to schedule upload sweep: %v", err)
	}
	c.Start()
}

func main() {
	config, err := config.NewConfig(".env")
	if err != nil {
		log.Fatalf("%s", err.Error())
	}
	logger := newLogger(config.LogLevel)
	defer logger.Sync()

	dbconfig, err := pgxpool.ParseConfig(config.ConnString())
	if err != nil {
		logger.Fatalf("%s", err.Error())
	}
	dbconfig.MaxConns = 100
	dbconfig.MinConns = 10
	dbconfig.MaxConnLifetime = 1 * time.Hour
	dbconfig.MaxConnIdleTime = 15 * time.Minute
	pool, err := pgxpool.NewWithConfig(context.Background(), dbconfig)
	if err != nil {
		logger.Fatalf("%s", err.Error())
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatalf("%s", err.Error())
	}

	propertyRepository := repository.NewPropertyRepository(pool, config.WebHost, config.WebPort)
	agentRepository := repository.NewAgentRepository(pool, config.WebHost, config.WebPort)
	categoryRepository := repository.NewCategoryRepository(pool, config.WebHost, config.WebPort)

	if err := propertyRepository.CreateTables(context.Background()); err != nil {
		logger.Fatal(err.Error())
	}
	if err := agentRepository.CreateTables(context.Background()); err != nil {
		logger.Fatal(err.Error())
	}
	if err := categoryRepository.CreateTables(context.Background()); err != nil {
		logger.Fatal(err.Error())
	}

	imageStore := imagestore.NewImageStore(config.UploadDir, config.PlaceholderPath)
	initUploadSweeper(pool, config.UploadDir, logger)

	propertyService := service.NewPropertyService(propertyRepository, imageStore, logger, config.WebHost, config.WebPort)
	agentService := service.NewAgentService(agentRepository, config.WebHost, config.WebPort)
	categoryService := service.NewCategoryService(categoryRepository, config.WebHost, config.WebPort)

	propertyHandler := handler.NewPropertyHandler(propertyService, logger)
	agentHandler := handler.NewAgentHandler(agentService, logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, logger)

	middlewares := middlewares.NewMiddlewares(logger)
	router := gin.New()
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.Recovery())

	root := router.Group("")
	propertyHandler.RegisterRoutes(root)
	agentHandler.RegisterRoutes(root)
	categoryHandler.RegisterRoutes(root)

	logger.Infof("Server starting on %s:%s", config.WebHost, config.WebPort)
	if err := router.Run(config.WebHost + ":" + config.WebPort); err != nil {
		logger.Fatalf("%s", err.Error())
	}
}
