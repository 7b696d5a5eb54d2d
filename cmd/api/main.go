// Newsroom backend API server
//
//	@title			Newsroom Backend API
//	@version		1.0
//	@description	Article lifecycle, publish workflow and trending surfaces for the newsroom CMS
//	@BasePath		/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT token
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/newsroomhq/newsroom-backend/internal/common"
	"github.com/newsroomhq/newsroom-backend/internal/config"
	"github.com/newsroomhq/newsroom-backend/internal/domain"
	"github.com/newsroomhq/newsroom-backend/internal/handler"
	"github.com/newsroomhq/newsroom-backend/internal/middleware"
	"github.com/newsroomhq/newsroom-backend/internal/repository"
	"github.com/newsroomhq/newsroom-backend/internal/routes"
	"github.com/newsroomhq/newsroom-backend/internal/service"
	"github.com/newsroomhq/newsroom-backend/pkg/cache"
	"github.com/newsroomhq/newsroom-backend/pkg/jwt"
	pkglogger "github.com/newsroomhq/newsroom-backend/pkg/logger"
	pkgredis "github.com/newsroomhq/newsroom-backend/pkg/redis"
	"github.com/newsroomhq/newsroom-backend/pkg/storage"
)

func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

// initDB connects to MySQL and migrates the news schema. Returns nil when
// the database is unreachable so the server can still serve degraded surfaces.
func initDB(cfg *config.Config) *gorm.DB {
	log := pkglogger.GetLogger()

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to database, continuing without DB")
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to access database pool, continuing without DB")
		return nil
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.AutoMigrate(
		&domain.Article{},
		&domain.Category{},
		&domain.CategoryLink{},
		&domain.MediaAsset{},
		&domain.SocialLink{},
		&domain.QuoteRecord{},
		&domain.ApprovalRecord{},
		&domain.BreakingPromotion{},
		&domain.PinnedPromotion{},
	); err != nil {
		log.Warn().Err(err).Msg("Database migration failed")
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Str("name", cfg.Database.Name).
		Msg("Database connected")
	return db
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func main() {
	loaded := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	log := pkglogger.GetLogger()

	if len(loaded) > 0 {
		log.Info().Strs("files", loaded).Msg("Loaded dotenv files")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	common.SetProductionMode(cfg.IsProduction())

	db := initDB(cfg)

	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password,
		cfg.Redis.DB, cfg.Redis.PoolSize,
	)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis, continuing without cache")
		redisClient = nil
	}
	cacheService := cache.NewService(redisClient)

	var s3Client *storage.S3Client
	if cfg.Storage.Enabled {
		s3Client, err = storage.NewS3Client(storage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			Provider:        cfg.Storage.Provider,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to init S3 storage, continuing without uploads")
			s3Client = nil
		}
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	rolePolicy := domain.NewRolePolicy(cfg.Publishing.DirectPublishRoles)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	if cfg.CORS.AllowOrigins != "" {
		corsConfig.AllowOrigins = splitAndTrim(cfg.CORS.AllowOrigins)
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	router.Use(cors.New(corsConfig))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		dbState := "down"
		if db != nil {
			if sqlDB, err := db.DB(); err == nil && sqlDB.PingContext(c.Request.Context()) == nil {
				dbState = "up"
			}
		}
		redisState := "down"
		if redisClient != nil && redisClient.Ping(c.Request.Context()).Err() == nil {
			redisState = "up"
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    cfg.Env,
			"db":     dbState,
			"redis":  redisState,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	articleRepo := repository.NewArticleRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)

	publishGate := service.NewPublishGate(rolePolicy)
	newsService := service.NewNewsService(articleRepo, publishGate, cacheService)
	surfaceService := service.NewSurfaceService(promotionRepo, cacheService)
	mediaService := service.NewMediaService(s3Client)
	auditLogger := middleware.NewAuditLogger(db)

	newsHandler := handler.NewNewsHandler(newsService, mediaService, auditLogger)
	surfaceHandler := handler.NewSurfaceHandler(surfaceService)
	auditHandler := handler.NewAuditHandler(auditLogger)

	routes.Setup(router, newsHandler, surfaceHandler, auditHandler, jwtManager)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("Starting API server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Server exited")
	}
}
