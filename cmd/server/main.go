package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/medtrain/cert-registry-api/api/swagger"
	"github.com/medtrain/cert-registry-api/internal/handler"
	"github.com/medtrain/cert-registry-api/internal/middleware"
	"github.com/medtrain/cert-registry-api/internal/repository"
	"github.com/medtrain/cert-registry-api/internal/service"
	"github.com/medtrain/cert-registry-api/pkg/cache"
	"github.com/medtrain/cert-registry-api/pkg/config"
	"github.com/medtrain/cert-registry-api/pkg/database"
	"github.com/medtrain/cert-registry-api/pkg/logger"
	corsmiddleware "github.com/medtrain/cert-registry-api/pkg/middleware/cors"
	reqidmiddleware "github.com/medtrain/cert-registry-api/pkg/middleware/requestid"
)

// @title Certificate Registry API
// @version 1.0.0
// @description Admin portal backend for trainee records, batches and PDF documents
// @BasePath /api/v1
// @schemes https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close()
	}

	userRepo := repository.NewUserRepository(db)
	certRepo := repository.NewCertificateRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	validate := validator.New()
	cacheCfg := service.CertificateServiceConfig{CacheEnabled: cfg.Cache.Enabled, CacheTTL: cfg.Cache.TTL}

	authSvc := service.NewAuthService(userRepo, auditRepo, validate, logr, service.AuthServiceConfig{
		TokenSecret: cfg.Auth.JWTSecret,
		TokenExpiry: cfg.Auth.TokenExpiry,
		Issuer:      "cert-registry-api",
	})
	certSvc := service.NewCertificateService(certRepo, auditRepo, cacheRepo, logr, cacheCfg)
	batchSvc := service.NewBatchService(certRepo, cacheRepo, logr, cacheCfg)
	settingsSvc := service.NewSettingsService(settingsRepo, auditRepo, logr)
	draftSvc := service.NewDraftService(draftRepo, logr)
	documentSvc := service.NewDocumentService(certRepo, settingsSvc, logr, service.DocumentServiceConfig{
		OrganizationName: cfg.Documents.OrganizationName,
		OrganizationCode: cfg.Documents.OrganizationCode,
		CardsPerPage:     cfg.Documents.CardsPerPage,
	})
	metricsSvc := service.NewMetricsService()

	authHandler := handler.NewAuthHandler(authSvc, handler.AuthHandlerConfig{
		CookieName:   cfg.Auth.CookieName,
		CookieDomain: cfg.Auth.CookieDomain,
		CookieSecure: cfg.Auth.CookieSecure,
		TokenExpiry:  cfg.Auth.TokenExpiry,
	})
	certHandler := handler.NewCertificateHandler(certSvc)
	batchHandler := handler.NewBatchHandler(batchSvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	draftHandler := handler.NewDraftHandler(draftSvc)
	documentHandler := handler.NewDocumentHandler(documentSvc, metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	authRequired := middleware.Auth(authSvc, cfg.Auth.CookieName)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authRequired, authHandler.Me)

	// Record reads and submissions stay open so the public portal can
	// browse and enroll; only destructive and settings mutations and the
	// identity endpoint require a session.
	api.POST("/certificates", certHandler.Create)
	api.GET("/certificates", certHandler.List)
	api.GET("/certificates/date/:date", certHandler.ListByDate)
	api.GET("/certificates/:id", certHandler.Get)
	api.PUT("/certificates/:id", certHandler.Update)
	api.DELETE("/certificates/:id", authRequired, certHandler.Delete)
	api.GET("/certificates/:id/pdf", documentHandler.Certificate)

	api.GET("/batches", batchHandler.List)
	api.GET("/batches/:key", batchHandler.Get)
	api.GET("/batches/:key/certificates/pdf", documentHandler.BatchCertificates)
	api.GET("/batches/:key/id-cards/pdf", documentHandler.BatchIDCards)

	api.GET("/settings", settingsHandler.Get)
	api.POST("/settings", authRequired, settingsHandler.Update)

	// Drafts are keyed to the authenticated user, so the whole group
	// needs a session.
	drafts := api.Group("/drafts", authRequired)
	drafts.GET("", draftHandler.Get)
	drafts.PUT("", draftHandler.Save)
	drafts.DELETE("", draftHandler.Clear)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
