package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"insights-api/src/config"
	"insights-api/src/database"
	"insights-api/src/infrastructure/repository"
	"insights-api/src/interface/handler"
	"insights-api/src/logger"
	"insights-api/src/middleware"
	"insights-api/src/routes"
	"insights-api/src/service"
	"insights-api/src/storage"
	"insights-api/src/usecase"
)

func main() {
	cfg := config.LoadConfig()

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.Directory); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.CloseLogger()

	logger.Log.Info("starting insights-api")

	db, err := database.NewDB(&cfg.Database, logger.Log)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	// repositories
	articleRepo := repository.NewArticleRepository(db, logger.Log)
	userRepo := repository.NewUserRepository(db, logger.Log)
	subscriberRepo := repository.NewSubscriberRepository(db, logger.Log)
	templateRepo := repository.NewTemplateRepository(db, logger.Log)

	// services and usecases
	jwtService := service.NewJWTService(cfg)
	authService := service.NewAuthService(userRepo, jwtService, cfg)
	articleUsecase := usecase.NewArticleUsecase(articleRepo)
	newsletterUsecase := usecase.NewNewsletterUsecase(subscriberRepo, templateRepo)

	// media storage is optional; the upload endpoint degrades to 503
	var uploader *storage.MediaUploader
	uploader, err = storage.NewMediaUploader(&cfg.S3)
	if err != nil {
		logger.Log.WithError(err).Warn("media uploader unavailable")
		uploader = nil
	}

	handlers := routes.Handlers{
		Article:    handler.NewArticleHandler(articleUsecase, logger.Log),
		Auth:       handler.NewAuthHandler(authService, logger.Log),
		Newsletter: handler.NewNewsletterHandler(newsletterUsecase, logger.Log),
		Upload:     handler.NewUploadHandler(uploader, logger.Log),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	r.NoRoute(func(c *gin.Context) {
		logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"uri":       c.Request.RequestURI,
			"client_ip": c.ClientIP(),
		}).Warn("404: route not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		dbState := "ok"
		if err := db.Health(); err != nil {
			status = http.StatusServiceUnavailable
			dbState = "unreachable"
		}
		c.JSON(status, gin.H{
			"status":    "OK",
			"database":  dbState,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	routes.SetupRoutes(r, handlers, jwtService, userRepo)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Log.Info("shutdown signal received")
		db.Close()
		logger.CloseLogger()
		os.Exit(0)
	}()

	serverAddr := ":" + cfg.Server.Port
	logger.Log.WithField("port", cfg.Server.Port).Info("server starting")

	if err := r.Run(serverAddr); err != nil {
		logger.Log.WithError(err).Fatal("failed to start server")
	}
}
