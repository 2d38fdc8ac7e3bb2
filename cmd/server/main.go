package main

import (
	"time"

	"go.uber.org/zap"

	"aceplace/internal/config"
	"aceplace/internal/handler"
	"aceplace/internal/httpserver"
	"aceplace/internal/mailer"
	"aceplace/internal/mq"
	redisclient "aceplace/internal/redis"
	"aceplace/internal/repository"
	"aceplace/internal/service"
	"aceplace/internal/util"
	"aceplace/pkg/db"
	"aceplace/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Init Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	statsCache := util.NewStatsCache(rdb, 30*time.Second)

	// Init RabbitMQ producer
	producer, err := mq.NewProducer(cfg.MQ.URL)
	if err != nil {
		log.Fatal("failed to init producer", zap.Error(err))
	}
	defer producer.Close()

	// Init Repositories
	userRepo := repository.NewUserRepository(dbConn)
	notifRepo := repository.NewNotificationRepository(dbConn, log)

	// Init Services
	smtpMailer := mailer.New(cfg.SMTP, log)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)
	dispatchService := service.NewDispatchService(userRepo, notifRepo, smtpMailer, producer, statsCache, log)
	notificationService := service.NewNotificationService(notifRepo, statsCache, log)

	// Init Handlers
	authHandler := handler.NewAuthHandler(authService)
	notificationHandler := handler.NewNotificationHandler(dispatchService, notificationService)

	// Router
	router := httpserver.NewRouter(authHandler, notificationHandler, cfg.JWT.Secret)

	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
