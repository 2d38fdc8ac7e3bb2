package main

import (
	"time"

	"go.uber.org/zap"

	"aceplace/internal/config"
	"aceplace/internal/mq"
	"aceplace/internal/mqhandler"
	redisclient "aceplace/internal/redis"
	"aceplace/internal/repository"
	"aceplace/internal/util"
	"aceplace/pkg/db"
	"aceplace/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting dispatch audit worker")

	// Init Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Hour)

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Init handler
	logRepo := repository.NewDispatchLogRepository(dbConn, log)
	logHandler := mqhandler.NewDispatchLogHandler(logRepo, deduper, log)

	// Consumer for dispatch audit log
	consumer, err := mq.NewConsumer(cfg.MQ.URL, "notification.dispatched.log.q", mq.RoutingKeyDispatched, log)
	if err != nil {
		log.Fatal("failed to init dispatch-log consumer", zap.Error(err))
	}
	defer consumer.Close()

	consumer.SetHandler(logHandler.HandleDispatched)

	log.Info("Starting dispatch-log consumer")
	if err := consumer.StartConsuming(); err != nil {
		log.Fatal("dispatch-log consumer failed", zap.Error(err))
	}
}
