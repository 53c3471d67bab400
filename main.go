package main

import (
	"Playroom/config"
	_ "Playroom/config/swagger"
	"Playroom/middleware"
	"Playroom/routes"
	"Playroom/services/events"
	"Playroom/services/lobby"
	"Playroom/services/redis"
	"Playroom/services/socket_io"
	"Playroom/services/storage"
	activity_sync "Playroom/services/sync"
	"Playroom/services/worker"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// @title Playroom API
// @version 1.0
// @description Gin-Gonic server for Playroom game rooms and player groups
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	godotenv.Load()

	settings, err := config.LoadSettings()
	if err != nil {
		logrus.Fatalf("[CONFIG] %v", err)
	}
	logrus.SetLevel(settings.LogLevel)
	if settings.Prod {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}
	if err := settings.RequireSecrets(); err != nil {
		logrus.Fatalf("[CONFIG] %v", err)
	}
	logrus.Info("Setting up server...")

	gormDB, err := config.ConnectGORM()
	if err != nil {
		logrus.Fatalf("Error connecting to PostgreSQL: %v", err)
	}

	// Only migrate in development or during deployment
	if settings.MigratePostgres {
		logrus.Info("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			logrus.Warnf("Database migration failed: %v", err)
		} else {
			logrus.Info("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logrus.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	// Redis only buffers heartbeats and drives the worker; without it heartbeats go
	// straight to PostgreSQL and maintenance runs on a local ticker.
	var activity storage.ActivityRecorder
	var flusher worker.ActivityFlusher
	redisClient, err := config.Connect_redis()
	if err != nil {
		logrus.Warn("[REDIS] running without heartbeat buffer")
		redisClient = nil
	} else {
		defer redis.CloseRedis(redisClient)
		activity = redisClient
		flusher = activity_sync.NewSyncManager(redisClient, sqlDB)
	}

	store := storage.NewStore(gormDB, activity, settings.StaleAfter)

	sio := socket_io.NewServer()
	defer sio.Close()
	publishers := events.Multi{sio}
	if len(settings.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(settings.KafkaBrokers, settings.KafkaTopic)
		if err != nil {
			logrus.WithError(err).Warn("[KAFKA] producer unavailable, room events stay local")
		} else {
			defer kafka.Close()
			publishers = append(publishers, kafka)
		}
	}
	svc := lobby.NewService(store, publishers)

	r := gin.New()
	r.Use(gin.Recovery())
	middleware.SetUpMiddleware(r, settings.SessionKey, settings.UseHTTPS)
	routes.SetupRoutes(r, svc, settings.JWTSecret, settings.TokenTTL)
	sio.Start(r, svc, settings.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	maintenance := worker.NewMaintenanceHandler(flusher, svc)
	if redisClient != nil {
		ws := worker.NewWorkerServer(worker.RedisOpt(redisClient.Options()), maintenance, settings.CleanupInterval)
		if err := ws.Start(); err != nil {
			logrus.Fatalf("Error starting worker: %v", err)
		}
		defer ws.Shutdown()
	} else {
		go worker.RunLocal(ctx, maintenance, settings.CleanupInterval)
	}

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.Infof("Server started on port %s", settings.Port)
		var err error
		if settings.UseHTTPS {
			err = srv.ListenAndServeTLS(settings.CertFile, settings.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shut down")
	}
}
