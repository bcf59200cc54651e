package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"cinema-api/internal/config"
	"cinema-api/internal/kafka"
	"cinema-api/internal/logger"
	"cinema-api/internal/orders"
	orders_db "cinema-api/internal/orders/db"
	"cinema-api/internal/orders/order_api"
	"cinema-api/internal/orders/qr"
	orders_redis "cinema-api/internal/orders/redis"
	sessions_db "cinema-api/internal/sessions/db"
	sessions "cinema-api/internal/sessions/service"
	"cinema-api/internal/sessions/session_api"
)

func connectPostgres(cfg *config.Config, log *logger.Logger) *bun.DB {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN())
		if err == nil {
			err = sqldb.Ping()
		}
		if err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func connectRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Redis.Addr))
	return client
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting cinema API initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB := connectPostgres(cfg, log)
	defer bunDB.Close()

	redisClient := connectRedis(ctx, cfg, log)
	defer redisClient.Close()

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics)
		defer producer.Close()
		log.Info("KAFKA", fmt.Sprintf("Kafka producer initialized for brokers %v", cfg.Kafka.Brokers))

		requiredTopics := []string{cfg.Kafka.Topics.SessionCreated, cfg.Kafka.Topics.OrderCreated}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
	} else {
		log.Warn("KAFKA", "Kafka disabled, events will not be published")
	}

	sessionsDB := &sessions_db.DB{Bun: bunDB}
	ordersDB := &orders_db.DB{Bun: bunDB}

	var sessionPublisher sessions.EventPublisher
	var orderPublisher orders.EventPublisher
	if producer != nil {
		sessionPublisher = producer
		orderPublisher = producer
	}

	sessionService := sessions.NewSessionService(sessionsDB, sessionPublisher, log)
	orderService := orders.NewOrderService(
		ordersDB,
		sessionsDB,
		orders_redis.NewHolder(redisClient, cfg.Redis.SeatHoldTTL),
		orderPublisher,
		qr.NewQRGenerator(os.Getenv("QR_SECRET_KEY")),
		log,
	)

	sessionHandler := session_api.NewHandler(sessionService, log)
	orderHandler := order_api.NewHandler(orderService, log)

	log.Info("HTTP", "Setting up router")
	r := chi.NewRouter()
	r.Route("/api/cinema", func(r chi.Router) {
		sessionHandler.RegisterRoutes(r)
		orderHandler.RegisterRoutes(r)
	})
	log.Info("ROUTER", "Cinema routes registered under /api/cinema")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Server listening on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("Server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("APP", "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP", fmt.Sprintf("Shutdown error: %v", err))
	}
	log.Info("APP", "Shutdown complete")
}
