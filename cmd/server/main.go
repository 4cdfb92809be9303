package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/config"
	"storefront-service/internal/api"
	"storefront-service/internal/auth"
	"storefront-service/internal/broker"
	"storefront-service/internal/catalog"
	"storefront-service/internal/commerce"
	"storefront-service/internal/payment"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/session"
	"storefront-service/internal/store"
	"storefront-service/internal/util"
	"storefront-service/internal/worker"
	"storefront-service/internal/zones"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer("storefront-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicCheckout)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	commerceClient := commerce.NewClient(cfg.Commerce.BaseURL, time.Duration(cfg.Commerce.TimeoutSeconds)*time.Second)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	data, err := commerceClient.GetStoreData(startupCtx)
	startupCancel()
	if err != nil {
		log.Fatalf("Failed to load store data: %v", err)
	}
	log.Printf("Store data loaded: %d products, %d inventory rows, %d location rows",
		len(data.Products), len(data.Inventory), len(data.Locations))

	cat := &session.Catalog{
		Index:     catalog.NewIndex(data.Products),
		Inventory: catalog.NewInventory(data.Inventory),
		Zones:     zones.NewResolver(data.Locations),
		Config:    data.Config,
	}

	sessionTTL := time.Duration(cfg.Store.SessionTTLMinutes) * time.Minute
	sessions := session.NewManager(cat, redisClient, sessionTTL)

	authService := auth.NewService(commerceClient, redisClient)

	provider := payment.NewPaystackProvider(cfg.Payment.BaseURL, cfg.Payment.SecretKey)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicCheckout, cfg.Kafka.ConsumerGroup)
	receiptWorker := worker.NewReceiptWorker(consumer, db, redisClient)
	go func() {
		if err := receiptWorker.Start(workerCtx); err != nil {
			log.Printf("Receipt worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(sessions, authService, db, commerceClient, provider, eventPublisher, cfg.Store.Name, cfg.Store.Currency)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	receiptWorker.Stop()

	log.Println("Server exited")
}
