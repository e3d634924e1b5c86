package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"securelead/consumer"
	"securelead/handlers"
	"securelead/middleware"
	"securelead/models"
	"securelead/monitoring"
	"securelead/utils"
)

func main() {
	logger := log.New(os.Stdout, "SECURELEAD: ", log.LstdFlags|log.Lshortfile)

	monitoring.Init()

	// Sentry опционален: без DSN ошибки просто никуда не отправляются
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := utils.InitSentry(dsn); err != nil {
			logger.Printf("Sentry init failed: %v", err)
		} else {
			defer utils.FlushSentry()
		}
	}

	ctx := context.Background()

	// Хранилище обязательно: без MONGODB_URI процесс не стартует
	repo, err := models.NewMongoRepository(ctx)
	if err != nil {
		logger.Fatalf("Failed to initialize MongoDB repository: %v", err)
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			logger.Printf("Error closing MongoDB connection: %v", err)
		}
	}()

	// Пытаемся подключиться к Redis с ретраями
	var cache utils.RedisClient
	maxRetries := 5
	retryDelay := 3 * time.Second

	for i := 0; i < maxRetries; i++ {
		cache, err = utils.NewRedisClient()
		if err == nil {
			break
		}
		logger.Printf("Attempt %d: Failed to connect to Redis: %v", i+1, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		logger.Fatalf("Failed to initialize Redis after %d attempts: %v", maxRetries, err)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Printf("Error closing Redis connection: %v", err)
		}
	}()

	// Kafka и Elasticsearch опциональны: без них CRUD работает,
	// отключаются только события и поиск
	var producer utils.KafkaProducer
	if p, err := utils.NewKafkaProducer(); err != nil {
		logger.Printf("Kafka is unavailable, lead events disabled: %v", err)
	} else {
		producer = p
		defer producer.Close()
	}

	var es utils.ElasticsearchClient
	if esClient, err := utils.NewElasticsearchClient(); err != nil {
		logger.Printf("Elasticsearch is unavailable, search disabled: %v", err)
	} else {
		es = esClient
	}

	// Консьюмер обслуживает кеш и поисковый индекс по событиям из Kafka
	if producer != nil {
		leadConsumer := consumer.NewLeadConsumer(cache, es)
		leadConsumer.Start(ctx)
		defer leadConsumer.Stop()
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SentryMiddleware(), middleware.ErrorHandler(), middleware.PrometheusMetrics())
	router.SetHTMLTemplate(handlers.BackgroundTemplate())

	leadHandler := handlers.NewLeadHandler(repo, cache, producer, es)

	router.GET("/leads", leadHandler.ListLeads)
	router.POST("/leads", leadHandler.CreateLead)
	router.PUT("/leads", leadHandler.UpdateLead)
	router.DELETE("/leads", leadHandler.DeleteLead)
	router.GET("/leads/:id", leadHandler.GetLead)
	router.GET("/search", leadHandler.SearchLeads)
	router.POST("/enrich", handlers.EnrichLead)
	router.GET("/background/:name", handlers.BackgroundReportPage)

	router.GET("/metrics", gin.WrapH(monitoring.Handler()))
	router.GET("/health", healthCheck(cache))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Printf("Server is running on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}

func healthCheck(cache utils.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		details := gin.H{"mongodb": "available", "redis": "available"}
		status := http.StatusOK

		if err := utils.PingMongo(ctx); err != nil {
			details["mongodb"] = "unavailable"
			status = http.StatusServiceUnavailable
		}

		// Простая проверка Redis
		if err := cache.SetToCache(ctx, "healthcheck", "ping", 10*time.Second); err != nil {
			details["redis"] = "unavailable"
			status = http.StatusServiceUnavailable
		}

		if status == http.StatusOK {
			c.JSON(status, gin.H{"status": "ok", "details": details})
			return
		}
		c.JSON(status, gin.H{"status": "degraded", "details": details})
	}
}
