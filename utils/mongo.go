package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	mongoOnce   sync.Once
	mongoClient *mongo.Client
	mongoErr    error
)

// MongoClient возвращает общий для всего процесса клиент MongoDB.
// Подключение выполняется один раз при первом вызове, дальше хэндл
// переиспользуется всеми запросами.
func MongoClient(ctx context.Context) (*mongo.Client, error) {
	mongoOnce.Do(func() {
		uri := os.Getenv("MONGODB_URI")
		if uri == "" {
			mongoErr = errors.New("MONGODB_URI is not set")
			return
		}

		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
		if err != nil {
			mongoErr = fmt.Errorf("failed to connect to MongoDB: %w", err)
			return
		}

		// Проверка подключения
		if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
			mongoErr = fmt.Errorf("failed to ping MongoDB: %w", err)
			return
		}

		mongoClient = client
	})

	return mongoClient, mongoErr
}

// MongoDatabase возвращает имя базы данных лидов.
func MongoDatabase() string {
	if db := os.Getenv("MONGODB_DB"); db != "" {
		return db
	}
	return "securelead"
}

// PingMongo используется health-чеком.
func PingMongo(ctx context.Context) error {
	client, err := MongoClient(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}
