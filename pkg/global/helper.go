package global

import (
	"context"
	"os"
	"time"
)

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetDefaultTimer() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func GetMongoURI() string {
	return GetEnvOrDefault("MONGODB_URI", "mongodb://127.0.0.1:27017")
}

func GetDatabaseName() string {
	return GetEnvOrDefault("MONGODB_DATABASE", "handmade_crafts")
}

func GetAdminKey() string {
	return GetEnvOrDefault("ADMIN_KEY", "local-admin-key")
}
