package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port            string
	APIPrefix       string
	MongoURI        string
	MongoDB         string
	JWTSecret       string
	BcryptCost      int
	UploadDir       string
	UploadPath      string
	RabbitMQURL     string
	OrderExchange   string
	OrderQueue      string
	DeadLetterQueue string
	DelayExchange   string
	MaxPriority     int
}

func LoadConfig() *Config {
	return &Config{
		Port:            getEnv("PORT", "3000"),
		APIPrefix:       getEnv("API_URL", "/api/v1"),
		MongoURI:        getEnvFromFile("MONGO_URI_FILE", "MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "eshop"),
		JWTSecret:       getEnvFromFile("JWT_SECRET_FILE", "JWT_SECRET", "dev-secret-change-me"),
		BcryptCost:      getEnvInt("BCRYPT_COST", 14),
		UploadDir:       getEnv("UPLOAD_DIR", "public/uploads"),
		UploadPath:      getEnv("UPLOAD_PATH", "/public/uploads"),
		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		OrderExchange:   getEnv("ORDER_EXCHANGE", "orders_exchange"),
		OrderQueue:      getEnv("ORDER_QUEUE", "orders_queue"),
		DeadLetterQueue: getEnv("DEAD_LETTER_QUEUE", "dead_letter_queue"),
		DelayExchange:   getEnv("DELAY_EXCHANGE", "delay_exchange"),
		MaxPriority:     10, // priority queue ceiling
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return getEnv(envKey, defaultValue)
}
