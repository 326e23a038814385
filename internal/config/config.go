package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Generator GeneratorConfig
	Chat      ChatConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	UploadDir          string
}

type DatabaseConfig struct {
	Connection string
}

// GeneratorConfig targets the upstream answer-generation service.
type GeneratorConfig struct {
	BaseURL         string
	PlainChatPath   string
	ContextChatPath string
	IngestPath      string
	HealthPath      string
	ConnectTimeout  time.Duration
	ReadTimeout     time.Duration
}

type ChatConfig struct {
	HistoryTurns   int // n_turns passed through to the generator
	DailyTurnLimit int // 0 disables the limit
	IngestTopic    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Generator: GeneratorConfig{
			BaseURL:         getEnv("GENERATOR_BASE_URL", "http://localhost:8000"),
			PlainChatPath:   getEnv("GENERATOR_PLAIN_CHAT_PATH", "/normal/chat"),
			ContextChatPath: getEnv("GENERATOR_CONTEXT_CHAT_PATH", "/rag/chat"),
			IngestPath:      getEnv("GENERATOR_INGEST_PATH", "/rag/vectordb/ocr-and-add"),
			HealthPath:      getEnv("GENERATOR_HEALTH_PATH", "/health"),
			ConnectTimeout:  getEnvAsDuration("GENERATOR_CONNECT_TIMEOUT_SECONDS", 10),
			ReadTimeout:     getEnvAsDuration("GENERATOR_READ_TIMEOUT_SECONDS", 120),
		},
		Chat: ChatConfig{
			HistoryTurns:   getEnvAsInt("CHAT_HISTORY_TURNS", 7),
			DailyTurnLimit: getEnvAsInt("CHAT_DAILY_TURN_LIMIT", 0),
			IngestTopic:    getEnv("ARTIFACT_INGEST_TOPIC_NAME", "INGEST_ARTIFACT"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallbackSeconds int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallbackSeconds)) * time.Second
}
