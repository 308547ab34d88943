package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App   AppConfig
	Redis RedisConfig
	LLM   LLMConfig
	Event EventConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	AdminToken         string
	TracingEnabled     bool
	OtlpEndpoint       string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	UseMock  bool
}

type LLMConfig struct {
	Provider string // "openai-compatible" or "ollama"
	Endpoint string
	APIKey   string
	Model    string
	MockMode bool
}

type EventConfig struct {
	RadiationInterval    time.Duration
	RadiationProbability float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			AdminToken:         getEnv("ADMIN_TOKEN", ""),
			TracingEnabled:     getEnvAsBool("TRACING_ENABLED", false),
			OtlpEndpoint:       getEnv("OTLP_ENDPOINT", "localhost:4318"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			UseMock:  getEnvAsBool("USE_MOCK_REDIS", false),
		},
		LLM: LLMConfig{
			Provider: getEnv("LLM_PROVIDER", "openai-compatible"),
			Endpoint: getEnv("LLM_ENDPOINT", ""),
			APIKey:   getEnv("LLM_API_KEY", ""),
			Model:    getEnv("LLM_MODEL", "gpt-4o-mini"),
			MockMode: getEnvAsBool("LLM_MOCK_MODE", false),
		},
		Event: EventConfig{
			RadiationInterval:    time.Duration(getEnvAsInt("RADIATION_CHECK_INTERVAL_SECONDS", 120)) * time.Second,
			RadiationProbability: getEnvAsFloat("RADIATION_PROBABILITY", 0.05),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
