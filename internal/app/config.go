package app

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"hyCache/internal/api/http"
	"hyCache/internal/infrastructure/redis"
)

const AppName = "HY"

// Config — конфиг приложения. Заполняется через envconfig с префиксом HY:
// HY_LOG_LEVEL, HY_SERVER_PORT, HY_REDIS_POOL_MAX_ACTIVE, HY_REDIS_COMMON_HOST, HY_REDIS_ORDER_HOST и т.д.
type Config struct {
	LogLevel string            `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string            `envconfig:"LOG_FILE" default:"app.log"`
	Server   http.ServerConfig `envconfig:"SERVER"`
	Redis    redis.Config      `envconfig:"REDIS"`
}

// LoadCfg загружает конфиг: подтягивает .env (godotenv), затем заполняет структуру из окружения (envconfig).
// Путь к .env — HY_ENV_FILE, по умолчанию ./.env.
func LoadCfg() (Config, error) {
	envFile := os.Getenv(AppName + "_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("config: %s not found, using environment: %v", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process(AppName, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Redis.SetPolicy.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
