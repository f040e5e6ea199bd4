// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Upstream                `yaml:"upstream"`
	Billing                 `yaml:"billing"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"60s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"90s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Upstream структура с настройками внешних сервисов генерации:
// LLM-шлюз и webhook'и workflow-движка.
type Upstream struct {
	OpenRouterAPIKey   string        `yaml:"openrouter_api_key" env:"OPENROUTER_API_KEY"`
	OpenRouterURL      string        `yaml:"openrouter_url" env-default:"https://openrouter.ai/api/v1"`
	OpenRouterModel    string        `yaml:"openrouter_model" env-default:"x-ai/grok-4.1-fast"`
	BlogWebhookURL     string        `yaml:"blog_webhook_url" env:"BLOG_WEBHOOK_URL"`
	CaptionsWebhookURL string        `yaml:"captions_webhook_url" env:"CAPTIONS_WEBHOOK_URL"`
	CaptionsTimeout    time.Duration `yaml:"captions_timeout" env-default:"30s"`
	BlogTimeout        time.Duration `yaml:"blog_timeout" env-default:"60s"`
}

// Billing структура с настройками приёма событий платёжного провайдера.
type Billing struct {
	WebhookSecret string `yaml:"webhook_secret" env:"BILLING_WEBHOOK_SECRET"`
}

// MustLoad функция для загрузки конфига, завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
