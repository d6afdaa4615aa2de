// Package config описывает настройки процессов витрины и загружает их
// из YAML-файла (CONFIG_PATH) и переменных окружения.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config общая структура настроек.
type Config struct {
	Env                     string        `yaml:"env" env:"ENV" env-default:"local"`
	StorageBackend          string        `yaml:"storage_backend" env:"STORAGE_BACKEND" env-default:"memory"`
	StorageConnectionString string        `yaml:"storage_connection_string" env:"DATABASE_URL"`
	MigrationsPath          string        `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	SeedDemoData            bool          `yaml:"seed_demo_data" env:"SEED_DEMO_DATA" env-default:"true"`
	StatsCacheTTL           time.Duration `yaml:"stats_cache_ttl" env:"STATS_CACHE_TTL" env-default:"1m"`
	CatalogCacheTTL         time.Duration `yaml:"catalog_cache_ttl" env:"CATALOG_CACHE_TTL" env-default:"10m"`

	HTTPServer HTTPServer `yaml:"http_server"`
	Redis      Redis      `yaml:"redis_connection"`
	RabbitMQ   RabbitMQ   `yaml:"rabbitmq"`
	JWTToken   JWTToken   `yaml:"jwttoken"`
	Session    Session    `yaml:"session"`
	SMTP       SMTP       `yaml:"smtp"`
	Stripe     Stripe     `yaml:"stripe"`
	Scheduler  Scheduler  `yaml:"scheduler"`
	RateLimit  RateLimit  `yaml:"rate_limit"`
	Seed       Seed       `yaml:"seed"`
}

// HTTPServer настройки HTTP-сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":5000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Redis настройки подключения к Redis. Пустой адрес отключает кэш.
type Redis struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// RabbitMQ настройки брокера уведомлений. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	MaxRetries int           `yaml:"max_retries" env:"RABBITMQ_MAX_RETRIES" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"RABBITMQ_RETRY_DELAY" env-default:"2s"`
}

// JWTToken настройки токенов доступа.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-default:"dev-secret-change-me"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"JWT_TOKEN_TTL" env-default:"24h"`
}

// Session настройки cookie-сессии.
type Session struct {
	Secret string        `yaml:"secret" env:"SESSION_SECRET" env-default:"mechxer-secret"`
	MaxAge time.Duration `yaml:"max_age" env:"SESSION_MAX_AGE" env-default:"24h"`
	Secure bool          `yaml:"secure" env:"SESSION_SECURE" env-default:"false"`
}

// SMTP настройки почтового сервера для процесса sender.
type SMTP struct {
	Host string `yaml:"host" env:"SMTP_HOST"`
	Port string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User string `yaml:"user" env:"SMTP_USER"`
	Pass string `yaml:"pass" env:"SMTP_PASS"`
}

// Stripe настройки платёжного шлюза. Пустой ключ отключает создание платежей.
type Stripe struct {
	SecretKey string `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	Currency  string `yaml:"currency" env:"STRIPE_CURRENCY" env-default:"usd"`
}

// Scheduler настройки фоновой проверки истекающих подписок.
type Scheduler struct {
	Enabled      bool          `yaml:"enabled" env:"SCHEDULER_ENABLED" env-default:"true"`
	Spec         string        `yaml:"spec" env:"SCHEDULER_SPEC" env-default:"@every 1h"`
	RemindWithin time.Duration `yaml:"remind_within" env:"SCHEDULER_REMIND_WITHIN" env-default:"24h"`
}

// RateLimit ограничение частоты запросов к эндпоинтам входа и регистрации.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"5"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"10"`
}

// Seed учётные данные демонстрационных пользователей.
type Seed struct {
	AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD" env-default:"admin123"`
	DemoPassword  string `yaml:"demo_password" env:"SEED_DEMO_PASSWORD" env-default:"demo123"`
}

// Load читает .env (если есть), затем YAML из path и переменные окружения.
// При пустом path используются только переменные окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if c.StorageConnectionString == "" {
			return errors.New("storage_connection_string is required for postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	return nil
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageBackend: %s\n"+
			"HTTPServer: %s (timeout %s, idle %s)\n"+
			"Redis: %s db=%d password=%s\n"+
			"RabbitMQ: %s\n"+
			"JWTToken: secret=%s ttl=%s\n"+
			"SMTP: %s:%s user=%s\n"+
			"Stripe: key=%s\n"+
			"Scheduler: enabled=%t spec=%q\n",
		c.Env,
		c.StorageBackend,
		c.HTTPServer.AddressHTTP, c.HTTPServer.TimeoutHTTP, c.HTTPServer.IdleTimeout,
		c.Redis.AddressRedis, c.Redis.DB, mask(c.Redis.Password),
		mask(c.RabbitMQ.URL),
		mask(c.JWTToken.JWTSecretKey), c.JWTToken.TokenTTL,
		c.SMTP.Host, c.SMTP.Port, c.SMTP.User,
		mask(c.Stripe.SecretKey),
		c.Scheduler.Enabled, c.Scheduler.Spec,
	)
}
