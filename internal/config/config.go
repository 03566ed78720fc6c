// Package config содержит логику чтения конфигурации бота.
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress  = ":8080"
	defaultWebhookPath = "/webhook"
	defaultUsersFile   = "users.json"
	defaultErrorLog    = "error.log"
	defaultLogLevel    = "info"
)

// Config содержит параметры конфигурации бота.
type Config struct {
	RunAddress      string `env:"RUN_ADDRESS"`
	BotToken        string `env:"BOT_TOKEN"`
	BotUsername     string `env:"BOT_USERNAME"`
	ExternalURL     string `env:"EXTERNAL_URL"`
	RenderURL       string `env:"RENDER_EXTERNAL_URL"`
	WebhookPath     string `env:"WEBHOOK_PATH"`
	UsersFile       string `env:"USERS_FILE"`
	DatabaseURI     string `env:"DATABASE_URI"`
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	ErrorLog        string `env:"ERROR_LOG"`
	LogLevel        string `env:"LOG_LEVEL"`
	RegisterWebhook bool   `env:"REGISTER_WEBHOOK" envDefault:"false"`
}

// Parse считывает конфигурацию из файла .env, флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	// .env необязателен, отсутствие файла не ошибка.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envCfg := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.BotToken, "t", "", "telegram bot token")
	flag.StringVar(&cfg.BotUsername, "n", "", "telegram bot username for invite links")
	flag.StringVar(&cfg.ExternalURL, "u", "", "externally reachable base URL for webhook registration")
	flag.StringVar(&cfg.WebhookPath, "w", defaultWebhookPath, "webhook path")
	flag.StringVar(&cfg.UsersFile, "f", defaultUsersFile, "ledger JSON file")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.RedisAddr, "r", "", "redis address")
	flag.StringVar(&cfg.ErrorLog, "e", defaultErrorLog, "error log file")
	flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")

	flag.Parse()

	override(&cfg.RunAddress, envCfg.RunAddress)
	override(&cfg.BotToken, envCfg.BotToken)
	override(&cfg.BotUsername, envCfg.BotUsername)
	override(&cfg.ExternalURL, envCfg.ExternalURL)
	override(&cfg.WebhookPath, envCfg.WebhookPath)
	override(&cfg.UsersFile, envCfg.UsersFile)
	override(&cfg.DatabaseURI, envCfg.DatabaseURI)
	override(&cfg.RedisAddr, envCfg.RedisAddr)
	override(&cfg.ErrorLog, envCfg.ErrorLog)
	override(&cfg.LogLevel, envCfg.LogLevel)

	// Render задаёт внешний адрес сервиса через RENDER_EXTERNAL_URL.
	if cfg.ExternalURL == "" {
		cfg.ExternalURL = envCfg.RenderURL
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.WebhookPath == "" {
		cfg.WebhookPath = defaultWebhookPath
	}
	if !strings.HasPrefix(cfg.WebhookPath, "/") {
		cfg.WebhookPath = "/" + cfg.WebhookPath
	}
	cfg.BotUsername = strings.TrimPrefix(cfg.BotUsername, "@")

	return cfg, nil
}

func override(dst *string, envValue string) {
	if envValue != "" {
		*dst = envValue
	}
}

// WebhookURL возвращает полный адрес, который регистрируется в Telegram.
func (c *Config) WebhookURL() string {
	if c.ExternalURL == "" {
		return ""
	}
	return strings.TrimRight(c.ExternalURL, "/") + c.WebhookPath
}

// StoreKind возвращает тип хранилища реестра по заданным параметрам.
func (c *Config) StoreKind() string {
	switch {
	case c.DatabaseURI != "":
		return "postgres"
	case c.RedisAddr != "":
		return "redis"
	default:
		return "file"
	}
}
