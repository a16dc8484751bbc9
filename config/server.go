package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

// ServerConfiguration defines the settings of the webhook receiver
type ServerConfiguration struct {
	Host                string
	Port                string
	Environment         string
	SentryDSN           string
	LogLevel            string
	WebhookSecret       string
	RedisURL            string
	SlackWebhookURL     string
	RateLimitPerSecond  int
	HealthCheckInterval time.Duration
}

var (
	serverDefaultsOnce sync.Once
)

func initServerDefaults() {
	serverDefaultsOnce.Do(func() {
		viper.SetDefault("HOST", "0.0.0.0")
		viper.SetDefault("PORT", "8000")
		viper.SetDefault("ENVIRONMENT", "local")
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("RATE_LIMIT_PER_SECOND", 50)
		viper.SetDefault("HEALTH_CHECK_INTERVAL", 5) // minutes
	})
}

// ServerConfig returns the webhook receiver configuration
func ServerConfig() *ServerConfiguration {
	initServerDefaults()
	viper.AutomaticEnv()

	return &ServerConfiguration{
		Host:                viper.GetString("HOST"),
		Port:                viper.GetString("PORT"),
		Environment:         viper.GetString("ENVIRONMENT"),
		SentryDSN:           viper.GetString("SENTRY_DSN"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		WebhookSecret:       viper.GetString("BLAAIZ_WEBHOOK_SECRET"),
		RedisURL:            viper.GetString("REDIS_URL"),
		SlackWebhookURL:     viper.GetString("SLACK_WEBHOOK_URL"),
		RateLimitPerSecond:  viper.GetInt("RATE_LIMIT_PER_SECOND"),
		HealthCheckInterval: time.Duration(viper.GetInt("HEALTH_CHECK_INTERVAL")) * time.Minute,
	}
}
