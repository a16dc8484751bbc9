package main

import (
	"fmt"

	blaaiz "github.com/blaaiz/blaaiz-go"
	"github.com/blaaiz/blaaiz-go/config"
	"github.com/blaaiz/blaaiz-go/controllers/webhook"
	"github.com/blaaiz/blaaiz-go/routers"
	"github.com/blaaiz/blaaiz-go/services/slack"
	"github.com/blaaiz/blaaiz-go/storage"
	"github.com/blaaiz/blaaiz-go/tasks"
	"github.com/blaaiz/blaaiz-go/utils/logger"
)

func main() {
	if err := config.SetupConfig(); err != nil {
		logger.Fatalf("config SetupConfig: %v", nil, err)
	}
	conf := config.ServerConfig()

	if err := logger.Configure(conf); err != nil {
		logger.Fatalf("logger Configure: %v", nil, err)
	}
	if conf.WebhookSecret == "" {
		logger.Fatalf("BLAAIZ_WEBHOOK_SECRET is not set", nil)
	}

	clientConf, err := config.ClientConfig()
	if err != nil {
		logger.Fatalf("config ClientConfig: %v", nil, err)
	}
	client := blaaiz.NewWithConfig(clientConf)

	// Initialize Redis
	if err := storage.InitializeRedis(conf.RedisURL); err != nil {
		logger.Fatalf("Redis initialization: %v", nil, err)
	}
	if storage.RedisClient != nil {
		defer storage.RedisClient.Close()
	} else {
		logger.Warnf("REDIS_URL is not set, webhook deliveries are deduplicated in memory", nil)
	}

	// Start cron jobs
	scheduler := tasks.StartCronJobs(client, conf.HealthCheckInterval)
	defer scheduler.Stop()

	metrics, err := webhook.NewMetrics("", nil)
	if err != nil {
		logger.Fatalf("webhook NewMetrics: %v", nil, err)
	}
	webhookCtrl := webhook.NewController(
		client.Webhooks,
		storage.NewDeliveryStore(storage.RedisClient),
		conf.WebhookSecret,
		webhook.NotifyingHandler(slack.NewService(conf.SlackWebhookURL)),
		metrics,
	)

	// Run the server
	router := routers.Routes(webhookCtrl, conf.RateLimitPerSecond)

	appServer := fmt.Sprintf("%s:%s", conf.Host, conf.Port)
	logger.Infof("Server Running at :%v", logger.Fields{
		"Collection": "/webhooks/collection",
		"Payout":     "/webhooks/payout",
		"Test":       "/webhooks/test",
		"Health":     "/health",
	}, appServer)

	logger.Fatalf("%v", nil, router.Run(appServer))
}
