package routers

import (
	"github.com/blaaiz/blaaiz-go/controllers"
	"github.com/blaaiz/blaaiz-go/controllers/webhook"
	"github.com/blaaiz/blaaiz-go/routers/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes builds the webhook receiver router
func Routes(webhookCtrl *webhook.Controller, rateLimit int) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	ctrl := controllers.NewController()
	router.GET("/health", ctrl.Health)
	router.GET("/ready", middleware.APIReadinessMiddleware(), ctrl.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	webhooks := router.Group("/webhooks")
	webhooks.Use(middleware.RateLimitMiddleware(rateLimit))
	{
		webhooks.POST("/collection", webhookCtrl.CollectionWebhook)
		webhooks.POST("/payout", webhookCtrl.PayoutWebhook)
		webhooks.POST("/test", webhookCtrl.TestWebhook)
		webhooks.POST("/manual-verify", webhookCtrl.ManualVerify)
	}

	return router
}
