package controllers

import (
	"net/http"
	"time"

	"github.com/blaaiz/blaaiz-go/tasks"
	u "github.com/blaaiz/blaaiz-go/utils"
	"github.com/gin-gonic/gin"
)

// ServiceName identifies the webhook receiver in health responses
const ServiceName = "blaaiz-webhook-server"

// Controller is the default controller for other endpoints
type Controller struct{}

// NewController creates a new instance of Controller
func NewController() *Controller {
	return &Controller{}
}

// Health controller reports liveness and the latest API connectivity probe
func (ctrl *Controller) Health(ctx *gin.Context) {
	probed, connected, lastProbe := tasks.APIConnectionStatus()

	data := map[string]interface{}{
		"status":        "healthy",
		"service":       ServiceName,
		"api_connected": connected,
	}
	if probed {
		data["last_probe_at"] = lastProbe.UTC().Format(time.RFC3339)
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Service is healthy", data)
}

// Ready controller is reached only once the API connectivity probe has passed
func (ctrl *Controller) Ready(ctx *gin.Context) {
	u.APIResponse(ctx, http.StatusOK, "success", "Service is ready", map[string]interface{}{
		"ready": true,
	})
}
