package webhook

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/blaaiz/blaaiz-go/services"
	blaaizErrors "github.com/blaaiz/blaaiz-go/services/errors"
	"github.com/blaaiz/blaaiz-go/storage"
	"github.com/blaaiz/blaaiz-go/types"
	u "github.com/blaaiz/blaaiz-go/utils"
	"github.com/blaaiz/blaaiz-go/utils/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

// Webhook kinds, one per registered URL
const (
	KindCollection = "collection"
	KindPayout     = "payout"
)

//go:embed schema.json
var eventSchemaJSON string

var eventSchema = mustLoadSchema(eventSchemaJSON)

func mustLoadSchema(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("webhook event schema: %v", err))
	}
	return s
}

// EventHandler processes a verified webhook event
type EventHandler func(ctx context.Context, kind string, event types.WebhookEvent) error

// Controller receives Blaaiz webhook deliveries
type Controller struct {
	webhooks   *services.WebhookService
	deliveries storage.DeliveryStore
	secret     string
	handler    EventHandler
	metrics    *Metrics
}

// NewController creates a webhook controller. A nil handler logs each event.
func NewController(webhooks *services.WebhookService, deliveries storage.DeliveryStore, secret string, handler EventHandler, metrics *Metrics) *Controller {
	if handler == nil {
		handler = LogEvent
	}
	return &Controller{
		webhooks:   webhooks,
		deliveries: deliveries,
		secret:     secret,
		handler:    handler,
		metrics:    metrics,
	}
}

// CollectionWebhook controller handles collection notifications
func (ctrl *Controller) CollectionWebhook(ctx *gin.Context) {
	ctrl.receive(ctx, KindCollection)
}

// PayoutWebhook controller handles payout notifications
func (ctrl *Controller) PayoutWebhook(ctx *gin.Context) {
	ctrl.receive(ctx, KindPayout)
}

func (ctrl *Controller) receive(ctx *gin.Context, kind string) {
	started := time.Now()

	payload, err := ctx.GetRawData()
	if err != nil {
		logger.WithFields(logger.Fields{
			"Error": fmt.Sprintf("%v", err),
			"Kind":  kind,
		}).Errorf("Failed to read webhook body")
		ctrl.metrics.record(kind, OutcomeFailed, started)
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to read request body", nil)
		return
	}
	signature := ctx.GetHeader(types.WebhookSignatureHeader)

	event, err := ctrl.webhooks.ConstructEvent(payload, signature, ctrl.secret)
	if err != nil {
		ctrl.rejectEvent(ctx, kind, started, err)
		return
	}

	if result, err := eventSchema.Validate(gojsonschema.NewBytesLoader(payload)); err != nil || !result.Valid() {
		details := schemaErrors(result, err)
		logger.WithFields(logger.Fields{
			"Kind":   kind,
			"Errors": details,
		}).Warnf("Webhook payload failed schema validation")
		ctrl.metrics.record(kind, OutcomeInvalidPayload, started)
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Invalid webhook payload", details)
		return
	}

	deliveryKey := strings.TrimPrefix(signature, "sha256=")
	isNew, err := ctrl.deliveries.MarkProcessed(ctx, deliveryKey)
	if err != nil {
		// dedup store unavailable, process anyway
		logger.WithFields(logger.Fields{
			"Error":         fmt.Sprintf("%v", err),
			"TransactionID": event.TransactionID(),
		}).Warnf("Failed to record webhook delivery")
		isNew = true
	}
	if !isNew {
		logger.WithFields(logger.Fields{
			"Kind":          kind,
			"TransactionID": event.TransactionID(),
		}).Infof("Duplicate webhook delivery acknowledged")
		ctrl.metrics.record(kind, OutcomeDuplicate, started)
		u.APIResponse(ctx, http.StatusOK, "success", "Webhook already processed", types.WebhookReceipt{
			Received:      true,
			TransactionID: event.TransactionID(),
			Status:        OutcomeDuplicate,
		})
		return
	}

	if err := ctrl.handler(ctx, kind, event); err != nil {
		logger.WithFields(logger.Fields{
			"Error":         fmt.Sprintf("%v", err),
			"Kind":          kind,
			"TransactionID": event.TransactionID(),
		}).Errorf("Webhook processing failed")
		if forgetErr := ctrl.deliveries.Forget(ctx, deliveryKey); forgetErr != nil {
			logger.Warnf("Failed to release webhook delivery: %v", nil, forgetErr)
		}
		ctrl.metrics.record(kind, OutcomeFailed, started)
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "Processing failed", nil)
		return
	}

	ctrl.metrics.record(kind, OutcomeProcessed, started)
	u.APIResponse(ctx, http.StatusOK, "success", "Webhook received", types.WebhookReceipt{
		Received:      true,
		TransactionID: event.TransactionID(),
		Status:        OutcomeProcessed,
		ReceiptID:     uuid.New().String(),
	})
}

// rejectEvent answers a delivery that ConstructEvent refused
func (ctrl *Controller) rejectEvent(ctx *gin.Context, kind string, started time.Time, err error) {
	var validationErr blaaizErrors.ErrValidation
	if !errors.As(err, &validationErr) || validationErr.Field == "secret" {
		logger.WithFields(logger.Fields{
			"Error": fmt.Sprintf("%v", err),
			"Kind":  kind,
		}).Errorf("Webhook verification could not run")
		ctrl.metrics.record(kind, OutcomeFailed, started)
		u.APIResponse(ctx, http.StatusInternalServerError, "error", "Processing failed", nil)
		return
	}

	logger.WithFields(logger.Fields{
		"Error": validationErr.Message,
		"Kind":  kind,
		"IP":    ctx.ClientIP(),
	}).Warnf("Webhook verification failed")

	if validationErr.Field == "payload" {
		ctrl.metrics.record(kind, OutcomeInvalidPayload, started)
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Invalid webhook payload", types.ErrorData{
			Field:   validationErr.Field,
			Message: validationErr.Message,
		})
		return
	}

	ctrl.metrics.record(kind, OutcomeInvalidSignature, started)
	u.APIResponse(ctx, http.StatusBadRequest, "error", "Invalid signature", nil)
}

// TestWebhook controller acknowledges any delivery and reports whether its
// signature, when present, is valid
func (ctrl *Controller) TestWebhook(ctx *gin.Context) {
	payload, err := ctx.GetRawData()
	if err != nil {
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to read request body", nil)
		return
	}

	data := map[string]interface{}{"received": true}
	if signature := ctx.GetHeader(types.WebhookSignatureHeader); signature != "" {
		valid, err := ctrl.webhooks.VerifySignature(payload, signature, ctrl.secret)
		if err != nil {
			data["signature_error"] = err.Error()
		} else {
			data["signature_valid"] = valid
		}
	}

	logger.WithFields(logger.Fields{
		"Payload": string(payload),
		"Data":    data,
	}).Infof("Test webhook received")

	u.APIResponse(ctx, http.StatusOK, "success", "Test webhook processed successfully", data)
}

// ManualVerifyPayload is the body of a manual verification request
type ManualVerifyPayload struct {
	Payload   interface{} `json:"payload" binding:"required"`
	Signature string      `json:"signature" binding:"required"`
}

// ManualVerify controller verifies a payload and signature supplied in the body
func (ctrl *Controller) ManualVerify(ctx *gin.Context) {
	var payload ManualVerifyPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		u.APIResponse(ctx, http.StatusBadRequest, "error", "Failed to validate payload", err.Error())
		return
	}

	event, err := ctrl.webhooks.ConstructEvent(payload.Payload, payload.Signature, ctrl.secret)
	if err != nil {
		var validationErr blaaizErrors.ErrValidation
		if errors.As(err, &validationErr) && validationErr.Field != "secret" {
			u.APIResponse(ctx, http.StatusBadRequest, "error", validationErr.Message, map[string]interface{}{
				"signature_valid": false,
			})
			return
		}
		u.APIResponse(ctx, http.StatusInternalServerError, "error", fmt.Sprintf("Verification failed: %v", err), nil)
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "Signature verified", map[string]interface{}{
		"signature_valid":   true,
		"event_constructed": true,
		"event_verified":    event.Verified(),
		"event_timestamp":   event.Timestamp(),
	})
}

// LogEvent is the default EventHandler. It records each event by status.
func LogEvent(_ context.Context, kind string, event types.WebhookEvent) error {
	fields := logger.Fields{
		"Kind":          kind,
		"TransactionID": event.TransactionID(),
		"Status":        event.Status(),
		"Amount":        event["amount"],
		"Timestamp":     event.Timestamp(),
	}
	if kind == KindCollection {
		fields["Currency"] = event.GetString("currency")
	} else if recipient, ok := event["recipient"].(map[string]interface{}); ok {
		fields["Recipient"] = recipient["account_name"]
	}

	switch event.Status() {
	case "SUCCESSFUL":
		logger.WithFields(fields).Infof("Webhook: %s successful", kind)
	case "FAILED":
		logger.WithFields(fields).Warnf("Webhook: %s failed", kind)
	case "PENDING":
		logger.WithFields(fields).Infof("Webhook: %s pending", kind)
	default:
		logger.WithFields(fields).Infof("Webhook: %s status update", kind)
	}
	return nil
}

// Notifier forwards events to an external channel
type Notifier interface {
	SendEventNotification(kind string, event types.WebhookEvent) error
}

// NotifyingHandler logs every event and forwards failed transactions to notifier
func NotifyingHandler(notifier Notifier) EventHandler {
	return func(ctx context.Context, kind string, event types.WebhookEvent) error {
		if err := LogEvent(ctx, kind, event); err != nil {
			return err
		}
		if event.Status() != "FAILED" {
			return nil
		}
		if err := notifier.SendEventNotification(kind, event); err != nil {
			logger.WithFields(logger.Fields{
				"Error":         fmt.Sprintf("%v", err),
				"TransactionID": event.TransactionID(),
			}).Errorf("Failed to notify about failed %s", kind)
		}
		return nil
	}
}

func schemaErrors(result *gojsonschema.Result, err error) []string {
	if err != nil {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, e.String())
	}
	return details
}
