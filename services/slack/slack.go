package slack

import (
	"fmt"
	"time"

	"github.com/blaaiz/blaaiz-go/types"
	"github.com/blaaiz/blaaiz-go/utils/logger"
	fastshot "github.com/opus-domini/fast-shot"
)

// Service posts webhook events to a Slack incoming webhook
type Service struct {
	WebhookURL string
	timeout    time.Duration
}

// NewService creates a Slack service. An empty URL disables notifications.
func NewService(webhookURL string) *Service {
	return &Service{
		WebhookURL: webhookURL,
		timeout:    10 * time.Second,
	}
}

func section(text string) map[string]interface{} {
	return map[string]interface{}{
		"type": "section",
		"text": map[string]interface{}{
			"type": "mrkdwn",
			"text": text,
		},
	}
}

// SendEventNotification sends a summary of a verified webhook event
func (s *Service) SendEventNotification(kind string, event types.WebhookEvent) error {
	if s.WebhookURL == "" {
		return nil
	}

	blocks := []map[string]interface{}{
		section(fmt.Sprintf("*Blaaiz %s %s*", kind, event.Status())),
		section(fmt.Sprintf("*Transaction ID:* %s", event.TransactionID())),
	}
	if amount, ok := event["amount"]; ok {
		blocks = append(blocks, section(fmt.Sprintf("*Amount:* %v %s", amount, event.GetString("currency"))))
	}
	if recipient, ok := event["recipient"].(map[string]interface{}); ok {
		if name, ok := recipient["account_name"].(string); ok {
			blocks = append(blocks, section(fmt.Sprintf("*Recipient:* %s", name)))
		}
	}
	blocks = append(blocks, section(fmt.Sprintf("*Verified at:* %s", event.Timestamp())))

	res, err := fastshot.NewClient(s.WebhookURL).
		Config().SetTimeout(s.timeout).
		Build().POST("").
		Body().AsJSON(map[string]interface{}{"blocks": blocks}).
		Send()
	if err != nil {
		logger.Errorf("Failed to send Slack notification: %v", nil, err)
		return err
	}

	if res.RawBody() != nil {
		defer res.RawBody().Close()
	}

	if res.StatusCode() != 200 {
		return fmt.Errorf("slack notification failed with status: %d", res.StatusCode())
	}

	return nil
}
