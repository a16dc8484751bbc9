package slack

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/blaaiz/blaaiz-go/types"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookURL = "https://hooks.slack.test/services/T000/B000/XXX"

func TestSlackService(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	event := types.WebhookEvent{
		"transaction_id": "txn_1",
		"status":         "FAILED",
		"amount":         json.Number("5000"),
		"currency":       "NGN",
		"recipient":      map[string]interface{}{"account_name": "Ada Obi"},
		"verified":       true,
		"timestamp":      "2025-03-04T04:06:07.890000Z",
	}

	t.Run("SendEventNotification posts the event summary", func(t *testing.T) {
		httpmock.Reset()
		var body string
		httpmock.RegisterResponder("POST", webhookURL,
			func(r *http.Request) (*http.Response, error) {
				data, _ := io.ReadAll(r.Body)
				body = string(data)
				return httpmock.NewBytesResponse(200, []byte(`ok`)), nil
			},
		)

		err := NewService(webhookURL).SendEventNotification("payout", event)
		require.NoError(t, err)

		assert.Contains(t, body, "*Blaaiz payout FAILED*")
		assert.Contains(t, body, "txn_1")
		assert.Contains(t, body, "5000 NGN")
		assert.Contains(t, body, "Ada Obi")
	})

	t.Run("SendEventNotification returns an error on a non-200 status", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("POST", webhookURL, httpmock.NewStringResponder(500, "error"))

		err := NewService(webhookURL).SendEventNotification("collection", event)
		assert.EqualError(t, err, "slack notification failed with status: 500")
	})

	t.Run("SendEventNotification does nothing without a webhook URL", func(t *testing.T) {
		httpmock.Reset()

		err := NewService("").SendEventNotification("collection", event)
		assert.NoError(t, err)
		assert.Equal(t, 0, httpmock.GetTotalCallCount())
	})
}
