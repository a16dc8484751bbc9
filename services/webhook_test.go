package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	blaaizErrors "github.com/blaaiz/blaaiz-go/services/errors"
	"github.com/blaaiz/blaaiz-go/types"
	"github.com/blaaiz/blaaiz-go/utils/test"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_test"

func TestVerifySignature(t *testing.T) {
	webhooks := NewWebhookService(new(test.MockRequester))
	payload := `{"transaction_id":"txn_1","status":"SUCCESSFUL"}`
	signature := test.SignPayload([]byte(payload), webhookSecret)

	t.Run("accepts a matching signature", func(t *testing.T) {
		valid, err := webhooks.VerifySignature(payload, signature, webhookSecret)
		assert.NoError(t, err)
		assert.True(t, valid)

		valid, err = webhooks.VerifySignature([]byte(payload), "sha256="+signature, webhookSecret)
		assert.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("rejects any single character change", func(t *testing.T) {
		flip := func(s string, i int) string {
			b := []byte(s)
			if b[i] == 'a' {
				b[i] = 'b'
			} else {
				b[i] = 'a'
			}
			return string(b)
		}

		for _, i := range []int{0, 10, len(payload) - 1} {
			valid, err := webhooks.VerifySignature(flip(payload, i), signature, webhookSecret)
			assert.NoError(t, err)
			assert.False(t, valid)
		}
		for _, i := range []int{0, len(signature) - 1} {
			valid, err := webhooks.VerifySignature(payload, flip(signature, i), webhookSecret)
			assert.NoError(t, err)
			assert.False(t, valid)
		}
		valid, err := webhooks.VerifySignature(payload, signature, flip(webhookSecret, 0))
		assert.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("signs structured payloads as compact JSON", func(t *testing.T) {
		event := map[string]interface{}{"transaction_id": "txn_1", "status": "SUCCESSFUL"}
		// encoding/json orders map keys alphabetically
		compact := `{"status":"SUCCESSFUL","transaction_id":"txn_1"}`

		valid, err := webhooks.VerifySignature(event, test.SignPayload([]byte(compact), webhookSecret), webhookSecret)
		assert.NoError(t, err)
		assert.True(t, valid)

		valid, err = VerifyWebhookSignature(event, test.SignPayload([]byte(compact), webhookSecret), webhookSecret)
		assert.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("signs non-ASCII text as escaped ASCII", func(t *testing.T) {
		event := map[string]interface{}{"customer": "José Müller", "memo": "🎉"}
		compact := `{"customer":"Jos\u00e9 M\u00fcller","memo":"\ud83c\udf89"}`

		valid, err := webhooks.VerifySignature(event, test.SignPayload([]byte(compact), webhookSecret), webhookSecret)
		assert.NoError(t, err)
		assert.True(t, valid)

		valid, err = VerifyWebhookSignature(event, test.SignPayload([]byte(`{"customer":"José Müller","memo":"🎉"}`), webhookSecret), webhookSecret)
		assert.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("uses a custom canonicalizer", func(t *testing.T) {
		custom := NewWebhookService(new(test.MockRequester), WithCanonicalizer(func(payload interface{}) ([]byte, error) {
			return json.MarshalIndent(payload, "", "  ")
		}))
		event := map[string]interface{}{"status": "SUCCESSFUL"}
		indented, _ := json.MarshalIndent(event, "", "  ")

		valid, err := custom.VerifySignature(event, test.SignPayload(indented, webhookSecret), webhookSecret)
		assert.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("requires every input", func(t *testing.T) {
		testCases := []struct {
			payload   interface{}
			signature string
			secret    string
			field     string
		}{
			{payload: "", signature: signature, secret: webhookSecret, field: "payload"},
			{payload: nil, signature: signature, secret: webhookSecret, field: "payload"},
			{payload: map[string]interface{}{}, signature: signature, secret: webhookSecret, field: "payload"},
			{payload: payload, signature: "", secret: webhookSecret, field: "signature"},
			{payload: payload, signature: signature, secret: "", field: "secret"},
		}

		for _, tc := range testCases {
			_, err := webhooks.VerifySignature(tc.payload, tc.signature, tc.secret)
			var validationErr blaaizErrors.ErrValidation
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tc.field, validationErr.Field)
		}
	})
}

func TestConstructEvent(t *testing.T) {
	fixed := time.Date(2025, 3, 4, 5, 6, 7, 890000000, time.FixedZone("WAT", 3600))
	webhooks := NewWebhookService(new(test.MockRequester), WithClock(func() time.Time { return fixed }))

	t.Run("adds verification metadata", func(t *testing.T) {
		payload := `{"transaction_id":"txn_1","status":"SUCCESSFUL","amount":100.5,"verified":false,"timestamp":"attacker"}`

		event, err := webhooks.ConstructEvent(payload, test.SignPayload([]byte(payload), webhookSecret), webhookSecret)
		require.NoError(t, err)

		assert.True(t, event.Verified())
		assert.Equal(t, "2025-03-04T04:06:07.890000Z", event.Timestamp())
		assert.NotEqual(t, "attacker", event["timestamp"])
		assert.Equal(t, "txn_1", event.TransactionID())
		assert.Equal(t, "SUCCESSFUL", event.Status())
		assert.Equal(t, json.Number("100.5"), event["amount"])
	})

	t.Run("does not modify a map payload", func(t *testing.T) {
		payload := map[string]interface{}{"transaction_id": "txn_2", "status": "PENDING"}
		compact := `{"status":"PENDING","transaction_id":"txn_2"}`

		event, err := webhooks.ConstructEvent(payload, test.SignPayload([]byte(compact), webhookSecret), webhookSecret)
		require.NoError(t, err)
		assert.True(t, event.Verified())
		assert.Equal(t, "txn_2", event.TransactionID())
		assert.NotContains(t, payload, "verified")
		assert.NotContains(t, payload, "timestamp")
	})

	t.Run("converts a struct payload", func(t *testing.T) {
		payload := struct {
			TransactionID string `json:"transaction_id"`
			Status        string `json:"status"`
		}{TransactionID: "txn_3", Status: "FAILED"}
		canonical := `{"transaction_id":"txn_3","status":"FAILED"}`

		event, err := webhooks.ConstructEvent(payload, test.SignPayload([]byte(canonical), webhookSecret), webhookSecret)
		require.NoError(t, err)
		assert.Equal(t, "FAILED", event.Status())
	})

	t.Run("rejects an invalid signature without parsing", func(t *testing.T) {
		_, err := webhooks.ConstructEvent("not json", "deadbeef", webhookSecret)
		assert.EqualError(t, err, "Invalid webhook signature")
	})

	t.Run("rejects a signed payload that is not a JSON object", func(t *testing.T) {
		payload := "not json"
		_, err := webhooks.ConstructEvent(payload, test.SignPayload([]byte(payload), webhookSecret), webhookSecret)
		assert.EqualError(t, err, "Invalid webhook payload: unable to parse JSON")

		payload = `["a"]`
		_, err = webhooks.ConstructEvent(payload, test.SignPayload([]byte(payload), webhookSecret), webhookSecret)
		assert.EqualError(t, err, "Invalid webhook payload: unable to parse JSON")
	})
}

func TestWebhookService(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	webhooks := NewWebhookService(newTestClient(t))
	ctx := context.Background()

	t.Run("Register posts both URLs", func(t *testing.T) {
		httpmock.Reset()
		var body map[string]interface{}
		httpmock.RegisterResponder("POST", testBaseURL+"/api/external/webhook",
			func(req *http.Request) (*http.Response, error) {
				data, _ := io.ReadAll(req.Body)
				_ = json.Unmarshal(data, &body)
				return httpmock.NewStringResponse(200, `{"message":"Webhook registered"}`), nil
			})

		_, err := webhooks.Register(ctx, &types.WebhookPayload{
			CollectionURL: "https://merchant.example/collection",
			PayoutURL:     "https://merchant.example/payout",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://merchant.example/collection", body["collection_url"])
		assert.Equal(t, "https://merchant.example/payout", body["payout_url"])
	})

	t.Run("Register requires the payout URL", func(t *testing.T) {
		httpmock.Reset()
		_, err := webhooks.Register(ctx, &types.WebhookPayload{CollectionURL: "https://merchant.example/collection"})
		assert.EqualError(t, err, "payout_url is required")
		assert.Equal(t, 0, httpmock.GetTotalCallCount())
	})

	t.Run("Replay and Get", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("POST", testBaseURL+"/api/external/webhook/replay",
			httpmock.NewStringResponder(200, `{"message":"Replayed"}`))
		httpmock.RegisterResponder("GET", testBaseURL+"/api/external/webhook",
			httpmock.NewStringResponder(200, `{"data":{"payout_url":"https://merchant.example/payout"}}`))
		httpmock.RegisterResponder("PUT", testBaseURL+"/api/external/webhook",
			httpmock.NewStringResponder(200, `{"message":"Updated"}`))

		_, err := webhooks.Replay(ctx, &types.WebhookReplayPayload{TransactionID: "txn_1"})
		assert.NoError(t, err)

		_, err = webhooks.Replay(ctx, &types.WebhookReplayPayload{})
		assert.EqualError(t, err, "transaction_id is required")

		res, err := webhooks.Get(ctx)
		require.NoError(t, err)
		url, _ := res.String("data", "payout_url")
		assert.Equal(t, "https://merchant.example/payout", url)

		_, err = webhooks.Update(ctx, &types.WebhookPayload{PayoutURL: "https://merchant.example/v2/payout"})
		assert.NoError(t, err)
	})
}
