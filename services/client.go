package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/blaaiz/blaaiz-go/config"
	blaaizErrors "github.com/blaaiz/blaaiz-go/services/errors"
	"github.com/blaaiz/blaaiz-go/types"
	"github.com/blaaiz/blaaiz-go/utils"
	"github.com/blaaiz/blaaiz-go/utils/logger"
	fastshot "github.com/opus-domini/fast-shot"
)

// APIKeyHeader authenticates every call to the Blaaiz API
const APIKeyHeader = "x-blaaiz-api-key"

// Requester performs HTTP calls on behalf of the resource services
type Requester interface {
	// MakeRequest calls an API endpoint relative to the base URL and classifies the response.
	MakeRequest(ctx context.Context, method, endpoint string, data interface{}, headers map[string]string) (*types.APIResponse, error)
	// Fetch calls an absolute URL without API credentials and returns the response as is.
	Fetch(ctx context.Context, method, rawURL string, body []byte, headers map[string]string) (*types.RawResponse, error)
}

// APIClient is the Requester backed by fast-shot
type APIClient struct {
	conf *config.ClientConfiguration
}

// NewAPIClient creates a new instance of APIClient
func NewAPIClient(conf *config.ClientConfiguration) *APIClient {
	return &APIClient{
		conf: conf,
	}
}

// MakeRequest sends a request to the Blaaiz API.
// Non-GET requests carry data as JSON; a string or []byte must already be JSON
// and is sent as is. An empty map sends no body. A query string on the endpoint is forwarded as parameters.
func (c *APIClient) MakeRequest(ctx context.Context, method, endpoint string, data interface{}, headers map[string]string) (*types.APIResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, blaaizErrors.ErrTransport{
			Message: fmt.Sprintf("Request failed: %v", err),
			Code:    blaaizErrors.CodeRequestError,
		}
	}

	method = strings.ToUpper(method)
	path, params, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, blaaizErrors.ErrTransport{
			Message: fmt.Sprintf("Request failed: %v", err),
			Code:    blaaizErrors.CodeRequestError,
		}
	}

	requestHeaders := map[string]string{
		APIKeyHeader:   c.conf.APIKey,
		"Accept":       "application/json",
		"Content-Type": "application/json",
		"User-Agent":   c.conf.UserAgent,
	}
	for key, value := range headers {
		requestHeaders[key] = value
	}

	client := fastshot.NewClient(c.conf.BaseURL).
		Config().SetTimeout(c.conf.Timeout).
		Header().AddAll(requestHeaders).
		Build()

	var body interface{}
	switch v := data.(type) {
	case nil:
	case string:
		body = json.RawMessage(v)
	case []byte:
		body = json.RawMessage(v)
	case map[string]interface{}:
		if len(v) > 0 {
			body = v
		}
	default:
		body = v
	}

	var res fastshot.Response
	switch {
	case method == http.MethodGet:
		res, err = client.GET(path).Context().Set(ctx).Query().AddParams(params).Send()
	case body == nil && method == http.MethodPost:
		res, err = client.POST(path).Context().Set(ctx).Query().AddParams(params).Send()
	case body == nil && method == http.MethodPut:
		res, err = client.PUT(path).Context().Set(ctx).Query().AddParams(params).Send()
	case body == nil && method == http.MethodPatch:
		res, err = client.PATCH(path).Context().Set(ctx).Query().AddParams(params).Send()
	case body == nil && method == http.MethodDelete:
		res, err = client.DELETE(path).Context().Set(ctx).Query().AddParams(params).Send()
	case method == http.MethodPost:
		res, err = client.POST(path).Context().Set(ctx).Query().AddParams(params).Body().AsJSON(body).Send()
	case method == http.MethodPut:
		res, err = client.PUT(path).Context().Set(ctx).Query().AddParams(params).Body().AsJSON(body).Send()
	case method == http.MethodPatch:
		res, err = client.PATCH(path).Context().Set(ctx).Query().AddParams(params).Body().AsJSON(body).Send()
	case method == http.MethodDelete:
		res, err = client.DELETE(path).Context().Set(ctx).Query().AddParams(params).Body().AsJSON(body).Send()
	default:
		return nil, blaaizErrors.ErrTransport{
			Message: fmt.Sprintf("unsupported HTTP method: %s", method),
			Code:    blaaizErrors.CodeRequestError,
		}
	}
	if err != nil {
		logger.WithFields(logger.Fields{
			"Error":    fmt.Sprintf("%v", err),
			"Method":   method,
			"Endpoint": endpoint,
		}).Errorf("Blaaiz request failed")
		return nil, blaaizErrors.ErrTransport{
			Message: fmt.Sprintf("Request failed: %v", err),
			Code:    blaaizErrors.CodeRequestError,
		}
	}

	status := res.StatusCode()
	rawBody, err := readBody(res)
	if err != nil {
		return nil, blaaizErrors.ErrTransport{
			Message: fmt.Sprintf("Request failed: %v", err),
			Status:  status,
			Code:    blaaizErrors.CodeRequestError,
		}
	}

	logger.Debugf("%s %s -> %d", logger.Fields{"BaseURL": c.conf.BaseURL}, method, endpoint, status)

	var payload interface{} = string(rawBody)
	if parsed, err := utils.ParseJSON(rawBody); err == nil {
		payload = parsed
	}

	headersOut := http.Header{}
	if res.RawResponse != nil {
		headersOut = res.RawResponse.Header
	}

	response := &types.APIResponse{
		Data:    payload,
		Status:  status,
		Headers: headersOut,
	}

	if status >= 400 {
		return nil, transportError(response)
	}

	return response, nil
}

// Fetch sends a request to an absolute URL, such as a presigned upload slot.
// The API key is never attached and the status is not classified.
func (c *APIClient) Fetch(ctx context.Context, method, rawURL string, body []byte, headers map[string]string) (*types.RawResponse, error) {
	client := fastshot.NewClient(rawURL).
		Config().SetTimeout(c.conf.Timeout).
		Header().AddAll(headers).
		Build()

	var res fastshot.Response
	var err error
	switch strings.ToUpper(method) {
	case http.MethodGet:
		res, err = client.GET("").Context().Set(ctx).Send()
	case http.MethodPut:
		res, err = client.PUT("").Context().Set(ctx).Body().AsReader(bytes.NewReader(body)).Send()
	case http.MethodPost:
		res, err = client.POST("").Context().Set(ctx).Body().AsReader(bytes.NewReader(body)).Send()
	default:
		return nil, blaaizErrors.ErrTransport{
			Message: fmt.Sprintf("unsupported HTTP method: %s", method),
			Code:    blaaizErrors.CodeRequestError,
		}
	}
	if err != nil {
		return nil, blaaizErrors.ErrTransport{
			Message: fmt.Sprintf("Request failed: %v", err),
			Code:    blaaizErrors.CodeRequestError,
		}
	}

	data, err := readBody(res)
	if err != nil {
		return nil, blaaizErrors.ErrTransport{
			Message: fmt.Sprintf("Request failed: %v", err),
			Status:  res.StatusCode(),
			Code:    blaaizErrors.CodeRequestError,
		}
	}

	headersOut := http.Header{}
	if res.RawResponse != nil {
		headersOut = res.RawResponse.Header
	}

	return &types.RawResponse{
		Status:  res.StatusCode(),
		Headers: headersOut,
		Body:    data,
	}, nil
}

// readBody drains and closes the response body
func readBody(res fastshot.Response) ([]byte, error) {
	body := res.RawBody()
	if body == nil {
		return nil, nil
	}
	defer body.Close()
	return io.ReadAll(body)
}

// splitEndpoint separates a query string from the endpoint path
func splitEndpoint(endpoint string) (string, map[string]string, error) {
	params := map[string]string{}
	path, rawQuery, found := strings.Cut(endpoint, "?")
	if !found {
		return path, params, nil
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", nil, err
	}
	for key := range values {
		params[key] = values.Get(key)
	}
	return path, params, nil
}

// transportError builds the error for a failed API response from its body
func transportError(response *types.APIResponse) error {
	message, ok := response.String("message")
	if !ok || message == "" {
		message = fmt.Sprintf("HTTP %d error", response.Status)
	}
	code, ok := response.String("code")
	if !ok || code == "" {
		code = blaaizErrors.CodeHTTPError
	}
	return blaaizErrors.ErrTransport{
		Message: message,
		Status:  response.Status,
		Code:    code,
	}
}
