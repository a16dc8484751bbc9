package services

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	blaaizErrors "github.com/blaaiz/blaaiz-go/services/errors"
	"github.com/blaaiz/blaaiz-go/types"
	"github.com/blaaiz/blaaiz-go/utils/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestContentResolver(t *testing.T) {
	ctx := context.Background()
	pngBytes := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}

	t.Run("raw bytes pass through with explicit metadata", func(t *testing.T) {
		resolver := NewContentResolver(new(test.MockRequester), "")

		for _, data := range [][]byte{{0x00}, pngBytes, []byte("plain text")} {
			res, err := resolver.Resolve(ctx, types.RawBytes(data), "image/png", "id.png")
			require.NoError(t, err)
			assert.Equal(t, data, res.Data)
			assert.Equal(t, "image/png", res.ContentType)
			assert.Equal(t, "id.png", res.Filename)
		}
	})

	t.Run("base64 text round trips", func(t *testing.T) {
		resolver := NewContentResolver(new(test.MockRequester), "")

		for _, data := range [][]byte{{0xff, 0x00, 0x10}, pngBytes, []byte("hello world")} {
			res, err := resolver.Resolve(ctx, types.Base64Text(base64.StdEncoding.EncodeToString(data)), "", "")
			require.NoError(t, err)
			assert.Equal(t, data, res.Data)
			assert.Empty(t, res.ContentType)
			assert.Empty(t, res.Filename)
		}
	})

	t.Run("data URL yields its MIME type", func(t *testing.T) {
		resolver := NewContentResolver(new(test.MockRequester), "")
		encoded := base64.StdEncoding.EncodeToString(pngBytes)

		res, err := resolver.Resolve(ctx, types.DataURL("data:image/png;base64,"+encoded), "", "")
		require.NoError(t, err)
		assert.Equal(t, pngBytes, res.Data)
		assert.Equal(t, "image/png", res.ContentType)

		res, err = resolver.Resolve(ctx, types.DataURL("data:image/png;base64,"+encoded), "application/octet-stream", "")
		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", res.ContentType)
	})

	t.Run("data URL without payload is invalid", func(t *testing.T) {
		resolver := NewContentResolver(new(test.MockRequester), "")

		_, err := resolver.Resolve(ctx, types.DataURL("data:image/png;base64"), "", "")
		var invalidErr blaaizErrors.ErrInvalidInput
		assert.True(t, errors.As(err, &invalidErr))
	})

	t.Run("bad base64 wraps the decode error", func(t *testing.T) {
		resolver := NewContentResolver(new(test.MockRequester), "")

		_, err := resolver.Resolve(ctx, types.Base64Text("not base64!!"), "", "")
		var invalidErr blaaizErrors.ErrInvalidInput
		require.True(t, errors.As(err, &invalidErr))
		assert.NotNil(t, errors.Unwrap(err))
	})

	t.Run("missing content is invalid", func(t *testing.T) {
		resolver := NewContentResolver(new(test.MockRequester), "")

		_, err := resolver.Resolve(ctx, nil, "", "")
		var invalidErr blaaizErrors.ErrInvalidInput
		assert.True(t, errors.As(err, &invalidErr))
	})

	t.Run("remote URL takes metadata from the response", func(t *testing.T) {
		requester := new(test.MockRequester)
		resolver := NewContentResolver(requester, "Blaaiz-Go-SDK/test")

		headers := http.Header{}
		headers.Set("Content-Type", "application/pdf")
		headers.Set("Content-Disposition", `attachment; filename="statement.pdf"`)
		requester.On("Fetch", ctx, http.MethodGet, "https://files.example/doc?sig=1", []byte(nil),
			map[string]string{"User-Agent": "Blaaiz-Go-SDK/test"}).
			Return(&types.RawResponse{Status: 200, Headers: headers, Body: []byte("%PDF")}, nil)

		res, err := resolver.Resolve(ctx, types.RemoteURL("https://files.example/doc?sig=1"), "", "")
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF"), res.Data)
		assert.Equal(t, "application/pdf", res.ContentType)
		assert.Equal(t, "statement.pdf", res.Filename)
		requester.AssertExpectations(t)
	})

	t.Run("remote URL filename falls back to the path and gains an extension", func(t *testing.T) {
		requester := new(test.MockRequester)
		resolver := NewContentResolver(requester, "")

		headers := http.Header{}
		headers.Set("Content-Type", "image/jpeg")
		requester.On("Fetch", ctx, http.MethodGet, "https://files.example/uploads/passport?x=1", mock.Anything, mock.Anything).
			Return(&types.RawResponse{Status: 200, Headers: headers, Body: []byte{0xff, 0xd8}}, nil)

		res, err := resolver.Resolve(ctx, types.RemoteURL("https://files.example/uploads/passport?x=1"), "", "")
		require.NoError(t, err)
		assert.Equal(t, "passport.jpg", res.Filename)
		assert.Equal(t, "image/jpeg", res.ContentType)
	})

	t.Run("remote URL keeps explicit metadata", func(t *testing.T) {
		requester := new(test.MockRequester)
		resolver := NewContentResolver(requester, "")

		headers := http.Header{}
		headers.Set("Content-Type", "image/jpeg")
		headers.Set("Content-Disposition", `attachment; filename="server.jpg"`)
		requester.On("Fetch", ctx, http.MethodGet, "https://files.example/a.jpg", mock.Anything, mock.Anything).
			Return(&types.RawResponse{Status: 200, Headers: headers, Body: []byte{0x01}}, nil)

		res, err := resolver.Resolve(ctx, types.RemoteURL("https://files.example/a.jpg"), "image/png", "mine")
		require.NoError(t, err)
		assert.Equal(t, "image/png", res.ContentType)
		assert.Equal(t, "mine", res.Filename)
	})

	t.Run("remote URL failures are download errors", func(t *testing.T) {
		requester := new(test.MockRequester)
		resolver := NewContentResolver(requester, "")

		requester.On("Fetch", ctx, http.MethodGet, "https://files.example/missing", mock.Anything, mock.Anything).
			Return(&types.RawResponse{Status: 404, Headers: http.Header{}}, nil)
		requester.On("Fetch", ctx, http.MethodGet, "https://files.example/down", mock.Anything, mock.Anything).
			Return(nil, blaaizErrors.ErrTransport{Message: "Request failed: dial tcp", Code: blaaizErrors.CodeRequestError})

		_, err := resolver.Resolve(ctx, types.RemoteURL("https://files.example/missing"), "", "")
		var downloadErr blaaizErrors.ErrDownload
		require.True(t, errors.As(err, &downloadErr))
		assert.Equal(t, 404, downloadErr.Status)

		_, err = resolver.Resolve(ctx, types.RemoteURL("https://files.example/down"), "", "")
		require.True(t, errors.As(err, &downloadErr))
		var transportErr blaaizErrors.ErrTransport
		assert.True(t, errors.As(err, &transportErr))
	})
}
