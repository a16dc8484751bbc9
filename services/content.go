package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/blaaiz/blaaiz-go/config"
	blaaizErrors "github.com/blaaiz/blaaiz-go/services/errors"
	"github.com/blaaiz/blaaiz-go/types"
	"github.com/blaaiz/blaaiz-go/utils"
	"github.com/blaaiz/blaaiz-go/utils/logger"
)

// ContentResolver materializes file content into bytes with a best-effort
// filename and content type
type ContentResolver struct {
	requester Requester
	userAgent string
}

// NewContentResolver creates a new instance of ContentResolver
func NewContentResolver(requester Requester, userAgent string) *ContentResolver {
	if userAgent == "" {
		userAgent = config.UserAgent()
	}
	return &ContentResolver{
		requester: requester,
		userAgent: userAgent,
	}
}

// Resolve turns content into bytes. A non-empty contentType or filename is
// kept as given; otherwise it is inferred where the content carries one.
func (r *ContentResolver) Resolve(ctx context.Context, content types.FileContent, contentType, filename string) (*types.ResolvedContent, error) {
	switch c := content.(type) {
	case types.RawBytes:
		if c == nil {
			return nil, blaaizErrors.ErrInvalidInput{Message: "file content is required"}
		}
		return &types.ResolvedContent{
			Data:        []byte(c),
			Filename:    filename,
			ContentType: contentType,
		}, nil

	case types.DataURL:
		return resolveDataURL(string(c), contentType, filename)

	case types.RemoteURL:
		return r.download(ctx, string(c), contentType, filename)

	case types.Base64Text:
		if c == "" {
			return nil, blaaizErrors.ErrInvalidInput{Message: "file content is required"}
		}
		data, err := base64.StdEncoding.DecodeString(string(c))
		if err != nil {
			return nil, blaaizErrors.ErrInvalidInput{Message: "invalid base64 file content", Err: err}
		}
		return &types.ResolvedContent{
			Data:        data,
			Filename:    filename,
			ContentType: contentType,
		}, nil

	case nil:
		return nil, blaaizErrors.ErrInvalidInput{Message: "file content is required"}

	default:
		return nil, blaaizErrors.ErrInvalidInput{Message: fmt.Sprintf("unsupported file content type %T", content)}
	}
}

// resolveDataURL decodes data:<mime>;base64,<payload>
func resolveDataURL(dataURL, contentType, filename string) (*types.ResolvedContent, error) {
	header, payload, found := strings.Cut(dataURL, ",")
	if !found {
		return nil, blaaizErrors.ErrInvalidInput{Message: "invalid data URL: missing ',' separator"}
	}

	if contentType == "" {
		if mediaType, _, hasParams := strings.Cut(strings.TrimPrefix(header, "data:"), ";"); hasParams {
			contentType = mediaType
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, blaaizErrors.ErrInvalidInput{Message: "invalid base64 in data URL", Err: err}
	}

	return &types.ResolvedContent{
		Data:        data,
		Filename:    filename,
		ContentType: contentType,
	}, nil
}

// download fetches remote content and derives its metadata from the response
func (r *ContentResolver) download(ctx context.Context, rawURL, contentType, filename string) (*types.ResolvedContent, error) {
	if rawURL == "" {
		return nil, blaaizErrors.ErrInvalidInput{Message: "file content is required"}
	}

	res, err := r.requester.Fetch(ctx, http.MethodGet, rawURL, nil, map[string]string{
		"User-Agent": r.userAgent,
	})
	if err != nil {
		logger.WithFields(logger.Fields{
			"Error": fmt.Sprintf("%v", err),
			"URL":   rawURL,
		}).Errorf("Failed to download file")
		return nil, blaaizErrors.ErrDownload{URL: rawURL, Err: err}
	}
	if !res.IsSuccess() {
		logger.WithFields(logger.Fields{
			"Status": res.Status,
			"URL":    rawURL,
		}).Errorf("Failed to download file")
		return nil, blaaizErrors.ErrDownload{URL: rawURL, Status: res.Status}
	}

	if contentType == "" {
		contentType = res.Headers.Get("Content-Type")
	}

	if filename == "" {
		filename = utils.FilenameFromContentDisposition(res.Headers.Get("Content-Disposition"))
		if filename == "" {
			filename = utils.FilenameFromURL(rawURL)
		}
		if filename != "" && !utils.HasExtension(filename) {
			filename += utils.ExtensionFromContentType(contentType)
		}
	}

	return &types.ResolvedContent{
		Data:        res.Body,
		Filename:    filename,
		ContentType: contentType,
	}, nil
}
