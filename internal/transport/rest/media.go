package rest

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
)

// Upload sends a local file as multipart form data and returns the URL the
// backend stored it under.
func (c *Client) Upload(ctx context.Context, kind, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", apperrors.ErrUploadFailed(err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return "", apperrors.ErrUploadFailed(err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", apperrors.ErrUploadFailed(err)
	}
	if err := w.Close(); err != nil {
		return "", apperrors.ErrUploadFailed(err)
	}

	resp, err := call[uploadResponse](ctx, c, request{
		method:      http.MethodPost,
		path:        "/upload/" + kind,
		raw:         buf.Bytes(),
		contentType: w.FormDataContentType(),
		authed:      true,
	})
	if err != nil {
		return "", apperrors.ErrUploadFailed(err)
	}
	if resp.URL == "" {
		return "", apperrors.ErrUploadFailed(io.ErrUnexpectedEOF)
	}
	return resp.URL, nil
}
