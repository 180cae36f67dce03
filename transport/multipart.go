package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
)

// File is an upload attached to a multipart request.
type File struct {
	Name   string
	Reader io.Reader
}

// PostMultipart sends fields and file attachments as multipart/form-data.
// The rentals module uses it to upload contract documents together with the
// contract data. Interceptor behavior matches the JSON path.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files map[string]File, out any, opts ...RequestOption) error {
	options := requestOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field %q: %w", key, err)
		}
	}
	for key, file := range files {
		part, err := writer.CreateFormFile(key, file.Name)
		if err != nil {
			return fmt.Errorf("failed to create form file %q: %w", key, err)
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return fmt.Errorf("failed to copy form file %q: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	target := c.baseURL + path
	if len(options.query) > 0 {
		target += "?" + options.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return c.send(req, path, options, out)
}
