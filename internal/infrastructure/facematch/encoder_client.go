package facematch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/attendance/backend/internal/infrastructure/config"
)

// maxEncoderResponseSize limits the response body size to prevent memory exhaustion
const maxEncoderResponseSize = 10 * 1024 * 1024 // 10MB max response

// EncoderClient calls the face-encoder sidecar over HTTP. The sidecar wraps
// the dlib face model and returns one 128-dimension encoding per face found
// in the submitted image.
type EncoderClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewEncoderClient creates a client for the configured encoder endpoint
func NewEncoderClient(cfg config.FaceConfig) *EncoderClient {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &EncoderClient{
		endpoint: strings.TrimRight(cfg.EncoderEndpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type encodeResponse struct {
	Encodings [][]float64 `json:"encodings"`
}

type encoderErrorResponse struct {
	Detail string `json:"detail"`
}

// Encode submits an image and returns one encoding per detected face.
// An image with no faces yields an empty slice, not an error.
func (c *EncoderClient) Encode(ctx context.Context, image []byte) ([][]float64, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "frame.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to build encoder request: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to build encoder request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build encoder request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/encodings", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build encoder request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("face encoder request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxEncoderResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read encoder response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp encoderErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Detail != "" {
			return nil, fmt.Errorf("face encoder returned %d: %s", resp.StatusCode, errResp.Detail)
		}
		return nil, fmt.Errorf("face encoder returned %d", resp.StatusCode)
	}

	var result encodeResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode encoder response: %w", err)
	}

	return result.Encodings, nil
}
