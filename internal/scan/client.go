package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/splitbill/internal/models"
)

// DefaultCurrency is used when the scanning service does not report one.
const DefaultCurrency = "COP"

const maxResponseBytes = 1 << 20

// Result is a sanitized scan.
type Result struct {
	Items    []models.Item
	Currency string
}

// Provider extracts bill items from a receipt image.
type Provider interface {
	Scan(ctx context.Context, img Image) (*Result, error)
}

// Client calls the OCR proxy's POST /scan endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Provider = (*Client)(nil)

// NewClient creates a client for the scanning service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Scan sends img to the scanning service and sanitizes the returned items.
func (c *Client) Scan(ctx context.Context, img Image) (*Result, error) {
	if len(img.Data) > MaxPayloadBytes {
		return nil, ErrPayloadTooLarge
	}
	img.MediaType = NormalizeMediaType(img.MediaType)

	body, err := json.Marshal(img)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scan", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create scan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &UpstreamError{Class: ClassUnavailable, StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	slog.Debug("Scan service responded",
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	payload := &structpb.Struct{}
	decodeErr := protojson.Unmarshal(raw, payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ""
		if decodeErr == nil {
			msg = payload.GetFields()["error"].GetStringValue()
		}
		if resp.StatusCode == http.StatusUnprocessableEntity {
			if msg == "" {
				return nil, ErrEmptyResult
			}
			return nil, fmt.Errorf("%w: %s", ErrEmptyResult, msg)
		}
		return nil, &UpstreamError{Class: classify(resp.StatusCode), StatusCode: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return nil, &UpstreamError{Class: ClassBadData, StatusCode: resp.StatusCode, Message: "malformed response", Err: decodeErr}
	}

	items, err := Sanitize(payload.GetFields()["items"].GetListValue().GetValues())
	if err != nil {
		return nil, err
	}

	currency := strings.TrimSpace(payload.GetFields()["currency"].GetStringValue())
	if currency == "" {
		currency = DefaultCurrency
	}

	return &Result{Items: items, Currency: currency}, nil
}

func transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("scan cancelled: %w", err)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &UpstreamError{Class: ClassTimeout, Message: "request timed out", Err: err}
	}
	return &UpstreamError{Class: ClassUnavailable, Message: "failed to reach scan service", Err: err}
}
