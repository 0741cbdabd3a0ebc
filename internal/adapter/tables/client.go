package tables

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/polkiloo/tableside/internal/domain/model"
)

// ErrUnknownTable indicates the table service doesn't know the table.
var ErrUnknownTable = errors.New("table not registered")

// TooManyRequestsError represents rate limiting signal from the table service.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// HTTPClient reports table occupancy to the table management service.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates table service client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse table service url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("table service url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}, nil
}

// TableOccupied marks the table as seated with an active order.
func (c *HTTPClient) TableOccupied(ctx context.Context, event model.TableEvent) error {
	return c.post(ctx, event, "occupied")
}

// TableFreed releases the table once its order is completed.
func (c *HTTPClient) TableFreed(ctx context.Context, event model.TableEvent) error {
	return c.post(ctx, event, "freed")
}

func (c *HTTPClient) post(ctx context.Context, event model.TableEvent, action string) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/tables/", strconv.Itoa(event.TableNumber), action)

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrUnknownTable
	case http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("table service request failed",
			slog.Int("status", resp.StatusCode),
			slog.Int("table", event.TableNumber),
			slog.String("body", string(respBody)),
		)
		return fmt.Errorf("table service error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
