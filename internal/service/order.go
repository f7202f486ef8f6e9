package service

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

	"github.com/google/uuid"
	"github.com/passdy/intake/internal/order"
)

// OrderClient creates orders against the order service.
// When baseURL is empty it accepts every order with a demo receipt.
type OrderClient struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

var _ order.Submitter = (*OrderClient)(nil)

// NewOrderClient creates an order service client.
func NewOrderClient(baseURL string, opts ...Option) *OrderClient {
	o := newOptions(opts)
	return &OrderClient{
		baseURL: normalizeBaseURL(baseURL),
		http:    o.http,
		logger:  o.logger,
	}
}

// Submit posts the order. A response without a data member yields a nil
// receipt and no error; the caller decides what that means.
func (c *OrderClient) Submit(ctx context.Context, payload order.Payload) (*order.Receipt, error) {
	if c.baseURL == "" {
		return demoReceipt(payload)
	}

	endpoint, err := url.JoinPath(c.baseURL, "orders")
	if err != nil {
		return nil, fmt.Errorf("build order url: %w", err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	key := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(idempotencyHeader, key)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, statusError("create order", resp)
	}

	var receipt order.Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	c.logger.Debug("order created", "idempotency_key", key, "status", resp.StatusCode)
	if !receipt.HasData() {
		return nil, nil
	}
	return &receipt, nil
}
