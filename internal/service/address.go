package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	"github.com/passdy/intake/internal/address"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// AddressClient looks up administrative areas from the address service.
// When baseURL is empty it answers from a built-in demo directory.
type AddressClient struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	sem     *semaphore.Weighted
	group   singleflight.Group
}

var _ address.Lookuper = (*AddressClient)(nil)

type addressPayload struct {
	Data []address.Record `json:"data"`
}

// NewAddressClient creates an address service client.
func NewAddressClient(baseURL string, opts ...Option) *AddressClient {
	o := newOptions(opts)
	return &AddressClient{
		baseURL: normalizeBaseURL(baseURL),
		http:    o.http,
		logger:  o.logger,
		sem:     semaphore.NewWeighted(o.maxConcurrent),
	}
}

// Lookup returns the areas of req.Tier under req.ParentID. Identical
// concurrent requests share one round trip.
func (c *AddressClient) Lookup(ctx context.Context, req address.Request) ([]address.Record, error) {
	if !req.Tier.Valid() {
		return nil, fmt.Errorf("lookup addresses: %w: %q", address.ErrUnknownTier, req.Tier)
	}
	if c.baseURL == "" {
		return demoLookup(req), nil
	}

	key := req.Tier.String() + ":" + req.ParentID.String()
	// The shared call outlives a single caller's cancellation; the HTTP
	// client timeout still bounds it.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.fetch(shared, req)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("address lookup shared", "tier", req.Tier, "parent_id", req.ParentID)
		}
		return slices.Clone(res.Val.([]address.Record)), nil
	}
}

func (c *AddressClient) fetch(ctx context.Context, req address.Request) ([]address.Record, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire semaphore: %w", err)
	}
	defer c.sem.Release(1)

	endpoint, err := url.JoinPath(c.baseURL, "addresses")
	if err != nil {
		return nil, fmt.Errorf("build address url: %w", err)
	}
	query := url.Values{"address_type": {req.Tier.String()}}
	if req.Tier.HasParent() {
		query.Set("parent_id", req.ParentID.String())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create address request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("lookup addresses: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, statusError("lookup addresses", resp)
	}

	var payload addressPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode addresses: %w", err)
	}

	c.logger.Debug("addresses fetched",
		"tier", req.Tier,
		"parent_id", req.ParentID,
		"count", len(payload.Data),
	)
	return payload.Data, nil
}
