package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/nearft/relay/internal/apperr"
)

// HTTPClient round-robins requests across a fixed list of NEAR RPC
// endpoints, skipping any endpoint its health tracker currently considers
// unhealthy, and falling back to trying every endpoint once if all of
// them look unhealthy (an RPC outage should degrade, not wedge, the
// relay).
type HTTPClient struct {
	endpoints []string
	trackers  []*healthTracker
	next      atomic.Int64
	http      *http.Client
	log       *zap.SugaredLogger
}

// NewHTTPClient constructs a client over the given endpoint list. endpoints
// must be non-empty.
func NewHTTPClient(endpoints []string, log *zap.SugaredLogger) (*HTTPClient, error) {
	if len(endpoints) == 0 {
		return nil, apperr.New(apperr.InvalidInput, "at least one rpc endpoint is required")
	}

	trackers := make([]*healthTracker, len(endpoints))
	for i := range trackers {
		trackers[i] = &healthTracker{}
	}

	return &HTTPClient{
		endpoints: endpoints,
		trackers:  trackers,
		http:      &http.Client{Timeout: 15 * time.Second},
		log:       log,
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Call tries each endpoint in round-robin order, starting with one the
// health tracker currently considers healthy, until one succeeds or every
// endpoint has been tried once.
func (c *HTTPClient) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	start := int(c.next.Add(1)) % len(c.endpoints)

	anyHealthy := false
	for _, tr := range c.trackers {
		if tr.isHealthy() {
			anyHealthy = true
			break
		}
	}

	var lastErr error
	for attempt := 0; attempt < len(c.endpoints); attempt++ {
		idx := (start + attempt) % len(c.endpoints)
		if anyHealthy && !c.trackers[idx].isHealthy() && attempt < len(c.endpoints)-1 {
			continue
		}

		result, err := c.callEndpoint(ctx, idx, method, params)
		if err == nil {
			c.trackers[idx].recordSuccess()
			return result, nil
		}

		c.trackers[idx].recordFailure()
		c.log.Warnw("rpc call failed, trying next endpoint", "endpoint", c.endpoints[idx], "method", method, "error", err)
		lastErr = err
	}

	return nil, apperr.Wrap(apperr.RpcError, fmt.Sprintf("all %d rpc endpoints failed", len(c.endpoints)), lastErr)
}

func (c *HTTPClient) callEndpoint(ctx context.Context, idx int, method string, params any) (json.RawMessage, error) {
	reqBody := Request{
		JSONRPC: "2.0",
		ID:      time.Now().UnixNano(),
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoints[idx], bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	var rpcResp Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}

	return rpcResp.Result, nil
}
