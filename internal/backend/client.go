package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// Client is the HTTP wrapper around the commerce backend. It owns the
// single defensive unwrap point for the backend's {success, data}
// envelope and converts every failure into a classified *APIError.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	settings := gobreaker.Settings{
		Name:    "commerce-backend",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Only connectivity failures count against the breaker; a 4xx
		// is a healthy backend telling us no.
		IsSuccessful: func(err error) bool {
			return err == nil || !IsNetwork(err)
		},
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// do performs one backend call and returns the raw response body.
// token is the caller's session token, forwarded as a bearer
// credential. couponOp routes 4xx classification to KindInvalidCoupon.
func (c *Client) do(ctx context.Context, method, path, token string, body interface{}, couponOp bool) ([]byte, error) {
	respBody, err := c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("encode request: %w", err)
			}
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", uuid.NewString())
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, networkError(err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, networkError(err)
		}

		if resp.StatusCode >= 400 {
			return nil, classify(resp.StatusCode, respBody, couponOp)
		}
		return respBody, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, networkError(err)
		}
		return nil, err
	}
	return respBody, nil
}

// unwrapEnvelope returns the payload object whether the backend
// answered bare or wrapped as {success, data}. This is the only place
// the envelope is handled; no call site unwraps on its own. An envelope
// whose data is JSON null is a half-formed response and fails rather
// than decoding into a silent zero value.
func unwrapEnvelope(raw []byte) ([]byte, error) {
	var envelope struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		if bytes.Equal(bytes.TrimSpace(envelope.Data), []byte("null")) {
			return nil, &APIError{
				Kind:    KindGeneric,
				Message: genericFailureMessage,
				cause:   fmt.Errorf("response envelope carried null data"),
			}
		}
		return envelope.Data, nil
	}
	return raw, nil
}

func decode(raw []byte, dst interface{}) error {
	payload, err := unwrapEnvelope(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return &APIError{
			Kind:    KindGeneric,
			Message: genericFailureMessage,
			cause:   fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}
