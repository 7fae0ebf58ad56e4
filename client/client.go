package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Uranury/IotLogger/sensors"
)

// ErrNoData is returned when the server's response has no "data" member.
var ErrNoData = errors.New("response has no data key")

const maxResponseBytes = 1 << 20

// Client posts readings to the collector endpoint.
type Client struct {
	URL  string
	HTTP *http.Client
}

func New(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{URL: url, HTTP: httpClient}
}

// Post sends r as JSON and returns the "data" member the server echoes back.
func (c *Client) Post(ctx context.Context, r sensors.Reading) (json.RawMessage, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("unable to encode reading: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("got unexpected HTTP status: %d", resp.StatusCode)
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("unable to parse JSON response: %w", err)
	}
	data, ok := out["data"]
	if !ok {
		return nil, ErrNoData
	}
	return data, nil
}
