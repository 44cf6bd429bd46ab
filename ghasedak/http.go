package ghasedak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

func (c *Client) sendRequest(ctx context.Context, method, url string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Body:       string(responseBody),
	}
	if err := json.Unmarshal(responseBody, &response.JSON); err != nil {
		response.JSON = nil
		response.JSONErr = fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return response, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("accept", "text/plain")
	req.Header.Set("ApiKey", c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
}
