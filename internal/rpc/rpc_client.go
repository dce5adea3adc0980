package rpc

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"module-keeper/internal/logger"
)

// httpClient HTTP客户端实现
type httpClient struct {
	config    *HTTPConfig
	client    *http.Client
	transport *http.Transport
	mu        sync.Mutex
}

/**
 * Create HTTP client over TCP or a unix socket
 * @param {*HTTPConfig} config - Client configuration, nil for a plain TCP client with a 5s timeout
 * @returns {HTTPClient} HTTP client interface
 * @description
 * - With Network "unix" every request is dialed to config.Address, the host part of the URL is ignored
 */
func NewHTTPClient(config *HTTPConfig) HTTPClient {
	if config == nil {
		config = &HTTPConfig{Network: "tcp"}
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}

	client := &httpClient{config: config}
	client.transport = &http.Transport{}
	if config.Network == "unix" {
		socketPath := config.Address
		client.transport.DialContext = func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		}
	}
	client.client = &http.Client{
		Transport: client.transport,
		Timeout:   config.Timeout,
	}
	return client
}

/**
 * Send GET request
 * @param {string} path - API path relative to BaseURL, or an absolute URL
 * @param {map[string]interface{}} params - Query parameters
 * @returns {*HTTPResponse} Response, non-2xx statuses carry Error and Code
 * @throws
 * - URL construction errors
 * - Transport errors
 */
func (c *httpClient) Get(path string, params map[string]interface{}) (*HTTPResponse, error) {
	url, err := buildURL(c.config.BaseURL, path, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}
	return c.do(http.MethodGet, url, nil)
}

/**
 * Send POST request with a JSON body
 * @param {string} path - API path relative to BaseURL, or an absolute URL
 * @param {interface{}} data - Request body, nil for none
 */
func (c *httpClient) Post(path string, data interface{}) (*HTTPResponse, error) {
	url, err := buildURL(c.config.BaseURL, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}
	body, err := serializeData(data)
	if err != nil {
		return nil, err
	}
	return c.do(http.MethodPost, url, body)
}

func (c *httpClient) do(method, url string, body io.Reader) (*HTTPResponse, error) {
	logger.Debugf("Sending %s request to %s", method, url)

	ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return deserializeResponse(resp)
}

// Close 关闭空闲连接
func (c *httpClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transport.CloseIdleConnections()
	return nil
}
