package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"module-keeper/internal/config"
	"module-keeper/internal/models"
)

// HTTPClient 定义HTTP客户端接口
type HTTPClient interface {
	Get(path string, params map[string]interface{}) (*HTTPResponse, error)
	Post(path string, data interface{}) (*HTTPResponse, error)
	Close() error
}

// HTTPConfig 定义HTTP客户端配置
type HTTPConfig struct {
	Address string        // unix socket路径或tcp地址
	Network string        // unix,tcp
	Timeout time.Duration // 默认超时时间
	BaseURL string        // 基础URL
	Token   string        // Bearer token, 为空时不发送Authorization头
}

/**
 * Build client configuration for the local module-keeper server
 * @param {*config.AppConfig} cfg - Application configuration
 * @returns {*HTTPConfig} Unix socket config when server.socket exists, TCP otherwise
 */
func ServerHTTPConfig(cfg *config.AppConfig) *HTTPConfig {
	c := &HTTPConfig{
		Network: "tcp",
		Address: tcpAddress(cfg.Server.Address),
		Timeout: 5 * time.Second,
		BaseURL: "http://localhost",
	}
	if cfg.Server.Socket != "" {
		if _, err := os.Stat(cfg.Server.Socket); err == nil {
			c.Network = "unix"
			c.Address = cfg.Server.Socket
		}
	}
	if c.Network == "tcp" {
		c.BaseURL = "http://" + c.Address
	}
	return c
}

// tcpAddress turns a listen address like ":8080" into a dialable one
func tcpAddress(listen string) string {
	if listen == "" {
		listen = config.DefaultServerAddr
	}
	if strings.HasPrefix(listen, ":") {
		return "127.0.0.1" + listen
	}
	return listen
}

// HTTPResponse 定义HTTP响应结构
type HTTPResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Error      string              `json:"error"`
	Code       string              `json:"code"`
}

// OK reports a 2xx status
func (r *HTTPResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// buildURL 构建完整的URL, path为绝对URL时忽略baseURL
func buildURL(baseURL, path string, params map[string]interface{}) (string, error) {
	var u *url.URL
	var err error
	if strings.Contains(path, "://") {
		u, err = url.Parse(path)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
	} else {
		u, err = url.Parse(baseURL)
		if err != nil {
			return "", fmt.Errorf("invalid base URL: %w", err)
		}
		u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	}

	// 添加查询参数
	if params != nil {
		q := u.Query()
		for key, value := range params {
			switch v := value.(type) {
			case string:
				q.Set(key, v)
			case bool:
				q.Set(key, fmt.Sprintf("%t", v))
			default:
				q.Set(key, fmt.Sprintf("%v", v))
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// serializeData 序列化请求数据
func serializeData(data interface{}) (io.Reader, error) {
	if data == nil {
		return nil, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize data: %w", err)
	}

	return bytes.NewReader(jsonData), nil
}

// deserializeResponse 反序列化响应数据
func deserializeResponse(resp *http.Response) (*HTTPResponse, error) {
	defer resp.Body.Close()
	httpResp := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	httpResp.Body = body
	if httpResp.OK() {
		return httpResp, nil
	}
	if len(body) == 0 {
		httpResp.Error = resp.Status
	} else {
		var errBody models.ErrorResponse
		if err := json.Unmarshal(body, &errBody); err != nil {
			httpResp.Error = strings.TrimSpace(string(body))
		} else {
			httpResp.Code = errBody.Code
			httpResp.Error = errBody.Error
		}
	}
	if httpResp.Error == "" {
		httpResp.Error = "Unknown error"
	}
	return httpResp, nil
}
