package rpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"module-keeper/internal/logger"
	"module-keeper/internal/models"
)

var ErrRequestFailed = errors.New("request failed")

// ModuleClient forwards prepared install/remove requests to a module-client daemon
type ModuleClient struct {
	client HTTPClient
}

func NewModuleClient(client HTTPClient) *ModuleClient {
	if client == nil {
		client = NewHTTPClient(nil)
	}
	return &ModuleClient{client: client}
}

/**
 * Post module-client params to urls.Call
 * @param {models.RemoteUrls} urls - Endpoints returned by the require/remove actions
 * @param {models.RequestParams} params - Params returned by the require/remove actions
 * @returns {json.RawMessage} Raw reply of the module client
 * @throws
 * - ErrRequestFailed when the module client answers with a non-2xx status
 */
func (m *ModuleClient) Call(urls models.RemoteUrls, params models.RequestParams) (json.RawMessage, error) {
	logger.Infof("Forwarding '%s %s' to %s", params.Method, params.Name, urls.Call)
	resp, err := m.client.Post(urls.Call, params)
	if err != nil {
		return nil, err
	}
	return replyBody(urls.Call, resp)
}

// Status queries the progress endpoint of the module client
func (m *ModuleClient) Status(urls models.RemoteUrls) (json.RawMessage, error) {
	resp, err := m.client.Get(urls.Status, nil)
	if err != nil {
		return nil, err
	}
	return replyBody(urls.Status, resp)
}

func replyBody(url string, resp *HTTPResponse) (json.RawMessage, error) {
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrRequestFailed, url, resp.StatusCode, resp.Error)
	}
	if len(resp.Body) == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(resp.Body), nil
}
