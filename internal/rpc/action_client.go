package rpc

import (
	"encoding/json"
	"fmt"

	"module-keeper/internal/models"
)

/**
 * Error returned by the module-keeper action API
 * @property {int} Status - HTTP status
 * @property {string} Code - Error code such as "action.not_found"
 * @property {string} Message - Error message
 */
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ActionClient calls the action API of a running module-keeper server
type ActionClient struct {
	client HTTPClient
}

func NewActionClient(client HTTPClient) *ActionClient {
	return &ActionClient{client: client}
}

/**
 * Invoke a named action
 * @param {string} action - Action name, e.g. "getInstalledModules"
 * @param {interface{}} params - Action params, nil sends an empty body
 * @param {interface{}} out - Decoded result, may be nil
 * @throws
 * - *APIError for non-2xx replies
 */
func (a *ActionClient) Call(action string, params interface{}, out interface{}) error {
	resp, err := a.client.Post(models.ActionsPath+"/"+action, params)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &APIError{Status: resp.StatusCode, Code: resp.Code, Message: resp.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode '%s' result: %w", action, err)
	}
	return nil
}

// Actions lists the action names the server exposes
func (a *ActionClient) Actions() ([]string, error) {
	resp, err := a.client.Get(models.ActionsPath, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &APIError{Status: resp.StatusCode, Code: resp.Code, Message: resp.Error}
	}
	var names []string
	if err := json.Unmarshal(resp.Body, &names); err != nil {
		return nil, fmt.Errorf("decode action list: %w", err)
	}
	return names, nil
}
