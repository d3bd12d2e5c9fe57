package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"lifesystem/core"
)

// HealthStatus describes the /healthz response.
type HealthStatus struct {
	Status string         `json:"status"`
	Checks map[string]any `json:"checks"`
}

// ActionResult is returned by action endpoints that produce no record.
type ActionResult struct {
	OK    bool       `json:"ok"`
	Stats core.Stats `json:"stats"`
}

// APIError is the error body returned by the server for non-2xx responses.
type APIError struct {
	Status  int               `json:"-"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: status %d", e.Status)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// IsConfirmationRequired reports whether err is the server refusing an
// unconfirmed destructive action.
func IsConfirmationRequired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "confirmation_required"
}

func decodeJSON(resp *http.Response, target any) error {
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if target == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

// ErrEmptyName is returned when a path parameter such as a tool is empty.
var ErrEmptyName = errors.New("name is required")
