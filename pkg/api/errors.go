package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a non-2xx backend response. Detail carries the raw body so
// higher-level handlers can inspect structured reasons.
type StatusError struct {
	Endpoint string
	Code     int
	Reason   string
	Detail   json.RawMessage
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: status %d (%s)", e.Endpoint, e.Code, e.Reason)
	}
	return fmt.Sprintf("%s: status %d", e.Endpoint, e.Code)
}

// reasonProjectPaused is the structured reason the backend attaches to 403
// responses while a project is paused. This error class is a global gate and
// must bubble past per-operation handlers.
const reasonProjectPaused = "PROJECT_PAUSED"

func newStatusError(endpoint string, code int, body []byte) *StatusError {
	e := &StatusError{
		Endpoint: endpoint,
		Code:     code,
		Detail:   json.RawMessage(body),
	}
	var probe struct {
		Reason string `json:"reason"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &probe) == nil {
		e.Reason = probe.Reason
		if e.Reason == "" && probe.Detail != "" {
			e.Reason = probe.Detail
		}
	}
	return e
}

// IsProjectPaused reports whether err is the paused-project gate.
func IsProjectPaused(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusForbidden && se.Reason == reasonProjectPaused
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}
