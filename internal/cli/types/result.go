package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
)

// ErrNoData is returned by DecodeData when the result carries no payload
var ErrNoData = errors.New("result has no data")

// Result is the normalized outcome of one API call.
//
// Success follows the server's own success flag when the body declares one.
// Status is 0 for transport failures (network error, unparseable body).
// Data is nil when the server sent no payload or an explicit null.
// Message is empty when the server supplied none.
type Result struct {
	Success bool            `json:"success"`
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

// MessageOr returns the server message, or fallback when there is none
func (r Result) MessageOr(fallback string) string {
	if r.Message != "" {
		return r.Message
	}
	return fallback
}

// SessionExpired reports whether the server rejected the stored token
func (r Result) SessionExpired() bool {
	return r.Status == http.StatusUnauthorized
}

// DecodeData unmarshals the result payload into T
func DecodeData[T any](r Result) (T, error) {
	var v T
	if len(r.Data) == 0 {
		return v, ErrNoData
	}
	if err := sonic.Unmarshal(r.Data, &v); err != nil {
		return v, fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return v, nil
}
