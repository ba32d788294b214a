// ABOUTME: API error envelope parsing for the LeishVet backend
// ABOUTME: Extracts the most specific detail message from error responses

package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError represents a non-2xx response from the backend with its
// extracted detail message. Detail is empty when the body carried none.
type APIError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// errorEnvelope matches the backend error shape:
// {detail: string} or {detail: [{msg: string, ...}, ...]}
type errorEnvelope struct {
	Detail json.RawMessage `json:"detail"`
}

// fieldError is one entry of a validation error list
type fieldError struct {
	Msg string `json:"msg"`
}

// parseAPIError reads an error response body and returns an *APIError with
// the most specific message available: the detail string, or the first
// message of a field-error list, or nothing.
func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	var fieldErrors []fieldError
	if err := json.Unmarshal(envelope.Detail, &fieldErrors); err == nil && len(fieldErrors) > 0 {
		apiErr.Detail = fieldErrors[0].Msg
	}
	return apiErr
}
