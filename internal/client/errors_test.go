// ABOUTME: Tests for API error envelope parsing
// ABOUTME: Covers string details, field-error lists and malformed bodies

package client

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func errorResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseAPIError_StringDetail(t *testing.T) {
	err := parseAPIError(errorResponse(400, `{"detail": "insufficient data"}`))

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Detail != "insufficient data" {
		t.Errorf("expected detail 'insufficient data', got %q", apiErr.Detail)
	}
	if apiErr.Error() != "insufficient data" {
		t.Errorf("expected error message to be the detail, got %q", apiErr.Error())
	}
}

func TestParseAPIError_FieldErrorList(t *testing.T) {
	body := `{"detail": [{"msg": "field required", "loc": ["body", "animal_sex"]}, {"msg": "second"}]}`
	err := parseAPIError(errorResponse(422, body))

	apiErr := err.(*APIError)
	if apiErr.Detail != "field required" {
		t.Errorf("expected first field-error message, got %q", apiErr.Detail)
	}
}

func TestParseAPIError_EmptyList(t *testing.T) {
	err := parseAPIError(errorResponse(422, `{"detail": []}`))

	apiErr := err.(*APIError)
	if apiErr.Detail != "" {
		t.Errorf("expected empty detail, got %q", apiErr.Detail)
	}
	if apiErr.Error() != "backend returned status 422" {
		t.Errorf("expected generic status message, got %q", apiErr.Error())
	}
}

func TestParseAPIError_MalformedBody(t *testing.T) {
	err := parseAPIError(errorResponse(500, `<html>Internal Server Error</html>`))

	apiErr := err.(*APIError)
	if apiErr.StatusCode != 500 {
		t.Errorf("expected status 500, got %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "" {
		t.Errorf("expected no detail for malformed body, got %q", apiErr.Detail)
	}
}
