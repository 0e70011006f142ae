package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// downstreamError mirrors the error envelope returned by collaborator services.
type downstreamError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	// FastAPI-style bodies use a bare detail field instead.
	Detail string `json:"detail"`
}

// ParseResponseError reads the body of a non-2xx response and produces an
// error that preserves the downstream message when the body is structured.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	var downstream downstreamError
	if json.Unmarshal(body, &downstream) == nil {
		if downstream.Error != nil {
			return fmt.Errorf("%s returned status %d (%s): %s",
				serviceName, resp.StatusCode, downstream.Error.Code, downstream.Error.Message)
		}
		if downstream.Detail != "" {
			return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, downstream.Detail)
		}
	}

	return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, string(body))
}
