// Package fetch wraps single HTTP requests against the board backend.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// Request describes one call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   io.Reader
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	Code int
	Body string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.Code, http.StatusText(e.Code))
}

// StatusCode extracts the HTTP status from an error chain, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	var ee *EnvelopeError
	if errors.As(err, &ee) {
		return ee.Got
	}
	return 0
}

// Send issues req and returns the response body. A non-2xx status is
// returned as *HTTPError.
func Send(ctx context.Context, client *http.Client, req Request) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, req.Body)
	if err != nil {
		return nil, err
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, &HTTPError{Code: gerr.Code, Body: strings.TrimSpace(gerr.Body)}
		}
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// JSON builds a request with a JSON-encoded body.
func JSON(method, url string, v interface{}) (Request, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Request{}, err
	}
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return Request{Method: method, URL: url, Header: h, Body: bytes.NewReader(data)}, nil
}
