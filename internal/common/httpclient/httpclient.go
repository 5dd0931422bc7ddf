// Package httpclient makes the outbound requests to the upstream services the
// skill depends on. It builds the URL, applies headers, reads the body and
// turns error statuses into HTTPError values. It performs no retries.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// maxBodySize caps how much of an upstream response is read.
const maxBodySize = 4 << 20

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPError represents an error status returned by an upstream server.
type HTTPError struct {
	StatusCode int    // HTTP status code of the error
	Message    string // response body or status text
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}

// RequestOptions contains options for making HTTP requests.
type RequestOptions struct {
	Method      string            // HTTP method, defaults to GET
	URL         string            // absolute request URL
	QueryParams map[string]string // optional query parameters
	Headers     map[string]string // optional request headers
	Body        []byte            // optional request body
}

// DoRequest executes the request described by opts with the given client and
// returns the response body. Status codes of 400 and above yield *HTTPError.
func DoRequest(ctx context.Context, client Doer, opts RequestOptions) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid request URL")
	}
	if len(opts.QueryParams) > 0 {
		q := u.Query()
		for k, v := range opts.QueryParams {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s failed", method, u.Redacted())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode >= 400 {
		msg := string(respBody)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}
	return respBody, nil
}
