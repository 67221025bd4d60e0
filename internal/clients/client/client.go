package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-vault-ledger/internal/observability/metrics"
)

const maxErrorBodySize = 4096

type BaseClient interface {
	GetBaseURL() string
	GetDefaultRequestTimeout() time.Duration
	GetHttpClient() *http.Client
}

type HttpClientOptions struct {
	Timeout time.Duration
	Path    string
	// TemplatePath is the path without ids, used as the metrics label
	TemplatePath string
	Headers      map[string]string
}

// HttpError is returned for responses with a status code of 400 and above.
type HttpError struct {
	StatusCode int
	Body       []byte
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, string(e.Body))
}

func sendRequest[I any, R any](
	ctx context.Context, client BaseClient, method string, opts *HttpClientOptions, input *I,
) (*R, error) {
	timeout := client.GetDefaultRequestTimeout()
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := client.GetBaseURL() + opts.Path
	log := log.Ctx(ctx).With().Str("method", method).Str("url", url).Logger()

	var body io.Reader
	if input != nil {
		payload, err := json.Marshal(input)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.GetHttpClient().Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("Request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		log.Debug().Int("status", resp.StatusCode).Msg("Request returned an error status")
		return nil, &HttpError{StatusCode: resp.StatusCode, Body: errorBody}
	}

	var output R
	if resp.StatusCode == http.StatusNoContent {
		return &output, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(&output); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return &output, nil
}

// SendRequest sends a json request and decodes the json response, recording
// the request duration by template path.
func SendRequest[I any, R any](
	ctx context.Context, client BaseClient, method string, opts *HttpClientOptions, input *I,
) (*R, error) {
	timer := metrics.StartClientRequestDurationTimer(client.GetBaseURL(), method, opts.TemplatePath)

	result, err := sendRequest[I, R](ctx, client, method, opts, input)
	statusCode := http.StatusOK
	if err != nil {
		statusCode = http.StatusInternalServerError
		if httpErr, ok := err.(*HttpError); ok {
			statusCode = httpErr.StatusCode
		}
	}
	timer(statusCode)

	return result, err
}
