package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// PlatformClient calls the platform's admin REST API with the console's
// service token. It never retries: every failure goes straight back to the
// operator.
type PlatformClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewPlatformClient builds a client. A zero timeout leaves requests unbounded
// apart from the caller's context.
func NewPlatformClient(baseURL, token string, timeout time.Duration) *PlatformClient {
	return &PlatformClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// RequestOpts captures inputs for platform API calls.
type RequestOpts struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response bundles the HTTP response metadata.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// Do performs a platform request. Non-2xx responses come back as *APIError.
func (c *PlatformClient) Do(ctx context.Context, opts RequestOpts) (*Response, error) {
	if opts.Method == "" {
		return nil, errors.New("request method is required")
	}
	path := strings.TrimLeft(opts.Path, "/")
	if path == "" {
		return nil, errors.New("request path is required")
	}

	target := c.baseURL + "/" + path
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal platform request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create platform request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("method", opts.Method).Str("path", path).Msg("platform request failed")
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(fmt.Errorf("read platform response: %w", err))
	}

	log.Ctx(ctx).Debug().
		Str("method", opts.Method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(started)).
		Msg("platform request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp.StatusCode, respBody)
	}

	return &Response{Status: resp.StatusCode, Body: respBody, Header: resp.Header}, nil
}

// doJSON performs the request and decodes a JSON body into out, if given.
func (c *PlatformClient) doJSON(ctx context.Context, opts RequestOpts, out any) error {
	resp, err := c.Do(ctx, opts)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &APIError{
			Kind:    KindUpstream,
			Status:  resp.Status,
			Message: FallbackMessage,
			Err:     fmt.Errorf("decode platform response for %s: %w", opts.Path, err),
		}
	}
	return nil
}
