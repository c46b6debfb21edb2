package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// VerifyMode selects how email verification tokens are submitted.
type VerifyMode string

const (
	// VerifyPost sends the token in a JSON body.
	VerifyPost VerifyMode = "post"
	// VerifyPath sends the token embedded in the URL path of a GET.
	VerifyPath VerifyMode = "path"
)

const maxBodyBytes = 1 << 20

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	VerifyMode VerifyMode
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the remote authentication and catalog API.
type Client struct {
	baseURL    string
	http       *http.Client
	verifyMode VerifyMode
	logger     *zap.Logger
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mode := opts.VerifyMode
	if mode != VerifyPath {
		mode = VerifyPost
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		http:       httpClient,
		verifyMode: mode,
		logger:     logger,
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

// do sends req and returns the raw response body of a 2xx response. Every
// failure comes back as *Error.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	var bodyReader io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("remote api unreachable",
			zap.String("method", req.method), zap.String("path", req.path), zap.Error(err))
		return nil, &Error{Message: NetworkErrorMessage, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: NetworkErrorMessage, Err: err}
	}
	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")

	c.logger.Debug("remote api call",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Status:  resp.StatusCode,
			Message: extractMessage(resp.StatusCode, body, isJSON),
		}
	}
	if !isJSON {
		return nil, nil
	}
	return body, nil
}

// call sends req and decodes a JSON response into out when out is non-nil.
func (c *Client) call(ctx context.Context, req request, out any) error {
	body, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Status: http.StatusOK, Message: "Unexpected response from server", Err: err}
	}
	return nil
}
