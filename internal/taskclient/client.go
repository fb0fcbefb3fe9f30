// Package taskclient talks to a remote task collection over HTTP.
package taskclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

// DefaultTimeout bounds a single request when no *http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// IdempotencyHeader is sent with Create when a key is supplied.
const IdempotencyHeader = "Idempotency-Key"

// ErrRequestFailed matches every error returned by Client.
var ErrRequestFailed = errors.New("request failed")

// RequestFailedError describes a failed call: a transport error, a non-2xx
// status or a response body that could not be decoded.
type RequestFailedError struct {
	Method     string
	URL        string
	StatusCode int // 0 when no response arrived
	Err        error
}

func (e *RequestFailedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *RequestFailedError) Unwrap() error { return e.Err }

func (e *RequestFailedError) Is(target error) bool { return target == ErrRequestFailed }

// Client is a Task Service Client bound to one collection URL, for example
// http://localhost:8080/api/tasks/.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New returns a client for the collection at baseURL. A missing trailing
// slash is added.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("tasks url is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse tasks url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("tasks url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: DefaultTimeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List fetches the whole collection in server order.
func (c *Client) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, c.collectionURL(), nil, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Create posts {title, completed} and returns the stored task. A non-empty
// idempotencyKey is forwarded so a retried create is not duplicated.
func (c *Client) Create(ctx context.Context, t model.Task, idempotencyKey string) (model.Task, error) {
	body := struct {
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}{Title: t.Title, Completed: t.Completed}

	var header http.Header
	if idempotencyKey != "" {
		header = http.Header{IdempotencyHeader: []string{idempotencyKey}}
	}

	var created model.Task
	if err := c.do(ctx, http.MethodPost, c.collectionURL(), header, body, &created); err != nil {
		return model.Task{}, err
	}
	return created, nil
}

// Replace sends the full representation of t to its item URL.
func (c *Client) Replace(ctx context.Context, t model.Task) (model.Task, error) {
	var updated model.Task
	if err := c.do(ctx, http.MethodPut, c.itemURL(t.ID), nil, t, &updated); err != nil {
		return model.Task{}, err
	}
	return updated, nil
}

// Delete removes one task.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil, nil)
}

// DeleteAll removes the whole collection.
func (c *Client) DeleteAll(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, c.collectionURL(), nil, nil, nil)
}

func (c *Client) collectionURL() string {
	return c.base.String()
}

func (c *Client) itemURL(id int64) string {
	return c.base.JoinPath(strconv.FormatInt(id, 10)).String() + "/"
}

func (c *Client) do(ctx context.Context, method, target string, header http.Header, in, out any) error {
	fail := func(status int, err error) error {
		return &RequestFailedError{Method: method, URL: target, StatusCode: status, Err: err}
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fail(0, fmt.Errorf("encode body: %w", err))
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("task service request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, errors.New(errorMessage(resp.Body)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// errorMessage extracts {"error": "..."} bodies and falls back to the raw text.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4<<10))
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return msg
	}
	return "unexpected status"
}
