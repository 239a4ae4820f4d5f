package articles

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

const (
	// EnvBaseURL names the environment variable holding the backend base URL.
	EnvBaseURL = "INTERNAL_API_BASE_URL"
	// DefaultBaseURL is used when EnvBaseURL is unset.
	DefaultBaseURL = "http://backend:8080"
	// DefaultTimeout bounds every call.
	DefaultTimeout = 10 * time.Second
)

// BaseURLFromEnv returns the configured backend base URL or the default.
func BaseURLFromEnv() string {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		return v
	}
	return DefaultBaseURL
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport client. Its own Timeout is left
// untouched; the per-call timeout still applies through the request context.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger attaches a logger; request URLs are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the remote article API. Every call returns a Result and
// carries a fixed timeout; failures are never retried.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient builds a client for baseURL (BaseURLFromEnv when empty).
func NewClient(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = BaseURLFromEnv()
	}
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches GET /articles/{limit}/{offset}.
func (c *Client) List(ctx context.Context, params ListParams) Result[[]Article] {
	p := params.normalized()
	return do[[]Article](ctx, c, http.MethodGet, fmt.Sprintf("/articles/%d/%d", p.Limit, p.Offset), nil)
}

// ListDeleted fetches GET /articles/deleted/{limit}/{offset}.
func (c *Client) ListDeleted(ctx context.Context, params ListParams) Result[[]Article] {
	p := params.normalized()
	return do[[]Article](ctx, c, http.MethodGet, fmt.Sprintf("/articles/deleted/%d/%d", p.Limit, p.Offset), nil)
}

// Get fetches GET /article/{id}.
func (c *Client) Get(ctx context.Context, id string) Result[Article] {
	return do[Article](ctx, c, http.MethodGet, "/article/"+url.PathEscape(id), nil)
}

// Create posts a new article.
func (c *Client) Create(ctx context.Context, dto CreateDTO) Result[Article] {
	return do[Article](ctx, c, http.MethodPost, "/article", dto)
}

// Update sends only the provided fields. method defaults to PUT; PATCH and
// POST are accepted for backends exposing those verbs. The backend may answer
// with {} or the updated entity.
func (c *Client) Update(ctx context.Context, id string, dto UpdateDTO, method string) Result[Article] {
	switch method = strings.ToUpper(strings.TrimSpace(method)); method {
	case "":
		method = http.MethodPut
	case http.MethodPut, http.MethodPatch, http.MethodPost:
	default:
		return failure[Article](fmt.Sprintf("unsupported update method %s", method))
	}
	return do[Article](ctx, c, method, "/article/"+url.PathEscape(id), dto)
}

// Delete issues DELETE /article/{id} (a soft delete on the backend).
func (c *Client) Delete(ctx context.Context, id string) Result[struct{}] {
	return do[struct{}](ctx, c, http.MethodDelete, "/article/"+url.PathEscape(id), nil)
}

// ListPublished lists a page and keeps only published articles.
func (c *Client) ListPublished(ctx context.Context, params ListParams) Result[[]Article] {
	r := c.List(ctx, params)
	if !r.OK() {
		return r
	}
	published := make([]Article, 0, len(r.Data))
	for _, a := range r.Data {
		if a.Status == StatusPublish {
			published = append(published, a)
		}
	}
	return Result[[]Article]{Data: published}
}

// GetPublished fetches an article and rejects anything not published.
func (c *Client) GetPublished(ctx context.Context, id string) Result[Article] {
	r := c.Get(ctx, id)
	if !r.OK() {
		return r
	}
	if r.Data.Status != StatusPublish {
		return failure[Article](ErrNotPublished.Error())
	}
	return r
}

func do[T any](ctx context.Context, c *Client, method, path string, payload any) Result[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	c.logger.Debug("article api request", zap.String("method", method), zap.String("url", target))

	var body io.Reader
	if payload != nil {
		raw, err := sonic.Marshal(payload)
		if err != nil {
			return failure[T](fmt.Sprintf("encode request: %v", err))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return failure[T](err.Error())
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return failure[T](transportMessage(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure[T](transportMessage(err))
	}
	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(raw, isJSON, resp.StatusCode)
		c.logger.Debug("article api error",
			zap.String("url", target),
			zap.Int("status", resp.StatusCode),
			zap.String("error", msg),
		)
		return failure[T](msg)
	}

	var out Result[T]
	if len(bytes.TrimSpace(raw)) == 0 || !isJSON {
		return out
	}
	if err := sonic.Unmarshal(raw, &out.Data); err != nil {
		if isEmptyObject(raw) {
			return Result[T]{}
		}
		return failure[T](fmt.Sprintf("decode response: %v", err))
	}
	return out
}

// errorMessage derives the message of a failed call: the JSON "error" field,
// then a plain-text body, then "HTTP <status>".
func errorMessage(raw []byte, isJSON bool, status int) string {
	text := strings.TrimSpace(string(raw))
	if text != "" && isJSON {
		var body map[string]any
		if err := sonic.Unmarshal(raw, &body); err == nil {
			if msg, ok := body["error"]; ok && msg != nil && fmt.Sprint(msg) != "" {
				return fmt.Sprint(msg)
			}
			return "HTTP " + strconv.Itoa(status)
		}
	}
	if text != "" && !isJSON {
		return text
	}
	return "HTTP " + strconv.Itoa(status)
}

func transportMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		if msg := urlErr.Err.Error(); msg != "" {
			return msg
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "fetch failed"
}

func isEmptyObject(raw []byte) bool {
	return string(bytes.TrimSpace(raw)) == "{}"
}
